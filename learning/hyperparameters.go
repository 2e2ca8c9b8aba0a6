package learning

import "github.com/neurlang/svvit/config"

// HyperParameters tune the search for hashtron programs
type HyperParameters struct {
	Threads int // number of threads for learning

	DeadlineMs    int // deadline in milliseconds to throw away a salt search of one modulo
	DeadlineRetry int // retry from scratch after this many failed deadlines
	MaxAttempts   int // number of salts tried for one modulo

	// FinalSize is the number of remaining values small enough for the
	// parity separating salt search
	FinalSize int

	Factor uint32 // initial modulo is |A|*|B|/Factor

	Numerator   uint32 // modulo shrinks by Numerator/Denominator
	Denominator uint32
	Subtractor  uint32 // and by Subtractor
}

// FromConfig creates hyper parameters from the learning section of a config
func FromConfig(c config.LearningConfig) *HyperParameters {
	return &HyperParameters{
		Threads:       c.Threads,
		DeadlineMs:    c.DeadlineMs,
		DeadlineRetry: c.DeadlineRetry,
		MaxAttempts:   c.MaxAttempts,
		FinalSize:     c.FinalSize,
		Factor:        c.Factor,
		Numerator:     c.Numerator,
		Denominator:   c.Denominator,
		Subtractor:    c.Subtractor,
	}
}
