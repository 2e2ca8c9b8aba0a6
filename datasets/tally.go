package datasets

import "sync"

// Tally is used to count votes on hashtron input keys and return the majority votes
type Tally struct {
	// these are votes in case when the key caused correct overall result
	// true value is added as +1, false value is voted as -1
	// if the tally is positive we map the key to true, false if negative
	correct map[uint32]int64

	// these are votes in case when the key caused better but not correct result
	improve map[uint32]int64

	mut sync.Mutex

	// improvementPossible reports whether some vote would change the hashtron output
	improvementPossible bool
}

// NewTally creates an initialized tally
func NewTally() *Tally {
	var t Tally
	t.Init()
	return &t
}

// Init initializes the tally structure
func (t *Tally) Init() {
	t.correct = make(map[uint32]int64)
	t.improve = make(map[uint32]int64)
	t.improvementPossible = false
}

// Free frees the memory occupied by tally structure
func (t *Tally) Free() {
	t.correct = nil
	t.improve = nil
}

// GetImprovementPossible reads improvementPossible
func (t *Tally) GetImprovementPossible() bool {
	t.mut.Lock()
	defer t.mut.Unlock()
	return t.improvementPossible
}

// Len estimates the size of tally
func (t *Tally) Len() (o int) {
	t.mut.Lock()
	o = len(t.correct) + len(t.improve)
	t.mut.Unlock()
	return
}

// AddToImprove votes for key which improved the overall result
func (t *Tally) AddToImprove(key uint32, vote int8) {
	if vote == 0 {
		return
	}
	t.mut.Lock()
	t.improve[key] += int64(vote)
	if t.improve[key] == 0 {
		delete(t.improve, key)
	}
	t.mut.Unlock()
}

// AddToCorrect votes for key which caused the overall result to be correct.
// Improvement reports whether the vote disagrees with the current output.
func (t *Tally) AddToCorrect(key uint32, vote int8, improvement bool) {
	if vote == 0 {
		return
	}
	t.mut.Lock()
	t.correct[key] += int64(vote)
	if t.correct[key] == 0 {
		delete(t.correct, key)
	}
	if improvement {
		t.improvementPossible = true
	}
	t.mut.Unlock()
}

// Set turns the tally into a training set. Keys voted correct override keys
// voted improving; tied keys are left out.
func (t *Tally) Set() Set {
	t.mut.Lock()
	defer t.mut.Unlock()

	var sett Set
	sett.Init()
	for key, rating := range t.improve {
		if rating != 0 {
			sett[key] = rating > 0
		}
	}
	for key, rating := range t.correct {
		if rating != 0 {
			sett[key] = rating > 0
		}
	}
	return sett
}
