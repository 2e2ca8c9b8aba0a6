package datasets

import "math/rand"

// Genotype labels of a structural variant call
const (
	HomRef uint16 = iota
	Het
	HomAlt
)

// Example is one pileup image with its label. Pixels are row-major.
type Example struct {
	Image  []uint8 `json:"image"`
	Height int     `json:"height"`
	Width  int     `json:"width"`
	Label  uint16  `json:"label"`
}

// At returns the pixel at row y, column x
func (e Example) At(y, x int) uint8 {
	return e.Image[y*e.Width+x]
}

// MetaData describes a built dataset
type MetaData struct {
	NumClasses       int `json:"num_classes"`
	Height           int `json:"height"`
	Width            int `json:"width"`
	NumTrainExamples int `json:"num_train_examples"`
	NumEvalExamples  int `json:"num_eval_examples"`
	NumTestExamples  int `json:"num_test_examples"`
}

// Dataset is the handle returned by a dataset builder
type Dataset struct {
	Train []Example
	Valid []Example
	Test  []Example
	Meta  MetaData
}

// SplitNames lists the splits of a dataset in order
var SplitNames = []string{"train", "valid", "test"}

// Split returns the examples of the named split
func (d *Dataset) Split(name string) ([]Example, bool) {
	switch name {
	case "train":
		return d.Train, true
	case "valid":
		return d.Valid, true
	case "test":
		return d.Test, true
	}
	return nil, false
}

// UpdateMeta recomputes the example counts
func (d *Dataset) UpdateMeta() {
	d.Meta.NumTrainExamples = len(d.Train)
	d.Meta.NumEvalExamples = len(d.Valid)
	d.Meta.NumTestExamples = len(d.Test)
}

// ClassCounts counts the examples of each class
func ClassCounts(examples []Example, classes int) []int {
	counts := make([]int, classes)
	for _, e := range examples {
		if int(e.Label) < classes {
			counts[e.Label]++
		}
	}
	return counts
}

// BalanceClasses oversamples minority classes until every present class has
// as many examples as the largest one. The input is not modified.
func BalanceClasses(examples []Example, classes int, r *rand.Rand) []Example {
	byClass := make([][]Example, classes)
	for _, e := range examples {
		if int(e.Label) < classes {
			byClass[e.Label] = append(byClass[e.Label], e)
		}
	}
	var most int
	for _, c := range byClass {
		if len(c) > most {
			most = len(c)
		}
	}
	out := make([]Example, 0, most*classes)
	for _, c := range byClass {
		if len(c) == 0 {
			continue
		}
		out = append(out, c...)
		for i := len(c); i < most; i++ {
			out = append(out, c[r.Intn(len(c))])
		}
	}
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SplitValid moves fraction of the shuffled examples into a valid split
func SplitValid(examples []Example, fraction float64, r *rand.Rand) (train, valid []Example) {
	shuffled := append([]Example(nil), examples...)
	r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	n := int(float64(len(shuffled)) * fraction)
	return shuffled[n:], shuffled[:n]
}

// Subset returns at most n examples drawn without replacement
func Subset(examples []Example, n int, r *rand.Rand) []Example {
	if n <= 0 || n >= len(examples) {
		return examples
	}
	idx := r.Perm(len(examples))[:n]
	out := make([]Example, n)
	for i, j := range idx {
		out[i] = examples[j]
	}
	return out
}
