// Package metrics computes classification metrics from a confusion matrix.
package metrics

import "fmt"

import "gonum.org/v1/gonum/floats"
import "gonum.org/v1/gonum/mat"
import "gonum.org/v1/gonum/stat"

// Confusion counts predictions per true class (rows) and predicted class
// (columns). The extra last column counts predictions outside of the class
// range.
type Confusion struct {
	classes int
	counts  *mat.Dense
}

// NewConfusion creates an empty confusion matrix of classes classes.
func NewConfusion(classes int) *Confusion {
	return &Confusion{
		classes: classes,
		counts:  mat.NewDense(classes, classes+1, nil),
	}
}

// Add counts one prediction.
func (c *Confusion) Add(want, got int) {
	if want < 0 || want >= c.classes {
		return
	}
	if got < 0 || got >= c.classes {
		got = c.classes
	}
	c.counts.Set(want, got, c.counts.At(want, got)+1)
}

// Merge adds the counts of o, which must have as many classes.
func (c *Confusion) Merge(o *Confusion) {
	c.counts.Add(c.counts, o.counts)
}

// Total is the number of counted predictions.
func (c *Confusion) Total() float64 {
	return mat.Sum(c.counts)
}

// Count is the number of examples of class want predicted as got.
func (c *Confusion) Count(want, got int) float64 {
	return c.counts.At(want, got)
}

// Accuracy is the fraction of correct predictions, 0 without predictions.
func (c *Confusion) Accuracy() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	var correct float64
	for i := 0; i < c.classes; i++ {
		correct += c.counts.At(i, i)
	}
	return correct / total
}

// Precision of class i, 0 if the class was never predicted.
func (c *Confusion) Precision(i int) float64 {
	predicted := floats.Sum(mat.Col(nil, i, c.counts))
	if predicted == 0 {
		return 0
	}
	return c.counts.At(i, i) / predicted
}

// Recall of class i, 0 if the class never occurred.
func (c *Confusion) Recall(i int) float64 {
	occurred := floats.Sum(c.counts.RawRowView(i))
	if occurred == 0 {
		return 0
	}
	return c.counts.At(i, i) / occurred
}

// F1 is the harmonic mean of precision and recall of class i.
func (c *Confusion) F1(i int) float64 {
	p, r := c.Precision(i), c.Recall(i)
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// MacroF1 is the unweighted mean F1 over the classes that occurred.
func (c *Confusion) MacroF1() float64 {
	var f1s []float64
	for i := 0; i < c.classes; i++ {
		if floats.Sum(c.counts.RawRowView(i)) > 0 {
			f1s = append(f1s, c.F1(i))
		}
	}
	if len(f1s) == 0 {
		return 0
	}
	return stat.Mean(f1s, nil)
}

// Scalars returns the metrics keyed by prefix/name, as written to metric writers.
func (c *Confusion) Scalars(prefix string) map[string]float64 {
	out := map[string]float64{
		prefix + "/accuracy": c.Accuracy(),
		prefix + "/macro_f1": c.MacroF1(),
		prefix + "/examples": c.Total(),
	}
	for i := 0; i < c.classes; i++ {
		out[fmt.Sprintf("%s/precision_%d", prefix, i)] = c.Precision(i)
		out[fmt.Sprintf("%s/recall_%d", prefix, i)] = c.Recall(i)
	}
	return out
}

// String prints the matrix, one row per true class.
func (c *Confusion) String() string {
	return fmt.Sprintf("%v", mat.Formatted(c.counts, mat.Squeeze()))
}
