package calibrate

import (
	"math"

	"github.com/mojo-runtime/mojo/internal/tree"
)

// LogRescale converts the raw class scores in preds[1:] into probabilities
// with a numerically stable softmax. preds[0] is left alone.
func LogRescale(preds []float64) error {
	if len(preds) < 2 {
		return nil
	}
	maxval := math.Inf(-1)
	for _, v := range preds[1:] {
		maxval = math.Max(maxval, v) // NaN propagates.
	}
	if math.IsInf(maxval, 0) || math.IsNaN(maxval) {
		return tree.Corrupt("non-finite class score maximum %v", maxval)
	}

	var sum float64
	for i := 1; i < len(preds); i++ {
		preds[i] = math.Exp(preds[i] - maxval)
		sum += preds[i]
	}
	for i := 1; i < len(preds); i++ {
		preds[i] /= sum
	}
	return nil
}

// CorrectProbabilities undoes training-time class resampling. Slot c is
// scaled by prior[c-1]/model[c-1] when both are nonzero, then the class slots
// are renormalized when their sum is positive.
func CorrectProbabilities(scored, prior, model []float64) {
	var sum float64
	for c := 1; c < len(scored); c++ {
		if c-1 < len(prior) && c-1 < len(model) {
			orig, over := prior[c-1], model[c-1]
			if orig != 0 && over != 0 {
				scored[c] *= orig / over
			}
		}
		sum += scored[c]
	}
	if sum > 0 {
		for c := 1; c < len(scored); c++ {
			scored[c] /= sum
		}
	}
}

// Normalize divides the class slots by their sum when it is positive.
func Normalize(preds []float64) {
	var sum float64
	for _, v := range preds[1:] {
		sum += v
	}
	if sum > 0 {
		for i := 1; i < len(preds); i++ {
			preds[i] /= sum
		}
	}
}
