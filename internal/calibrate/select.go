package calibrate

import (
	"math"
	"math/rand"

	"github.com/mojo-runtime/mojo/internal/tree"
)

// Prediction returns the zero-based predicted class for the probabilities in
// preds[1:].
//
// Two-class models compare preds[2] against threshold. Otherwise the argmax
// wins; ties are broken by a draw seeded from the input row, weighted by the
// prior class distribution when one is given.
func Prediction(preds, prior, row []float64, threshold float64) (int, error) {
	if len(preds) == 3 {
		if preds[2] >= threshold {
			return 1, nil
		}
		return 0, nil
	}
	if len(preds) < 2 {
		return 0, tree.Corrupt("no class slots in %d predictions", len(preds))
	}

	var buf [8]int
	ties := buf[:0]
	best := 1
	ties = append(ties, 0)
	for c := 2; c < len(preds); c++ {
		switch {
		case preds[c] > preds[best]:
			best = c
			ties = append(ties[:0], c-1)
		case preds[c] == preds[best]:
			ties = append(ties, c-1)
		}
	}
	if len(ties) == 1 {
		return best - 1, nil
	}

	hash := RowHash(row)

	if prior != nil && len(prior) == len(preds)-1 {
		var sum float64
		for _, i := range ties {
			sum += prior[i]
		}
		//nolint:gosec // Input-derived seed keeps tie-breaking deterministic per row
		draw := rand.New(rand.NewSource(hash)).Float64()
		var partial float64
		for _, i := range ties {
			partial += prior[i] / sum
			if draw <= partial {
				return i, nil
			}
		}
	}

	res := preds[best]
	idx := uint64(hash) % uint64(len(ties))
	for c := 1; c < len(preds); c++ {
		if preds[c] != res {
			continue
		}
		if idx == 0 {
			return c - 1, nil
		}
		idx--
	}
	return 0, tree.Corrupt("tie-break exhausted %d tied classes", len(ties))
}

// RowHash folds the bit patterns of a row into a seed, dropping the six
// lowest mantissa bits of each value.
func RowHash(row []float64) int64 {
	var hash int64
	for _, d := range row {
		hash ^= int64(math.Float64bits(d)) >> 6
	}
	return hash
}
