package tree

import (
	"encoding/binary"
	"fmt"
)

// Compressed is an encoded decision tree.
type Compressed []byte

// Forest is a flattened collection of compressed trees indexed by
// class*NTrees + tree.
type Forest struct {
	Trees    []Compressed
	NTrees   int
	NClasses int
	Order    binary.ByteOrder
}

// Validate checks that the forest holds nTreesPerClass groups of NTrees trees.
func (f *Forest) Validate(nTreesPerClass int) error {
	if f.NTrees < 0 || nTreesPerClass < 0 {
		return Corrupt("negative tree count")
	}
	if len(f.Trees) != f.NTrees*nTreesPerClass {
		return Corrupt("forest holds %d trees, want %d x %d", len(f.Trees), f.NTrees, nTreesPerClass)
	}
	if f.Order == nil {
		return Corrupt("forest byte order not set")
	}
	return nil
}

// ScoreAll zeroes preds and accumulates the tree sums of the first
// nClassesToScore classes. Single-class (regression) sums land in preds[0];
// otherwise class i lands in preds[i+1].
func (f *Forest) ScoreAll(row, preds []float64, nClassesToScore int) error {
	clear(preds)

	if nClassesToScore*f.NTrees > len(f.Trees) {
		return Corrupt("scoring %d classes needs %d trees, forest has %d",
			nClassesToScore, nClassesToScore*f.NTrees, len(f.Trees))
	}
	if f.NClasses != 1 && nClassesToScore >= len(preds) {
		return Corrupt("preds has %d slots for %d classes", len(preds), nClassesToScore)
	}
	if len(preds) == 0 {
		return Corrupt("empty preds")
	}

	w := walker{order: f.Order, nclasses: f.NClasses}
	for i := 0; i < nClassesToScore; i++ {
		k := 0
		if f.NClasses != 1 {
			k = i + 1
		}
		for j := 0; j < f.NTrees; j++ {
			v, err := w.score(f.Trees[i*f.NTrees+j], row)
			if err != nil {
				return fmt.Errorf("tree %d of class %d: %w", j, i, err)
			}
			preds[k] += v
		}
	}
	return nil
}
