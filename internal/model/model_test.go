package model

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/mojo-runtime/mojo/internal/calibrate"
	"github.com/mojo-runtime/mojo/internal/descriptor"
	"github.com/mojo-runtime/mojo/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leafTrees(t *testing.T, values ...float32) []tree.Compressed {
	t.Helper()
	out := make([]tree.Compressed, len(values))
	for i, v := range values {
		c, err := tree.Encode(&tree.Node{Value: v}, binary.LittleEndian)
		require.NoError(t, err)
		out[i] = c
	}
	return out
}

func binomialDescriptor() *Descriptor {
	return &Descriptor{
		Algorithm:        "Distributed Random Forest",
		Version:          "1.00",
		Category:         Binomial,
		Supervised:       true,
		NFeatures:        2,
		NClasses:         2,
		DefaultThreshold: 0.5,
		Columns:          []string{"x", "color", "label"},
		Domains:          [][]string{nil, {"red", "green", "blue"}, {"no", "yes"}},
		ByteOrder:        binary.LittleEndian,
	}
}

func regressionDescriptor() *Descriptor {
	return &Descriptor{
		Algorithm:  "Gradient Boosting Machine",
		Version:    "1.00",
		Category:   Regression,
		Supervised: true,
		NFeatures:  1,
		NClasses:   1,
		Columns:    []string{"x", "y"},
		Domains:    [][]string{nil, nil},
		ByteOrder:  binary.LittleEndian,
	}
}

func TestBaggedBinomial(t *testing.T) {
	d := binomialDescriptor()
	m, err := NewBagged(d, Trees{NTrees: 3, NTreesPerClass: 1, Blobs: leafTrees(t, 0.2, 0.5, 0.9)}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, m.EffectiveClasses)

	preds, err := m.Predict([]float64{1, 0})
	require.NoError(t, err)
	require.Len(t, preds, 3)
	assert.InDelta(t, 0.5333333, preds[1], 1e-6)
	assert.InDelta(t, 0.4666667, preds[2], 1e-6)
	assert.Equal(t, 0.0, preds[0])

	// The positive class wins once the threshold drops to preds[2].
	d.DefaultThreshold = preds[2]
	preds, err = m.Predict([]float64{1, 0})
	require.NoError(t, err)
	assert.Equal(t, 1.0, preds[0])

	d.DefaultThreshold = 0.47
	preds, err = m.Predict([]float64{1, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, preds[0])
}

func TestBaggedRegression(t *testing.T) {
	d := regressionDescriptor()
	m, err := NewBagged(d, Trees{NTrees: 4, NTreesPerClass: 1, Blobs: leafTrees(t, 1, 2, 3, 6)}, false)
	require.NoError(t, err)

	preds, err := m.Predict([]float64{0})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 0}, preds)
}

func TestBaggedMultinomial(t *testing.T) {
	d := &Descriptor{
		Category:   Multinomial,
		Supervised: true,
		NClasses:   3,
		Columns:    []string{"x", "y"},
		Domains:    [][]string{nil, {"a", "b", "c"}},
		ByteOrder:  binary.LittleEndian,
	}
	// Two trees per class: class 0 votes 1, class 1 votes 2, class 2 votes 1.
	m, err := NewBagged(d, Trees{NTrees: 2, NTreesPerClass: 3, Blobs: leafTrees(t, 0.5, 0.5, 1, 1, 0.5, 0.5)}, false)
	require.NoError(t, err)
	assert.Equal(t, 3, m.EffectiveClasses)

	preds, err := m.Predict([]float64{0})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0.25, 0.5, 0.25}, preds, 1e-12)
}

func TestBaggedBalanceClasses(t *testing.T) {
	d := binomialDescriptor()
	d.BalanceClasses = true
	d.PriorClassDistrib = []float64{0.9, 0.1}
	d.ModelClassDistrib = []float64{0.5, 0.5}
	m, err := NewBagged(d, Trees{NTrees: 1, NTreesPerClass: 1, Blobs: leafTrees(t, 0.5)}, false)
	require.NoError(t, err)

	preds, err := m.Predict([]float64{0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.9, preds[1], 1e-12)
	assert.InDelta(t, 0.1, preds[2], 1e-12)
	assert.Equal(t, 0.0, preds[0])
}

func TestBoostedRegression(t *testing.T) {
	m, err := NewBoosted(regressionDescriptor(), Trees{NTrees: 1, NTreesPerClass: 1, Blobs: leafTrees(t, 0.5)}, calibrate.Gaussian, 1.0)
	require.NoError(t, err)

	preds, err := m.Predict([]float64{0})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 0}, preds)

	preds, err = m.PredictWithOffset([]float64{0}, 2)
	require.NoError(t, err)
	assert.Equal(t, 3.5, preds[0])
}

func TestBoostedPoisson(t *testing.T) {
	m, err := NewBoosted(regressionDescriptor(), Trees{NTrees: 1, NTreesPerClass: 1, Blobs: leafTrees(t, 0.5)}, calibrate.Poisson, 0.5)
	require.NoError(t, err)

	preds, err := m.Predict([]float64{0})
	require.NoError(t, err)
	assert.InDelta(t, math.E, preds[0], 1e-12)
}

func TestBoostedBernoulli(t *testing.T) {
	d := binomialDescriptor()
	d.Algorithm = "Gradient Boosting Machine"
	m, err := NewBoosted(d, Trees{NTrees: 2, NTreesPerClass: 1, Blobs: leafTrees(t, 0.25, 0.25)}, calibrate.Bernoulli, -0.5)
	require.NoError(t, err)

	preds, err := m.Predict([]float64{0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, preds[2], 1e-12)
	assert.InDelta(t, 0.5, preds[1], 1e-12)
	assert.Equal(t, 1.0, preds[0])
}

func TestBoostedMultinomial(t *testing.T) {
	d := &Descriptor{
		Category:   Multinomial,
		Supervised: true,
		NClasses:   3,
		Columns:    []string{"x", "y"},
		Domains:    [][]string{nil, {"a", "b", "c"}},
		ByteOrder:  binary.LittleEndian,
	}
	m, err := NewBoosted(d, Trees{NTrees: 1, NTreesPerClass: 3, Blobs: leafTrees(t, 0, float32(math.Log(2)), 0)}, calibrate.Multinomial, 0)
	require.NoError(t, err)

	preds, err := m.Predict([]float64{0})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0.25, 0.5, 0.25}, preds, 1e-6)
}

func TestBoostedMultinomialNaNLeaf(t *testing.T) {
	d := &Descriptor{
		Category:   Multinomial,
		Supervised: true,
		NClasses:   3,
		Columns:    []string{"x", "y"},
		Domains:    [][]string{nil, {"a", "b", "c"}},
		ByteOrder:  binary.LittleEndian,
	}
	nan := float32(math.NaN())
	m, err := NewBoosted(d, Trees{NTrees: 1, NTreesPerClass: 3, Blobs: leafTrees(t, 1, nan, 2)}, calibrate.Multinomial, 0)
	require.NoError(t, err)

	preds, err := m.Predict([]float64{0})
	assert.ErrorIs(t, err, tree.ErrCorrupt)
	assert.Nil(t, preds)
}

func TestBoostedMultinomialTwoClass(t *testing.T) {
	d := binomialDescriptor()
	m, err := NewBoosted(d, Trees{NTrees: 1, NTreesPerClass: 1, Blobs: leafTrees(t, 1)}, calibrate.Multinomial, 0)
	require.NoError(t, err)

	preds, err := m.Predict([]float64{0, 0})
	require.NoError(t, err)
	// Slots hold (1, -1) before the rescale.
	want := 1 / (1 + math.Exp(-2))
	assert.InDelta(t, want, preds[1], 1e-12)
	assert.InDelta(t, 1-want, preds[2], 1e-12)
}

func TestScoreInputErrors(t *testing.T) {
	m, err := NewBagged(binomialDescriptor(), Trees{NTrees: 1, NTreesPerClass: 1, Blobs: leafTrees(t, 0.5)}, false)
	require.NoError(t, err)

	assert.ErrorIs(t, m.Score([]float64{0, 0}, 0, make([]float64, 2)), ErrInput)
	assert.ErrorIs(t, m.Score([]float64{0}, 0, make([]float64, 3)), ErrInput)

	// Larger buffers are accepted and only the leading slots are written.
	preds := []float64{9, 9, 9, 9}
	require.NoError(t, m.Score([]float64{0, 0}, 0, preds))
	assert.Equal(t, 9.0, preds[3])
}

func TestCorruptTreeFailsCall(t *testing.T) {
	m, err := NewBagged(regressionDescriptor(), Trees{NTrees: 1, NTreesPerClass: 1, Blobs: []tree.Compressed{{4, 0, 0, 0}}}, false)
	require.NoError(t, err)

	_, err = m.Predict([]float64{0})
	assert.ErrorIs(t, err, tree.ErrCorrupt)
}

func TestEnsembleValidation(t *testing.T) {
	tests := []struct {
		name  string
		build func() error
	}{
		{"tree count", func() error {
			_, err := NewBagged(regressionDescriptor(), Trees{NTrees: 2, NTreesPerClass: 1, Blobs: leafTrees(t, 1)}, false)
			return err
		}},
		{"zero trees", func() error {
			_, err := NewBagged(regressionDescriptor(), Trees{NTrees: 0, NTreesPerClass: 1}, false)
			return err
		}},
		{"double trees need two groups", func() error {
			_, err := NewBagged(binomialDescriptor(), Trees{NTrees: 1, NTreesPerClass: 1, Blobs: leafTrees(t, 1)}, true)
			return err
		}},
		{"bernoulli regression", func() error {
			_, err := NewBoosted(regressionDescriptor(), Trees{NTrees: 1, NTreesPerClass: 1, Blobs: leafTrees(t, 1)}, calibrate.Bernoulli, 0)
			return err
		}},
		{"gaussian classifier", func() error {
			_, err := NewBoosted(binomialDescriptor(), Trees{NTrees: 1, NTreesPerClass: 1, Blobs: leafTrees(t, 1)}, calibrate.Gaussian, 0)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			require.Error(t, err)
			assert.True(t, isFormatOrCorrupt(err), "unexpected error kind: %v", err)
		})
	}
}

func isFormatOrCorrupt(err error) bool {
	var fe *descriptor.FormatError
	var ce *tree.CorruptError
	return errors.As(err, &fe) || errors.As(err, &ce)
}
