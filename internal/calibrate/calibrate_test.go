package calibrate

import (
	"math"
	"testing"

	"github.com/mojo-runtime/mojo/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumClasses(preds []float64) float64 {
	var s float64
	for _, v := range preds[1:] {
		s += v
	}
	return s
}

func TestLogRescale(t *testing.T) {
	inputs := [][]float64{
		{0, 1, 2, 3},
		{0, -50, 0, 50},
		{0, 700, 699, 698},
		{0, 1e-12, 1e-12},
		{0, -3.5},
	}
	for _, in := range inputs {
		got := append([]float64(nil), in...)
		require.NoError(t, LogRescale(got))
		assert.InDelta(t, 1.0, sumClasses(got), 1e-12, "input %v", in)
		assert.Equal(t, in[0], got[0])

		shifted := append([]float64(nil), in...)
		for i := 1; i < len(shifted); i++ {
			shifted[i] += 123.25
		}
		require.NoError(t, LogRescale(shifted))
		assert.InDeltaSlice(t, got, shifted, 1e-12, "shift invariance for %v", in)
	}
}

func TestLogRescaleKnownValues(t *testing.T) {
	preds := []float64{0, 0, math.Log(3)}
	require.NoError(t, LogRescale(preds))
	assert.InDelta(t, 0.25, preds[1], 1e-12)
	assert.InDelta(t, 0.75, preds[2], 1e-12)
}

func TestLogRescaleNonFinite(t *testing.T) {
	for _, preds := range [][]float64{
		{0, math.Inf(1), 1},
		{0, math.Inf(-1), math.Inf(-1)},
		{0, math.NaN()},
		{0, math.NaN(), 1, 2},
		{0, 1, 2, math.NaN()},
	} {
		err := LogRescale(preds)
		assert.ErrorIs(t, err, tree.ErrCorrupt, "preds %v", preds)
	}
}

func TestCorrectProbabilities(t *testing.T) {
	t.Run("equal distributions", func(t *testing.T) {
		dist := []float64{0.2, 0.3, 0.5}
		preds := []float64{0, 0.1, 0.6, 0.3}
		CorrectProbabilities(preds, dist, dist)
		assert.InDeltaSlice(t, []float64{0, 0.1, 0.6, 0.3}, preds, 1e-12)
	})

	t.Run("reweights and renormalizes", func(t *testing.T) {
		preds := []float64{0, 0.5, 0.5}
		CorrectProbabilities(preds, []float64{0.9, 0.1}, []float64{0.5, 0.5})
		assert.InDelta(t, 1.0, sumClasses(preds), 1e-12)
		assert.InDelta(t, 0.9, preds[1], 1e-12)
		assert.InDelta(t, 0.1, preds[2], 1e-12)
	})

	t.Run("zero fractions are skipped", func(t *testing.T) {
		preds := []float64{0, 0.25, 0.25, 0.5}
		CorrectProbabilities(preds, []float64{0, 0.5, 0.5}, []float64{0.4, 0, 0.6})
		assert.InDelta(t, 1.0, sumClasses(preds), 1e-12)
		assert.Greater(t, preds[1], 0.0)
	})

	t.Run("positive inputs sum to one", func(t *testing.T) {
		prior := []float64{0.7, 0.2, 0.1}
		model := []float64{0.34, 0.33, 0.33}
		for _, preds := range [][]float64{
			{0, 3, 1, 2},
			{0, 0.01, 0.02, 0.97},
			{0, 10, 10, 10},
		} {
			CorrectProbabilities(preds, prior, model)
			assert.InDelta(t, 1.0, sumClasses(preds), 1e-12)
		}
	})
}

func TestNormalize(t *testing.T) {
	preds := []float64{7, 1, 3}
	Normalize(preds)
	assert.Equal(t, []float64{7, 0.25, 0.75}, preds)

	zero := []float64{0, 0, 0}
	Normalize(zero)
	assert.Equal(t, []float64{0, 0, 0}, zero)
}

func TestFamily(t *testing.T) {
	f, err := ParseFamily("bernoulli")
	require.NoError(t, err)
	assert.Equal(t, Bernoulli, f)
	assert.True(t, f.Binomial())

	f, err = ParseFamily("auto")
	require.NoError(t, err)
	assert.Equal(t, AUTO, f)
	assert.Equal(t, "AUTO", f.String())

	_, err = ParseFamily("cauchy")
	assert.ErrorIs(t, err, ErrUnknownFamily)

	tests := []struct {
		family Family
		in     float64
		want   float64
	}{
		{Gaussian, 1.5, 1.5},
		{AUTO, -2, -2},
		{Huber, 3, 3},
		{Laplace, 3, 3},
		{Quantile, 3, 3},
		{Multinomial, 0.25, 0.25},
		{Bernoulli, 0, 0.5},
		{QuasiBinomial, 0, 0.5},
		{ModifiedHuber, math.Log(3), 0.75},
		{Poisson, 0, 1},
		{Gamma, math.Log(2), 2},
		{Tweedie, 1, math.E},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, tt.family.LinkInv(tt.in), 1e-12, "%s(%v)", tt.family, tt.in)
	}
}

func TestPredictionBinary(t *testing.T) {
	preds := []float64{0, 0.6, 0.4}
	c, err := Prediction(preds, nil, nil, 0.4)
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = Prediction(preds, nil, nil, 0.41)
	require.NoError(t, err)
	assert.Equal(t, 0, c)
}

func TestPredictionArgmax(t *testing.T) {
	tests := []struct {
		preds []float64
		want  int
	}{
		{[]float64{0, 0.1, 0.7, 0.2}, 1},
		{[]float64{0, 0.5, 0.1, 0.2, 0.2}, 0},
		{[]float64{0, 0.1, 0.2, 0.3, 0.4}, 3},
		// Earlier ties are discarded once a larger value appears.
		{[]float64{0, 0.2, 0.2, 0.6}, 2},
		{[]float64{0, 1}, 0},
	}
	for _, tt := range tests {
		got, err := Prediction(tt.preds, []float64{0.25, 0.25, 0.25, 0.25}, []float64{1, 2}, 0.5)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "preds %v", tt.preds)
	}
}

func TestPredictionTieDeterministic(t *testing.T) {
	preds := []float64{0, 0.4, 0.2, 0.4}
	prior := []float64{0.7, 0.1, 0.2}
	row := []float64{1.5, -3, 42}

	first, err := Prediction(preds, prior, row, 0.5)
	require.NoError(t, err)
	assert.Contains(t, []int{0, 2}, first)
	for k := 0; k < 20; k++ {
		got, err := Prediction(preds, prior, row, 0.5)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}

	first, err = Prediction(preds, nil, row, 0.5)
	require.NoError(t, err)
	assert.Contains(t, []int{0, 2}, first)
	got, err := Prediction(preds, nil, row, 0.5)
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestPredictionTieUniformPrior(t *testing.T) {
	const n = 3000
	preds := []float64{0, 1.0 / 3, 1.0 / 3, 1.0 / 3}
	prior := []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}

	counts := make([]int, 3)
	for i := 0; i < n; i++ {
		row := []float64{float64(i)*0.731 + 0.5, float64(i % 17)}
		c, err := Prediction(preds, prior, row, 0.5)
		require.NoError(t, err)
		counts[c]++
	}
	for c, got := range counts {
		assert.InDelta(t, n/3, got, 150, "class %d picked %d times", c, got)
	}
}

func TestPredictionTieWeightedPrior(t *testing.T) {
	const n = 2000
	preds := []float64{0, 0.4, 0.2, 0.4}
	prior := []float64{0.9, 0.05, 0.05}

	picked0 := 0
	for i := 0; i < n; i++ {
		c, err := Prediction(preds, prior, []float64{float64(i) * 1.37}, 0.5)
		require.NoError(t, err)
		require.NotEqual(t, 1, c)
		if c == 0 {
			picked0++
		}
	}
	// Class 0 holds 0.9/0.95 of the tied prior mass.
	assert.Greater(t, picked0, n*85/100)
}

func TestPredictionEmpty(t *testing.T) {
	_, err := Prediction([]float64{0}, nil, nil, 0.5)
	assert.ErrorIs(t, err, tree.ErrCorrupt)
}

func TestRowHash(t *testing.T) {
	assert.Equal(t, int64(0), RowHash(nil))
	// Values differing only in the low mantissa bits hash identically.
	a := 1.0
	b := math.Float64frombits(math.Float64bits(a) | 0x3F)
	assert.Equal(t, RowHash([]float64{a}), RowHash([]float64{b}))
	assert.NotEqual(t, RowHash([]float64{1}), RowHash([]float64{2}))
}
