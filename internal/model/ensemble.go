package model

import (
	"errors"
	"fmt"

	"github.com/mojo-runtime/mojo/internal/calibrate"
	"github.com/mojo-runtime/mojo/internal/tree"
)

// ErrInput is returned when a row or prediction buffer does not fit the model.
var ErrInput = errors.New("invalid scoring input")

// Variant tags the tree-ensemble family of a model.
type Variant int

// Ensemble variants.
const (
	// VariantBagged averages per-class tree votes (random forest).
	VariantBagged Variant = iota
	// VariantBoosted applies a link function to the summed trees plus a bias.
	VariantBoosted
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case VariantBagged:
		return "bagged"
	case VariantBoosted:
		return "boosted"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// Trees is the raw tree payload of an ensemble: NTrees trees for each of
// NTreesPerClass classes, indexed class*NTrees + tree.
type Trees struct {
	NTrees         int
	NTreesPerClass int
	Blobs          []tree.Compressed
}

// calibrator turns raw tree sums into final predictions for one variant.
type calibrator func(e *Ensemble, row []float64, offset float64, preds []float64) error

var calibrators = [...]calibrator{
	VariantBagged:  (*Ensemble).calibrateBagged,
	VariantBoosted: (*Ensemble).calibrateBoosted,
}

// Ensemble is a loaded tree-ensemble model. It is immutable after
// construction and safe for concurrent scoring.
type Ensemble struct {
	*Descriptor

	NTrees         int
	NTreesPerClass int
	Trees          []tree.Compressed

	Variant Variant

	// Bagged fields.
	EffectiveClasses    int
	BinomialDoubleTrees bool

	// Boosted fields.
	Family calibrate.Family
	InitF  float64

	forest tree.Forest
}

// NewBagged builds a bagged (random forest) ensemble.
func NewBagged(d *Descriptor, t Trees, binomialDoubleTrees bool) (*Ensemble, error) {
	e := &Ensemble{
		Variant:             VariantBagged,
		BinomialDoubleTrees: binomialDoubleTrees,
		EffectiveClasses:    d.NClasses,
	}
	if d.NClasses == 2 && !binomialDoubleTrees {
		e.EffectiveClasses = 1
	}
	if err := e.init(d, t); err != nil {
		return nil, err
	}
	return e, nil
}

// NewBoosted builds a boosted ensemble with the given link family and
// initial bias.
func NewBoosted(d *Descriptor, t Trees, family calibrate.Family, initF float64) (*Ensemble, error) {
	e := &Ensemble{
		Variant: VariantBoosted,
		Family:  family,
		InitF:   initF,
	}
	if err := e.init(d, t); err != nil {
		return nil, err
	}

	switch {
	case family.Binomial() && d.NClasses != 2:
		return nil, invalid(fmt.Sprintf("%s distribution needs 2 classes", family), fmt.Sprint(d.NClasses))
	case family == calibrate.Multinomial && d.NClasses < 2:
		return nil, invalid("multinomial distribution needs at least 2 classes", fmt.Sprint(d.NClasses))
	case !family.Binomial() && family != calibrate.Multinomial && d.NClasses != 1:
		return nil, invalid(fmt.Sprintf("%s distribution needs 1 class", family), fmt.Sprint(d.NClasses))
	}
	return e, nil
}

func (e *Ensemble) init(d *Descriptor, t Trees) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if t.NTrees < 1 {
		return invalid("n_trees must be positive", fmt.Sprint(t.NTrees))
	}
	e.Descriptor = d
	e.NTrees = t.NTrees
	e.NTreesPerClass = t.NTreesPerClass
	e.Trees = t.Blobs
	e.forest = tree.Forest{
		Trees:    t.Blobs,
		NTrees:   t.NTrees,
		NClasses: d.NClasses,
		Order:    d.ByteOrder,
	}
	if err := e.forest.Validate(t.NTreesPerClass); err != nil {
		return err
	}
	if d.NClasses > 1 && !d.IsClassifier() {
		return invalid("unsupervised model with several classes", fmt.Sprint(d.NClasses))
	}
	if n := e.classesToScore(); n > t.NTreesPerClass {
		return invalid(fmt.Sprintf("scoring %d classes needs more trees per class", n), fmt.Sprint(t.NTreesPerClass))
	}
	return nil
}

// classesToScore is the number of tree groups summed before calibration.
func (e *Ensemble) classesToScore() int {
	if e.Variant == VariantBagged {
		return e.EffectiveClasses
	}
	return e.NTreesPerClass
}

// Predict scores a row and returns a fresh prediction vector of PredsSize
// slots. For classifiers preds[0] is the predicted class and preds[1:] the
// class probabilities; for regression preds[0] is the prediction.
func (e *Ensemble) Predict(row []float64) ([]float64, error) {
	return e.PredictWithOffset(row, 0)
}

// PredictWithOffset is Predict with a per-row offset added to the boosted
// sum. Bagged ensembles ignore the offset.
func (e *Ensemble) PredictWithOffset(row []float64, offset float64) ([]float64, error) {
	preds := make([]float64, e.PredsSize())
	if err := e.Score(row, offset, preds); err != nil {
		return nil, err
	}
	return preds, nil
}

// Score writes the prediction for row into preds, which must hold at least
// PredsSize slots. Only the first PredsSize slots are written.
func (e *Ensemble) Score(row []float64, offset float64, preds []float64) error {
	n := e.PredsSize()
	if len(preds) < n {
		return fmt.Errorf("%w: preds has %d slots, need %d", ErrInput, len(preds), n)
	}
	if len(row) < e.NFeatures {
		return fmt.Errorf("%w: row has %d values, need %d features", ErrInput, len(row), e.NFeatures)
	}
	preds = preds[:n]

	if err := e.forest.ScoreAll(row, preds, e.classesToScore()); err != nil {
		return err
	}
	return calibrators[e.Variant](e, row, offset, preds)
}

func (e *Ensemble) calibrateBagged(row []float64, _ float64, preds []float64) error {
	if e.NClasses == 1 {
		preds[0] /= float64(e.NTrees)
		return nil
	}
	if e.NClasses == 2 && !e.BinomialDoubleTrees {
		preds[1] /= float64(e.NTrees)
		preds[2] = 1 - preds[1]
	} else {
		calibrate.Normalize(preds)
	}
	return e.selectClass(row, preds)
}

func (e *Ensemble) calibrateBoosted(row []float64, offset float64, preds []float64) error {
	switch {
	case e.Family.Binomial():
		f := preds[1] + e.InitF + offset
		preds[2] = e.Family.LinkInv(f)
		preds[1] = 1 - preds[2]
	case e.Family == calibrate.Multinomial:
		if e.NClasses == 2 {
			preds[1] += e.InitF + offset
			preds[2] = -preds[1]
		}
		if err := calibrate.LogRescale(preds); err != nil {
			return err
		}
	default:
		preds[0] = e.Family.LinkInv(preds[0] + e.InitF + offset)
		return nil
	}
	return e.selectClass(row, preds)
}

func (e *Ensemble) selectClass(row, preds []float64) error {
	if e.BalanceClasses {
		calibrate.CorrectProbabilities(preds, e.PriorClassDistrib, e.ModelClassDistrib)
	}
	c, err := calibrate.Prediction(preds, e.PriorClassDistrib, row, e.DefaultThreshold)
	if err != nil {
		return err
	}
	preds[0] = float64(c)
	return nil
}
