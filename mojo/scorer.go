package mojo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mojo-runtime/mojo/internal/parallel"
)

// Scorer scores rows with a model and records prediction metrics.
type Scorer struct {
	model   *Model
	metrics *Metrics
}

// NewScorer wraps m. A nil Metrics records nothing.
func NewScorer(m *Model, mm *Metrics) *Scorer {
	return &Scorer{model: m, metrics: mm}
}

// Model returns the wrapped model.
func (s *Scorer) Model() *Model {
	return s.model
}

// Predict scores a row.
func (s *Scorer) Predict(row []float64) ([]float64, error) {
	return s.PredictWithOffset(row, 0)
}

// PredictWithOffset scores a row with an offset.
func (s *Scorer) PredictWithOffset(row []float64, offset float64) ([]float64, error) {
	preds, err := s.model.PredictWithOffset(row, offset)
	if err != nil {
		s.metrics.RecordPredictionError()
		return nil, err
	}
	s.metrics.RecordPrediction(s.model.Algorithm)
	return preds, nil
}

// PredictBatch scores rows across goroutines. Results keep the row order;
// the error of the first failing row is returned, annotated with its index.
func (s *Scorer) PredictBatch(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	err := parallel.For(len(rows), func(i int) error {
		preds, err := s.Predict(rows[i])
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = preds
		return nil
	}, parallel.DefaultConfig())
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseRow converts text cells into a feature row. Cells map to the leading
// columns in order. Empty cells and "NA" are missing values; categorical
// cells are looked up in the column domain, and unseen labels are missing.
func ParseRow(d *Descriptor, cells []string) ([]float64, error) {
	n := max(d.NFeatures, len(cells))
	if n > len(d.Columns) {
		return nil, fmt.Errorf("%w: %d values for %d columns", ErrInput, len(cells), len(d.Columns))
	}
	row := make([]float64, n)
	for i := range row {
		if i >= len(cells) {
			row[i] = math.NaN()
			continue
		}
		cell := strings.TrimSpace(cells[i])
		if cell == "" || cell == "NA" {
			row[i] = math.NaN()
			continue
		}
		if d.Domain(i) != nil {
			level := d.MapEnum(i, cell)
			if level < 0 {
				row[i] = math.NaN()
			} else {
				row[i] = float64(level)
			}
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q: %q is not a number", ErrInput, d.Columns[i], cell)
		}
		row[i] = v
	}
	return row, nil
}

// Label returns the response label for a predicted class, or the class
// number when the response has no domain.
func Label(d *Descriptor, class int) string {
	if dom := d.Domain(d.ResponseIndex()); class >= 0 && class < len(dom) {
		return dom[class]
	}
	return strconv.Itoa(class)
}
