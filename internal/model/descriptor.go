// Package model holds loaded tree-ensemble models: the column and class
// metadata shared by every model and the ensemble variants that score rows.
package model

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/mojo-runtime/mojo/internal/descriptor"
)

// Byte order names accepted by the endianness key.
const (
	BigEndian    = "BIG_ENDIAN"
	LittleEndian = "LITTLE_ENDIAN"
)

// Descriptor is the metadata of a loaded model.
type Descriptor struct {
	Algorithm string `yaml:"algorithm"`
	Version   string `yaml:"version"`
	UUID      string `yaml:"uuid,omitempty"`

	Category   Category `yaml:"category"`
	Supervised bool     `yaml:"supervised"`
	NFeatures  int      `yaml:"n_features"`
	NClasses   int      `yaml:"n_classes"`

	BalanceClasses    bool      `yaml:"balance_classes"`
	DefaultThreshold  float64   `yaml:"default_threshold"`
	PriorClassDistrib []float64 `yaml:"prior_class_distrib,omitempty"`
	ModelClassDistrib []float64 `yaml:"model_class_distrib,omitempty"`
	OffsetColumn      string    `yaml:"offset_column,omitempty"`

	Columns []string   `yaml:"columns"`
	Domains [][]string `yaml:"domains"`

	ByteOrder binary.ByteOrder `yaml:"-"`
}

// ParseByteOrder resolves an endianness value. An empty name selects the
// host byte order.
func ParseByteOrder(name string) (binary.ByteOrder, error) {
	switch name {
	case "":
		return NativeOrder(), nil
	case BigEndian:
		return binary.BigEndian, nil
	case LittleEndian:
		return binary.LittleEndian, nil
	}
	return nil, invalid("unexpected endianness field", name)
}

// NativeOrder returns the host byte order as one of the concrete orders.
func NativeOrder() binary.ByteOrder {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Endianness returns the endianness key value for the descriptor byte order.
func (d *Descriptor) Endianness() string {
	if d.ByteOrder == binary.BigEndian {
		return BigEndian
	}
	return LittleEndian
}

// Validate checks the invariants between columns, domains, category and
// class count.
func (d *Descriptor) Validate() error {
	if len(d.Columns) != len(d.Domains) {
		return invalid(fmt.Sprintf("%d columns but %d domains", len(d.Columns), len(d.Domains)), "")
	}
	if d.ByteOrder == nil {
		return invalid("byte order not set", "")
	}
	if d.NClasses < 1 {
		return invalid("n_classes must be positive", fmt.Sprint(d.NClasses))
	}

	switch d.Category {
	case Binomial:
		if d.NClasses != 2 {
			return invalid("binomial model needs 2 classes", fmt.Sprint(d.NClasses))
		}
	case Multinomial:
		if d.NClasses < 2 {
			return invalid("multinomial model needs at least 2 classes", fmt.Sprint(d.NClasses))
		}
	case Regression:
		if d.NClasses != 1 {
			return invalid("regression model needs 1 class", fmt.Sprint(d.NClasses))
		}
	}

	if d.Supervised && len(d.Columns) == 0 {
		return invalid("supervised model without a response column", "")
	}
	if d.IsClassifier() {
		if dom := d.Domains[d.ResponseIndex()]; dom != nil && len(dom) != d.NClasses {
			return invalid(fmt.Sprintf("response domain has %d labels for %d classes", len(dom), d.NClasses), d.ResponseName())
		}
	}
	if d.NFeatures > len(d.Columns) {
		return invalid(fmt.Sprintf("%d features but %d columns", d.NFeatures, len(d.Columns)), "")
	}

	for _, dist := range []struct {
		key  string
		vals []float64
	}{
		{"prior_class_distrib", d.PriorClassDistrib},
		{"model_class_distrib", d.ModelClassDistrib},
	} {
		if dist.vals != nil && len(dist.vals) != d.NClasses {
			return invalid(fmt.Sprintf("%s has %d entries for %d classes", dist.key, len(dist.vals), d.NClasses), "")
		}
		if d.BalanceClasses && dist.vals == nil {
			return invalid("balance_classes set without "+dist.key, "")
		}
	}
	return nil
}

// IsClassifier reports whether the model predicts one of several classes.
func (d *Descriptor) IsClassifier() bool {
	return d.Supervised && d.NClasses > 1
}

// IsAutoEncoder reports whether the model is an auto-encoder.
func (d *Descriptor) IsAutoEncoder() bool {
	return d.Category == AutoEncoder
}

// PredsSize is the length of a prediction vector: the predicted class plus
// one probability per class for classifiers, two slots otherwise.
func (d *Descriptor) PredsSize() int {
	if d.IsClassifier() {
		return 1 + d.NClasses
	}
	return 2
}

// ResponseIndex returns the index of the response column, or -1 for
// unsupervised models.
func (d *Descriptor) ResponseIndex() int {
	if !d.Supervised {
		return -1
	}
	return len(d.Columns) - 1
}

// ResponseName returns the response column name, or "" for unsupervised
// models.
func (d *Descriptor) ResponseName() string {
	if i := d.ResponseIndex(); i >= 0 {
		return d.Columns[i]
	}
	return ""
}

// ColumnIndex returns the index of the named column, or -1.
func (d *Descriptor) ColumnIndex(name string) int {
	return slices.Index(d.Columns, name)
}

// Domain returns the labels of a categorical column, nil for numeric or
// out-of-range columns.
func (d *Descriptor) Domain(col int) []string {
	if col < 0 || col >= len(d.Domains) {
		return nil
	}
	return d.Domains[col]
}

// NumClasses returns the label count of a categorical column, 0 otherwise.
func (d *Descriptor) NumClasses(col int) int {
	return len(d.Domain(col))
}

// MapEnum returns the level of label in a categorical column, or -1.
func (d *Descriptor) MapEnum(col int, label string) int {
	return slices.Index(d.Domain(col), label)
}

func invalid(reason, content string) error {
	return &descriptor.FormatError{Entry: descriptor.EntryName, Reason: reason, Content: content}
}
