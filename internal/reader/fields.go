package reader

import (
	"fmt"

	"github.com/mojo-runtime/mojo/internal/descriptor"
	"github.com/mojo-runtime/mojo/internal/model"
)

// Descriptor keys read by the loader.
const (
	keyCategory            = "category"
	keySupervised          = "supervised"
	keyNFeatures           = "n_features"
	keyNClasses            = "n_classes"
	keyBalanceClasses      = "balance_classes"
	keyDefaultThreshold    = "default_threshold"
	keyPriorClassDistrib   = "prior_class_distrib"
	keyModelClassDistrib   = "model_class_distrib"
	keyOffsetColumn        = "offset_column"
	keyEndianness          = "endianness"
	keyNTrees              = "n_trees"
	keyNTreesPerClass      = "n_trees_per_class"
	keyBinomialDoubleTrees = "binomial_double_trees"
	keyDistribution        = "distribution"
	keyInitF               = "init_f"
)

// fields reads typed [info] values and keeps the first error, so a
// constructor can read every field and check once.
type fields struct {
	setup *descriptor.Setup
	err   error
}

func (f *fields) present(key string) bool {
	v, ok := f.setup.Info[key]
	return ok && v != nil
}

func (f *fields) fail(key, reason string) {
	if f.err == nil {
		f.err = &descriptor.FormatError{
			Entry:   descriptor.EntryName,
			Reason:  fmt.Sprintf("%s: %s", key, reason),
			Content: f.setup.Raw[key],
		}
	}
}

func (f *fields) require(key string) bool {
	if !f.present(key) {
		if f.err == nil {
			f.err = missing(key)
		}
		return false
	}
	return true
}

func (f *fields) boolean(key string) bool {
	if !f.present(key) {
		return false
	}
	v, ok := f.setup.Bool(key)
	if !ok {
		f.fail(key, "not a boolean")
	}
	return v
}

func (f *fields) integer(key string) int {
	if !f.present(key) {
		return 0
	}
	v, ok := f.setup.Int(key)
	if !ok {
		f.fail(key, "not an integer")
	}
	return v
}

func (f *fields) float(key string) float64 {
	if !f.present(key) {
		return 0
	}
	v, ok := f.setup.Float(key)
	if !ok {
		f.fail(key, "not a number")
	}
	return v
}

func (f *fields) floats(key string) []float64 {
	if !f.present(key) {
		return nil
	}
	v, ok := f.setup.Floats(key)
	if !ok {
		f.fail(key, "not a numeric array")
	}
	return v
}

// str returns a string value. Numeric or boolean values keep their raw text.
func (f *fields) str(key string) string {
	if !f.present(key) {
		return ""
	}
	if v, ok := f.setup.String(key); ok {
		return v
	}
	return f.setup.Raw[key]
}

// buildDescriptor assembles the shared model metadata.
func buildDescriptor(setup *descriptor.Setup, domains [][]string) (*model.Descriptor, error) {
	f := &fields{setup: setup}
	d := &model.Descriptor{
		Algorithm: setup.Algorithm,
		Version:   setup.Version,
		UUID:      setup.Raw[descriptor.KeyUUID],
		Columns:   setup.Columns,
		Domains:   domains,
	}

	if f.present(keyCategory) {
		name := f.str(keyCategory)
		c, ok := model.ParseCategory(name)
		if !ok {
			f.fail(keyCategory, "unknown model category")
		}
		d.Category = c
	}
	d.Supervised = f.boolean(keySupervised)
	d.NFeatures = f.integer(keyNFeatures)
	if f.require(keyNClasses) {
		d.NClasses = f.integer(keyNClasses)
	}
	d.BalanceClasses = f.boolean(keyBalanceClasses)
	if d.NClasses == 2 {
		// Two-class predictions compare against it.
		f.require(keyDefaultThreshold)
	}
	d.DefaultThreshold = f.float(keyDefaultThreshold)
	d.PriorClassDistrib = f.floats(keyPriorClassDistrib)
	d.ModelClassDistrib = f.floats(keyModelClassDistrib)
	d.OffsetColumn = f.str(keyOffsetColumn)
	if f.err != nil {
		return nil, f.err
	}

	order, err := model.ParseByteOrder(f.str(keyEndianness))
	if err != nil {
		return nil, err
	}
	d.ByteOrder = order

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// treeLayout reads the tree counts. Older containers omit n_trees_per_class;
// it is then one for two-class models unless binomial_double_trees is false,
// and n_classes otherwise.
func treeLayout(setup *descriptor.Setup, d *model.Descriptor) (model.Trees, error) {
	f := &fields{setup: setup}
	var t model.Trees
	if f.require(keyNTrees) {
		t.NTrees = f.integer(keyNTrees)
	}
	if f.present(keyNTreesPerClass) {
		t.NTreesPerClass = f.integer(keyNTreesPerClass)
	} else {
		bdt := !f.present(keyBinomialDoubleTrees) || f.boolean(keyBinomialDoubleTrees)
		t.NTreesPerClass = d.NClasses
		if d.NClasses == 2 && bdt {
			t.NTreesPerClass = 1
		}
	}
	if f.err != nil {
		return t, f.err
	}
	if t.NTrees < 1 || t.NTreesPerClass < 1 {
		return t, &descriptor.FormatError{
			Entry:   descriptor.EntryName,
			Reason:  "tree counts must be positive",
			Content: fmt.Sprintf("%d x %d", t.NTrees, t.NTreesPerClass),
		}
	}
	return t, nil
}
