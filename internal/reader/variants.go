package reader

import (
	"github.com/mojo-runtime/mojo/internal/calibrate"
	"github.com/mojo-runtime/mojo/internal/descriptor"
	"github.com/mojo-runtime/mojo/internal/model"
)

// newBagged reads a random forest.
func newBagged(setup *descriptor.Setup, d *model.Descriptor) (Builder, error) {
	f := &fields{setup: setup}
	bdt := f.boolean(keyBinomialDoubleTrees)
	if f.err != nil {
		return nil, f.err
	}
	return func(t model.Trees) (*model.Ensemble, error) {
		return model.NewBagged(d, t, bdt)
	}, nil
}

// newBoosted reads a gradient boosting machine.
func newBoosted(setup *descriptor.Setup, d *model.Descriptor) (Builder, error) {
	f := &fields{setup: setup}
	var name string
	if f.require(keyDistribution) {
		name = f.str(keyDistribution)
	}
	var initF float64
	if f.require(keyInitF) {
		initF = f.float(keyInitF)
	}
	if f.err != nil {
		return nil, f.err
	}

	family, err := calibrate.ParseFamily(name)
	if err != nil {
		return nil, &descriptor.FormatError{
			Entry:   descriptor.EntryName,
			Reason:  err.Error(),
			Content: name,
		}
	}
	return func(t model.Trees) (*model.Ensemble, error) {
		return model.NewBoosted(d, t, family, initF)
	}, nil
}
