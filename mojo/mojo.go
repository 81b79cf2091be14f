// Package mojo loads and scores tree-ensemble models stored as model
// containers.
//
// This package wraps the internal implementation and exports a small public
// API: open a container, load the model, score rows.
//
// Example usage:
//
//	m, err := mojo.Open(ctx, "path/to/model.zip")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	preds, err := m.Predict([]float64{5.1, 3.5, 1.4, 0.2})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("class:", int(preds[0]), "probabilities:", preds[1:])
package mojo

import (
	"context"
	"errors"
	"io"

	"github.com/mojo-runtime/mojo/internal/container"
	"github.com/mojo-runtime/mojo/internal/descriptor"
	"github.com/mojo-runtime/mojo/internal/metrics"
	"github.com/mojo-runtime/mojo/internal/model"
	"github.com/mojo-runtime/mojo/internal/reader"
	"github.com/mojo-runtime/mojo/internal/registry"
	"github.com/mojo-runtime/mojo/internal/tree"
)

// Model is a loaded tree-ensemble model. It is immutable and safe for
// concurrent scoring.
type Model = model.Ensemble

// Descriptor is the metadata of a loaded model.
type Descriptor = model.Descriptor

// Category is the prediction category of a model.
type Category = model.Category

// Variant tags the ensemble family.
type Variant = model.Variant

// Ensemble variants.
const (
	VariantBagged  = model.VariantBagged
	VariantBoosted = model.VariantBoosted
)

// Container retrieves named entries from a model container.
type Container = container.Container

// Registry keeps loaded models addressable by handle.
type Registry = registry.Store

// NewRegistry returns an empty model registry.
var NewRegistry = registry.New

// Option configures loading.
type Option = reader.Option

// Metrics records load and scoring metrics.
type Metrics = metrics.Manager

// Loading options.
var (
	WithConcurrency = reader.WithConcurrency
	WithLogger      = reader.WithLogger
	WithMetrics     = reader.WithMetrics
)

// Error kinds. Use errors.Is to classify a failure.
var (
	// ErrNotFound: a container entry is missing.
	ErrNotFound = container.ErrNotFound
	// ErrFormat: the descriptor or a domain file is malformed.
	ErrFormat = descriptor.ErrFormat
	// ErrUnsupported: the algorithm or format version has no reader.
	ErrUnsupported = reader.ErrUnsupported
	// ErrCorrupt: a tree violated a traversal invariant while scoring.
	ErrCorrupt = tree.ErrCorrupt
	// ErrInput: a row or prediction buffer does not fit the model.
	ErrInput = model.ErrInput
)

// Load reads a model from any container.
func Load(ctx context.Context, c Container, opts ...Option) (*Model, error) {
	return reader.Load(ctx, c, opts...)
}

// Open loads a model from a zip archive or an unpacked directory.
func Open(ctx context.Context, path string, opts ...Option) (m *Model, err error) {
	c, err := container.Detect(path)
	if err != nil {
		return nil, err
	}
	if closer, ok := c.(io.Closer); ok {
		defer func() {
			err = errors.Join(err, closer.Close())
			if err != nil {
				m = nil
			}
		}()
	}
	return reader.Load(ctx, c, opts...)
}

// OpenRedis loads a model whose entries are stored in Redis under
// "<prefix>:<entry>".
func OpenRedis(ctx context.Context, addr string, db int, prefix string, opts ...Option) (m *Model, err error) {
	r, err := container.DialRedis(ctx, addr, db, prefix)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, r.Close())
		if err != nil {
			m = nil
		}
	}()
	return reader.Load(ctx, r, opts...)
}

// MetricsOption configures a Metrics manager.
type MetricsOption = metrics.Option

// Metrics options.
var (
	WithMetricsNamespace = metrics.WithNamespace
	WithMetricsRegistry  = metrics.WithRegistry
	WithMetricsEnabled   = metrics.WithEnabled
)

// NewMetrics creates a metrics manager.
func NewMetrics(opts ...MetricsOption) *Metrics {
	return metrics.NewManager(opts...)
}

// ErrorKind classifies an error returned by this package: "container",
// "format", "unsupported", "corrupt", "input", "canceled" or "other".
func ErrorKind(err error) string {
	if errors.Is(err, model.ErrInput) {
		return "input"
	}
	return reader.ErrorKind(err)
}

// Algorithms lists the supported algorithm names.
func Algorithms() []string {
	return reader.Algorithms()
}
