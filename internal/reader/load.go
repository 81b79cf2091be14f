package reader

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mojo-runtime/mojo/internal/container"
	"github.com/mojo-runtime/mojo/internal/descriptor"
	"github.com/mojo-runtime/mojo/internal/logger"
	"github.com/mojo-runtime/mojo/internal/metrics"
	"github.com/mojo-runtime/mojo/internal/model"
	"github.com/mojo-runtime/mojo/internal/tree"
)

// DefaultConcurrency bounds parallel tree blob reads.
const DefaultConcurrency = 8

// TreeEntry returns the container entry of a tree within a class group.
func TreeEntry(class, idx int) string {
	return fmt.Sprintf("trees/t%02d_%03d.bin", class, idx)
}

type options struct {
	concurrency int
	log         logger.Logger
	metrics     *metrics.Manager
}

// Option configures Load.
type Option func(*options)

// WithConcurrency bounds the number of tree blobs read at once.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLogger sets the load logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMetrics records load outcomes on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// Load reads a model from a container. It either returns a complete model
// or an error; no partial model is returned.
//
// Steps:
//  1. Parse model.ini
//  2. Resolve the reader for algorithm and version
//  3. Load categorical domains
//  4. Build the descriptor and variant fields
//  5. Fetch every tree blob
func Load(ctx context.Context, c container.Container, opts ...Option) (*model.Ensemble, error) {
	o := options{concurrency: DefaultConcurrency, log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	m, err := load(ctx, c, &o)
	if err != nil {
		kind := ErrorKind(err)
		o.metrics.RecordLoadError(kind)
		o.log.Warn(ctx, "model load failed", logger.String("kind", kind), logger.Error(err))
		return nil, err
	}

	elapsed := time.Since(start)
	o.metrics.RecordLoad(m.Algorithm, len(m.Trees), elapsed)
	o.log.Info(ctx, "model loaded",
		logger.String("algorithm", m.Algorithm),
		logger.String("version", m.Version),
		logger.String("variant", m.Variant.String()),
		logger.Int("trees", len(m.Trees)),
		logger.Any("duration", elapsed),
	)
	return m, nil
}

func load(ctx context.Context, c container.Container, o *options) (*model.Ensemble, error) {
	setup, err := descriptor.Read(ctx, c)
	if err != nil {
		return nil, err
	}
	o.log.Debug(ctx, "descriptor parsed",
		logger.String("algorithm", setup.Algorithm),
		logger.String("version", setup.Version),
		logger.Int("columns", len(setup.Columns)),
	)

	ctor, err := Lookup(setup.Algorithm, setup.Version)
	if err != nil {
		return nil, err
	}

	domains, err := descriptor.LoadDomains(ctx, c, setup)
	if err != nil {
		return nil, err
	}

	d, err := buildDescriptor(setup, domains)
	if err != nil {
		return nil, err
	}
	build, err := ctor(setup, d)
	if err != nil {
		return nil, err
	}

	t, err := treeLayout(setup, d)
	if err != nil {
		return nil, err
	}
	t.Blobs, err = fetchTrees(ctx, c, t.NTrees, t.NTreesPerClass, o.concurrency)
	if err != nil {
		return nil, err
	}
	o.log.Debug(ctx, "trees fetched", logger.Int("trees", len(t.Blobs)))

	return build(t)
}

// fetchTrees reads all tree blobs, indexed class*nTrees + tree.
func fetchTrees(ctx context.Context, c container.Container, nTrees, nTreesPerClass, concurrency int) ([]tree.Compressed, error) {
	blobs := make([]tree.Compressed, nTrees*nTreesPerClass)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := 0; i < nTreesPerClass; i++ {
		for j := 0; j < nTrees; j++ {
			name := TreeEntry(i, j)
			idx := i*nTrees + j
			g.Go(func() error {
				b, err := c.ReadBinary(gctx, name)
				if err != nil {
					return err
				}
				blobs[idx] = b
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blobs, nil
}
