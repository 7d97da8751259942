package dataset

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"koreanparse/phonemize"
)

// Split partitions 0..n-1 into train and validation indices. The first
// floor(validation*n) indices of the (optionally shuffled) order go to
// validation.
func Split(n int, validation float64, shuffle bool, seed uint64) (train, val []int) {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if shuffle {
		r := rand.New(rand.NewPCG(seed, seed))
		r.Shuffle(n, func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })
	}
	split := int(math.Floor(min(max(validation, 0), 1) * float64(n)))
	return indices[split:], indices[:split]
}

// Batch is a group of items delivered together.
type Batch struct {
	Index int    `json:"index"`
	Items []Item `json:"items"`
}

// Clean returns the target grids of b.
func (b Batch) Clean() [][][]int {
	out := make([][][]int, len(b.Items))
	for i, it := range b.Items {
		out[i] = it.Clean
	}
	return out
}

// Noisy returns the input grids of b.
func (b Batch) Noisy() [][][]int {
	out := make([][][]int, len(b.Items))
	for i, it := range b.Items {
		out[i] = it.Noisy
	}
	return out
}

// Lengths returns the real input lengths of b.
func (b Batch) Lengths() []int {
	out := make([]int, len(b.Items))
	for i, it := range b.Items {
		out[i] = it.Length
	}
	return out
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithDropLast drops a trailing batch smaller than the batch size.
func WithDropLast(drop bool) LoaderOption {
	return func(l *Loader) {
		l.dropLast = drop
	}
}

// WithWorkers bounds how many items of a batch are built concurrently.
// Default: runtime.GOMAXPROCS(0).
func WithWorkers(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithShuffleSeed makes the per-epoch order reproducible.
func WithShuffleSeed(seed uint64) LoaderOption {
	return func(l *Loader) {
		l.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// Loader iterates a subset of a dataset in random order, one batch at a time.
type Loader struct {
	ds        *Dataset
	indices   []int
	batchSize int
	dropLast  bool
	workers   int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewLoader returns a loader over the given dataset indices.
func NewLoader(ds *Dataset, indices []int, batchSize int, opts ...LoaderOption) (*Loader, error) {
	if ds == nil {
		return nil, errors.New("dataset: nil dataset")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("dataset: batch size must be positive, got %d", batchSize)
	}
	for _, i := range indices {
		if i < 0 || i >= ds.Len() {
			return nil, fmt.Errorf("dataset: index %d out of range [0, %d)", i, ds.Len())
		}
	}
	l := &Loader{
		ds:        ds,
		indices:   slices.Clone(indices),
		batchSize: batchSize,
		workers:   runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.rng == nil {
		l.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return l, nil
}

// Len returns the number of indices in the subset.
func (l *Loader) Len() int {
	return len(l.indices)
}

// NumBatches returns how many batches one epoch yields.
func (l *Loader) NumBatches() int {
	n := len(l.indices) / l.batchSize
	if !l.dropLast && len(l.indices)%l.batchSize != 0 {
		n++
	}
	return n
}

func (l *Loader) order() []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := slices.Clone(l.indices)
	l.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Epoch reshuffles the subset and calls fn with each batch in turn. Items of
// a batch are built concurrently. The first error from building or from fn
// stops the epoch.
func (l *Loader) Epoch(ctx context.Context, fn func(Batch) error) error {
	order := l.order()
	for b := 0; b < l.NumBatches(); b++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lo := b * l.batchSize
		hi := min(lo+l.batchSize, len(order))
		batch, err := l.build(ctx, b, order[lo:hi])
		if err != nil {
			return err
		}
		if err := fn(batch); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) build(ctx context.Context, index int, ids []int) (Batch, error) {
	start := time.Now()
	items := make([]Item, len(ids))

	// one injector fork per item, drawn in batch order
	decs := make([]*phonemize.Decomposer, len(ids))
	for k := range ids {
		decs[k] = l.ds.dec
		if l.ds.cfg.Noise {
			decs[k] = l.ds.dec.Using(l.ds.dec.Injector().Fork())
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for k, i := range ids {
		g.Go(func() error {
			item, err := l.ds.get(gctx, i, decs[k])
			if err != nil {
				return err
			}
			items[k] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Batch{}, fmt.Errorf("dataset: batch %d: %w", index, err)
	}

	if l.ds.metrics != nil {
		l.ds.metrics.RecordBatch(ctx, start)
	}
	return Batch{Index: index, Items: items}, nil
}
