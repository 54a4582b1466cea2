// Package forest implements bagged CART regression ensembles and the feature
// scalers used in front of them.
package forest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrEmptyTrainingSet is returned when there are no rows or no features.
	ErrEmptyTrainingSet = errors.New("empty training set")
	// ErrShape is returned when rows and targets disagree in size.
	ErrShape = errors.New("inconsistent matrix shape")
)

// FeatureSampling selects how many features each split considers.
type FeatureSampling int

const (
	// AllFeatures evaluates every feature at every split.
	AllFeatures FeatureSampling = iota
	// SqrtFeatures evaluates a random subset of √n features per split.
	SqrtFeatures
)

// Config holds ensemble hyperparameters.
type Config struct {
	NTrees          int
	MaxDepth        int // 0 = unlimited
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     FeatureSampling
	Seed            uint64
	Workers         int // 0 = GOMAXPROCS
}

// Forest is a fitted random forest regressor.
type Forest struct {
	trees []*Tree
}

// Fit grows cfg.NTrees trees, each on a bootstrap sample of the rows. Every
// tree draws from its own PCG stream keyed by (Seed, tree index), so the
// result does not depend on the number of workers.
func Fit(ctx context.Context, X [][]float64, y []float64, cfg Config) (*Forest, error) {
	if len(X) == 0 || len(X[0]) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d targets", ErrShape, len(X), len(y))
	}
	width := len(X[0])
	for _, row := range X {
		if len(row) != width {
			return nil, ErrShape
		}
	}
	if cfg.NTrees <= 0 {
		return nil, fmt.Errorf("invalid tree count %d", cfg.NTrees)
	}

	params := treeParams{
		maxDepth:    cfg.MaxDepth,
		minSplit:    max(cfg.MinSamplesSplit, 2),
		minLeaf:     max(cfg.MinSamplesLeaf, 1),
		maxFeatures: featureCount(cfg.MaxFeatures, width),
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	trees := make([]*Tree, cfg.NTrees)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for t := range trees {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(t)))
			trees[t] = fitTree(X, y, bootstrap(len(X), rng), params, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Forest{trees: trees}, nil
}

// Predict returns the mean of the member predictions.
func (f *Forest) Predict(row []float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += t.Predict(row)
	}
	return sum / float64(len(f.trees))
}

// PredictEach returns every member prediction for row.
func (f *Forest) PredictEach(row []float64) []float64 {
	out := make([]float64, len(f.trees))
	for i, t := range f.trees {
		out[i] = t.Predict(row)
	}
	return out
}

// PredictAll applies Predict to every row.
func (f *Forest) PredictAll(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = f.Predict(row)
	}
	return out
}

// Size returns the number of trees.
func (f *Forest) Size() int { return len(f.trees) }

func bootstrap(n int, rng *rand.Rand) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = rng.IntN(n)
	}
	return out
}

func featureCount(s FeatureSampling, width int) int {
	if s == SqrtFeatures {
		return max(1, int(math.Sqrt(float64(width))))
	}
	return width
}
