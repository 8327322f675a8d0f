// Package phi computes integrated information for a canonical system
// model: exhaustive or sampled minimum-information-partition search,
// structural approximations for systems too large to search, and
// mechanism-level concept analysis.
package phi

import (
	"context"
	"time"

	"integra/internal/logging"
	"integra/internal/partition"
	"integra/internal/repertoire"
	"integra/internal/system"
)

// ComputePhi measures the integrated information of the model under the
// given configuration. The model is not mutated; all scratch state,
// including the repertoire cache, lives and dies with this call.
func ComputePhi(ctx context.Context, m *system.ProbabilityModel, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := logging.New("phi")
	start := time.Now()

	if cfg.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Deadline)
		defer cancel()
	}

	n := m.N()
	// A single element admits no bipartition; nothing to integrate over.
	if n < 2 {
		return &Result{Phi: 0, Method: Exact, Elapsed: time.Since(start)}, nil
	}

	strategy, err := resolveStrategy(cfg, n)
	if err != nil {
		return nil, err
	}
	logger.Debug("strategy selected",
		"system", m.Name, "elements", n, "states", m.StateCount(), "strategy", strategy.String())

	var result *Result
	switch strategy {
	case Exact:
		result, err = searchExact(ctx, m, cfg)
	case Sampled:
		result, err = searchSampled(ctx, m, cfg)
	case Geometric, Spectral, MeanField, Tau:
		result, err = approximate(m, strategy)
	}
	if err != nil {
		return nil, err
	}
	result.Elapsed = time.Since(start)
	logger.Info("phi computed",
		"system", m.Name, "phi", result.Phi, "method", result.Method.String(),
		"partitions", result.PartitionsEvaluated, "elapsed", result.Elapsed)
	return result, nil
}

// resolveStrategy turns Auto into a concrete strategy and enforces the
// hard size cap on exact search.
func resolveStrategy(cfg Config, n int) (Strategy, error) {
	s := cfg.Strategy
	if s == Auto {
		if n <= cfg.ExactThreshold {
			return Exact, nil
		}
		return cfg.Approximation, nil
	}
	if s == Exact && n > partition.MaxElements {
		return 0, &SizeError{Size: n, Max: partition.MaxElements}
	}
	return s, nil
}

// searchExact evaluates every distinct bipartition.
func searchExact(ctx context.Context, m *system.ProbabilityModel, cfg Config) (*Result, error) {
	it, err := partition.Exact(m.N())
	if err != nil {
		return nil, err
	}
	parts := make([]partition.Partition, 0, partition.Count(m.N()))
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		parts = append(parts, p)
	}
	result, err := newEvaluator(m, cfg).search(ctx, parts, cfg)
	if err != nil {
		return nil, err
	}
	result.Method = Exact
	return result, nil
}

// searchSampled evaluates a seeded random subset of partitions. The
// result is an upper bound on Φ that tightens with NumSamples.
func searchSampled(ctx context.Context, m *system.ProbabilityModel, cfg Config) (*Result, error) {
	parts, err := partition.Sample(m.N(), cfg.NumSamples, cfg.SampleSeed)
	if err != nil {
		return nil, err
	}
	result, err := newEvaluator(m, cfg).search(ctx, parts, cfg)
	if err != nil {
		return nil, err
	}
	result.Method = Sampled
	return result, nil
}

func newEvaluator(m *system.ProbabilityModel, cfg Config) *evaluator {
	cache := repertoire.NewCache(cfg.CacheCapacity)
	return &evaluator{
		model: m,
		cards: m.Cardinalities(),
		calc:  repertoire.NewCalculator(m, cache),
		kind:  cfg.Distance,
	}
}
