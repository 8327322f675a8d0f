package phi

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"integra/internal/partition"
)

// search evaluates the loss of every given partition across a bounded
// worker pool and reduces to the minimum.
func (e *evaluator) search(ctx context.Context, parts []partition.Partition, cfg Config) (*Result, error) {
	return searchMin(ctx, parts, cfg, e.loss)
}

// searchMin fans partitions out over a bounded worker pool and reduces
// the losses to their minimum. The reduction is order-independent: ties
// are broken by the partition's canonical string so concurrent schedules
// cannot change the reported MIP.
func searchMin(ctx context.Context, parts []partition.Partition, cfg Config, loss func(partition.Partition) (float64, error)) (*Result, error) {
	var (
		mu          sync.Mutex
		best        = -1.0
		bestPart    partition.Partition
		evaluated   int
		diagnostics []Diagnostic
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, p := range parts {
		p := p
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			l, err := loss(p)
			if err != nil {
				if cfg.SkipNumericalErrors {
					mu.Lock()
					diagnostics = append(diagnostics, Diagnostic{Partition: p, Err: err.Error()})
					mu.Unlock()
					return nil
				}
				return err
			}
			mu.Lock()
			evaluated++
			if best < 0 || l < best || (l == best && p.String() < bestPart.String()) {
				best = l
				bestPart = p
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrCancelled
		}
		return nil, err
	}
	if evaluated == 0 {
		if len(diagnostics) > 0 {
			return nil, fmt.Errorf("every partition failed; first: %s on %s", diagnostics[0].Err, diagnostics[0].Partition)
		}
		return nil, ErrCancelled
	}

	return &Result{
		Phi:                 best,
		MIP:                 &bestPart,
		PartitionsEvaluated: evaluated,
		Diagnostics:         diagnostics,
	}, nil
}
