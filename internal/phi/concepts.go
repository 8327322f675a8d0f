package phi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"integra/internal/logging"
	"integra/internal/repertoire"
	"integra/internal/system"
)

// Concept is a mechanism that irreducibly constrains both the system's
// past and its future.
type Concept struct {
	Mechanism []int `json:"mechanism"`

	// Phi is min(PhiCause, PhiEffect): a concept exists only as strongly
	// as its weaker direction.
	Phi       float64 `json:"phi"`
	PhiCause  float64 `json:"phi_cause"`
	PhiEffect float64 `json:"phi_effect"`

	// The purviews realizing each direction's φ.
	CausePurview  []int `json:"cause_purview"`
	EffectPurview []int `json:"effect_purview"`

	CauseRepertoire  []float64 `json:"cause_repertoire"`
	EffectRepertoire []float64 `json:"effect_repertoire"`
}

// CauseEffectStructure is the set of concepts a system specifies.
type CauseEffectStructure struct {
	Concepts []Concept `json:"concepts"`
}

// Count returns the number of concepts.
func (ces *CauseEffectStructure) Count() int { return len(ces.Concepts) }

// MeanPhi returns the average concept φ, 0 for an empty structure.
func (ces *CauseEffectStructure) MeanPhi() float64 {
	if len(ces.Concepts) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range ces.Concepts {
		sum += c.Phi
	}
	return sum / float64(len(ces.Concepts))
}

// MaxPhi returns the largest concept φ, 0 for an empty structure.
func (ces *CauseEffectStructure) MaxPhi() float64 {
	max := 0.0
	for _, c := range ces.Concepts {
		if c.Phi > max {
			max = c.Phi
		}
	}
	return max
}

// IdentifyConcepts finds every mechanism up to MaxMechanismSize whose
// cause and effect repertoires both diverge from the unconstrained
// repertoire by more than MinPhiThreshold. Models without a backward
// direction cannot specify cause repertoires and are rejected outright.
func IdentifyConcepts(ctx context.Context, m *system.ProbabilityModel, cfg Config) (*CauseEffectStructure, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if m.ForwardOnly || m.TPM == nil {
		return nil, fmt.Errorf("%w: concept analysis needs both directions", repertoire.ErrDirectionUnsupported)
	}
	logger := logging.New("concepts")
	start := time.Now()

	if cfg.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Deadline)
		defer cancel()
	}

	calc := repertoire.NewCalculator(m, repertoire.NewCache(cfg.CacheCapacity))
	mechanisms := subsetsUpTo(m.N(), cfg.MaxMechanismSize)
	purviews := subsetsUpTo(m.N(), m.N())
	cards := m.Cardinalities()

	var (
		mu       sync.Mutex
		concepts []Concept
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, mech := range mechanisms {
		mech := mech
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			e := &evaluator{model: m, cards: cards, calc: calc, kind: cfg.Distance}
			concept, ok, err := e.analyzeMechanism(mech, purviews, cfg.MinPhiThreshold)
			if err != nil {
				return err
			}
			if ok {
				mu.Lock()
				concepts = append(concepts, concept)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrCancelled
		}
		return nil, err
	}

	sort.Slice(concepts, func(i, j int) bool {
		return lessInts(concepts[i].Mechanism, concepts[j].Mechanism)
	})
	ces := &CauseEffectStructure{Concepts: concepts}
	logger.Info("concepts identified",
		"system", m.Name, "mechanisms", len(mechanisms), "concepts", ces.Count(),
		"mean_phi", ces.MeanPhi(), "elapsed", time.Since(start))
	return ces, nil
}

// analyzeMechanism scores one mechanism. Each direction's φ is the
// smallest divergence from the unconstrained repertoire across candidate
// purviews; the mechanism qualifies only if both directions clear the
// threshold.
func (e *evaluator) analyzeMechanism(mech []int, purviews [][]int, threshold float64) (Concept, bool, error) {
	concept := Concept{Mechanism: mech}

	for _, dir := range []repertoire.Direction{repertoire.Cause, repertoire.Effect} {
		bestPhi := -1.0
		var bestPurview []int
		var bestRep []float64
		for _, purview := range purviews {
			var rep []float64
			var err error
			if dir == repertoire.Cause {
				rep, err = e.calc.Cause(mech, purview)
			} else {
				rep, err = e.calc.Effect(mech, purview)
			}
			if err != nil {
				return Concept{}, false, err
			}
			d, err := e.divergence(rep, e.calc.Unconstrained(purview), subCards(purview, e.cards))
			if err != nil {
				return Concept{}, false, err
			}
			if bestPhi < 0 || d < bestPhi || (d == bestPhi && lessInts(purview, bestPurview)) {
				bestPhi = d
				bestPurview = purview
				bestRep = rep
			}
		}
		if dir == repertoire.Cause {
			concept.PhiCause = bestPhi
			concept.CausePurview = bestPurview
			concept.CauseRepertoire = bestRep
		} else {
			concept.PhiEffect = bestPhi
			concept.EffectPurview = bestPurview
			concept.EffectRepertoire = bestRep
		}
	}

	concept.Phi = concept.PhiCause
	if concept.PhiEffect < concept.Phi {
		concept.Phi = concept.PhiEffect
	}
	return concept, concept.Phi > threshold, nil
}

// subsetsUpTo enumerates the non-empty subsets of {0..n-1} with at most
// maxSize elements, in mask order.
func subsetsUpTo(n, maxSize int) [][]int {
	var out [][]int
	for mask := 1; mask < 1<<uint(n); mask++ {
		var subset []int
		for i := 0; i < n; i++ {
			if mask&(1<<uint(i)) != 0 {
				subset = append(subset, i)
			}
		}
		if len(subset) <= maxSize {
			out = append(out, subset)
		}
	}
	return out
}

func lessInts(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
