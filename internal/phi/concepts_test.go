package phi

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"integra/internal/repertoire"
	"integra/internal/system"
)

func TestIdentifyConcepts_SwapPair(t *testing.T) {
	// Swap dynamics: each singleton leaves some purview unconstrained, so
	// only the full mechanism survives as a concept.
	m := transitionModel(t, []int{2, 2}, []int{1, 0}, func(v []int) []int {
		return []int{v[1], v[0]}
	})
	ces, err := IdentifyConcepts(context.Background(), m, Config{MaxMechanismSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	if ces.Count() != 1 {
		t.Fatalf("concepts = %d, want 1: %+v", ces.Count(), ces.Concepts)
	}
	c := ces.Concepts[0]
	if diff := cmp.Diff([]int{0, 1}, c.Mechanism); diff != "" {
		t.Errorf("mechanism mismatch (-want +got):\n%s", diff)
	}
	if math.Abs(c.Phi-0.25) > 1e-9 {
		t.Errorf("concept phi = %g, want 0.25", c.Phi)
	}
	if c.Phi != math.Min(c.PhiCause, c.PhiEffect) {
		t.Errorf("phi %g is not min(cause %g, effect %g)", c.Phi, c.PhiCause, c.PhiEffect)
	}
	if len(c.CauseRepertoire) == 0 || len(c.EffectRepertoire) == 0 {
		t.Error("concept must carry both repertoires")
	}
	if math.Abs(ces.MeanPhi()-0.25) > 1e-9 || math.Abs(ces.MaxPhi()-0.25) > 1e-9 {
		t.Errorf("MeanPhi=%g MaxPhi=%g, want 0.25", ces.MeanPhi(), ces.MaxPhi())
	}
}

func TestIdentifyConcepts_MajorityTriad(t *testing.T) {
	// In state [1,0,1] the pair mechanisms {0,1}, {1,2} and the full triad
	// are in states no transition reaches, so their cause side collapses to
	// uniform and they drop out. The singletons and the like-state pair
	// {0,2} remain.
	m := transitionModel(t, []int{2, 2, 2}, []int{1, 0, 1}, func(v []int) []int {
		mj := majority(v)
		return []int{mj, mj, mj}
	})
	ces, err := IdentifyConcepts(context.Background(), m, Config{})
	if err != nil {
		t.Fatal(err)
	}
	var mechs [][]int
	for _, c := range ces.Concepts {
		mechs = append(mechs, c.Mechanism)
		if c.Phi <= 0 {
			t.Errorf("mechanism %v has phi %g, want > 0", c.Mechanism, c.Phi)
		}
	}
	want := [][]int{{0}, {0, 2}, {1}, {2}}
	if diff := cmp.Diff(want, mechs); diff != "" {
		t.Errorf("mechanism set mismatch (-want +got):\n%s", diff)
	}
}

func TestIdentifyConcepts_DisconnectedHasNone(t *testing.T) {
	cards := []int{2, 2}
	total := system.StateCount(cards)
	tpm := make([][]float64, total)
	for s := range tpm {
		row := make([]float64, total)
		for sp := range row {
			row[sp] = 1.0 / float64(total)
		}
		tpm[s] = row
	}
	m, err := system.AdaptTransition(tpm, nil, []int{0, 0}, cards)
	if err != nil {
		t.Fatal(err)
	}
	ces, err := IdentifyConcepts(context.Background(), m, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if ces.Count() != 0 {
		t.Errorf("independent coins specified %d concepts, want 0", ces.Count())
	}
	if ces.MeanPhi() != 0 || ces.MaxPhi() != 0 {
		t.Errorf("empty structure stats: mean=%g max=%g", ces.MeanPhi(), ces.MaxPhi())
	}
}

func TestIdentifyConcepts_ForwardOnlyRejected(t *testing.T) {
	m, err := system.AdaptDistribution([]float64{0.5, 0, 0, 0.5}, []int{2, 2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = IdentifyConcepts(context.Background(), m, Config{})
	if !errors.Is(err, repertoire.ErrDirectionUnsupported) {
		t.Errorf("expected ErrDirectionUnsupported, got %v", err)
	}
}

func TestIdentifyConcepts_MechanismSizeBound(t *testing.T) {
	m := transitionModel(t, []int{2, 2, 2}, []int{1, 0, 1}, func(v []int) []int {
		return []int{v[2], v[0], v[1]}
	})
	ces, err := IdentifyConcepts(context.Background(), m, Config{MaxMechanismSize: 1})
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range ces.Concepts {
		if len(c.Mechanism) > 1 {
			t.Errorf("mechanism %v exceeds size bound", c.Mechanism)
		}
	}
}

func TestIdentifyConcepts_Cancellation(t *testing.T) {
	m := transitionModel(t, []int{2, 2, 2}, []int{1, 0, 1}, func(v []int) []int {
		mj := majority(v)
		return []int{mj, mj, mj}
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := IdentifyConcepts(ctx, m, Config{})
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
}

func TestSubsetsUpTo(t *testing.T) {
	got := subsetsUpTo(3, 2)
	want := [][]int{{0}, {1}, {0, 1}, {2}, {0, 2}, {1, 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subsets mismatch (-want +got):\n%s", diff)
	}
}
