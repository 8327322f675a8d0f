package partition

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func collect(t *testing.T, n int) []Partition {
	t.Helper()
	it, err := Exact(n)
	if err != nil {
		t.Fatalf("Exact(%d): %v", n, err)
	}
	var all []Partition
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		all = append(all, p)
	}
	return all
}

func TestExact_Completeness(t *testing.T) {
	for n := 2; n <= 8; n++ {
		all := collect(t, n)
		if len(all) != Count(n) {
			t.Errorf("n=%d: got %d partitions, want %d", n, len(all), Count(n))
		}
		seen := make(map[string]bool)
		for _, p := range all {
			if len(p.A) == 0 || len(p.B) == 0 {
				t.Errorf("n=%d: empty side in %v", n, p)
			}
			if len(p.A)+len(p.B) != n {
				t.Errorf("n=%d: sides do not cover all elements: %v", n, p)
			}
			if p.A[0] != 0 {
				t.Errorf("n=%d: element 0 not on side A: %v", n, p)
			}
			key := p.String()
			if seen[key] {
				t.Errorf("n=%d: duplicate partition %v", n, p)
			}
			seen[key] = true
		}
	}
}

func TestExact_ThreeElements(t *testing.T) {
	want := []Partition{
		{A: []int{0}, B: []int{1, 2}},
		{A: []int{0, 1}, B: []int{2}},
		{A: []int{0, 2}, B: []int{1}},
	}
	got := collect(t, 3)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("partitions mismatch (-want +got):\n%s", diff)
	}
}

func TestExact_HardCap(t *testing.T) {
	if _, err := Exact(MaxElements); err != nil {
		t.Errorf("Exact(%d) should succeed: %v", MaxElements, err)
	}
	_, err := Exact(MaxElements + 1)
	if !errors.Is(err, ErrComputationInfeasible) {
		t.Errorf("expected ErrComputationInfeasible, got %v", err)
	}
}

func TestExact_TooSmall(t *testing.T) {
	if _, err := Exact(1); err == nil {
		t.Error("expected error for single-element system")
	}
}

func TestSample_Deterministic(t *testing.T) {
	a, err := Sample(6, 50, 42)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	b, err := Sample(6, 50, 42)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different samples:\n%s", diff)
	}
	c, _ := Sample(6, 50, 43)
	if diff := cmp.Diff(a, c); diff == "" {
		t.Error("different seeds produced identical samples")
	}
}

func TestSample_Valid(t *testing.T) {
	samples, err := Sample(10, 200, 7)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(samples) != 200 {
		t.Fatalf("got %d samples, want 200", len(samples))
	}
	for _, p := range samples {
		if len(p.A) == 0 || len(p.B) == 0 {
			t.Errorf("empty side in sampled partition %v", p)
		}
		if len(p.A)+len(p.B) != 10 {
			t.Errorf("sampled partition does not cover all elements: %v", p)
		}
		if p.A[0] != 0 {
			t.Errorf("sampled partition not canonical: %v", p)
		}
	}
}

func TestSample_BeyondExactCap(t *testing.T) {
	// Sampling has no size cap; it is the escape hatch past MaxElements.
	if _, err := Sample(30, 10, 1); err != nil {
		t.Errorf("Sample(30, ...) should succeed: %v", err)
	}
}
