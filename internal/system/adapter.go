package system

import (
	"errors"
	"fmt"
	"math"
)

// normTolerance is how far a supplied distribution or TPM row may drift
// from summing to 1 before the input is rejected instead of renormalized.
const normTolerance = 1e-6

// ErrDimensionMismatch is the sentinel for every size disagreement between
// a supplied model and ∏cᵢ. It is never recovered locally: a model of the
// wrong size must surface to the caller, not degrade into a Φ computed
// over the wrong state space.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// DimensionError reports what was sized wrong and by how much.
type DimensionError struct {
	What     string
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: expected %d entries for the joint state space, got %d", e.What, e.Expected, e.Actual)
}

func (e *DimensionError) Is(target error) bool { return target == ErrDimensionMismatch }

// ErrNotNormalized rejects inputs whose probability mass is too far from 1.
var ErrNotNormalized = errors.New("probabilities do not sum to 1")

// AdaptTransition builds the canonical model from a classical description:
// a row-stochastic transition matrix over joint states, an optional
// element-level connectivity matrix, and the current per-element state.
// The matrix must be StateCount×StateCount for the given cardinalities —
// a 4-element ternary system needs an 81×81 matrix, and anything else is a
// DimensionError, never a silent reinterpretation.
func AdaptTransition(tpm [][]float64, conn [][]bool, state []int, cards []int) (*ProbabilityModel, error) {
	n := len(cards)
	if n == 0 {
		return nil, fmt.Errorf("adapt: empty system")
	}
	if len(state) != n {
		return nil, &DimensionError{What: "current state", Expected: n, Actual: len(state)}
	}
	total := StateCount(cards)
	if total == 0 {
		return nil, fmt.Errorf("adapt: invalid cardinalities %v", cards)
	}
	if _, err := Encode(state, cards); err != nil {
		return nil, fmt.Errorf("adapt: %w", err)
	}
	if len(tpm) != total {
		return nil, &DimensionError{What: "transition matrix rows", Expected: total, Actual: len(tpm)}
	}
	rows := make([][]float64, total)
	for s, row := range tpm {
		if len(row) != total {
			return nil, &DimensionError{What: fmt.Sprintf("transition matrix row %d", s), Expected: total, Actual: len(row)}
		}
		normalized, err := normalize(row)
		if err != nil {
			return nil, fmt.Errorf("transition row %d: %w", s, err)
		}
		rows[s] = normalized
	}
	if conn != nil {
		if len(conn) != n {
			return nil, &DimensionError{What: "connectivity rows", Expected: n, Actual: len(conn)}
		}
		for i, row := range conn {
			if len(row) != n {
				return nil, &DimensionError{What: fmt.Sprintf("connectivity row %d", i), Expected: n, Actual: len(row)}
			}
		}
	}

	// The canonical distribution of a transition model is the one-step
	// pushforward of the uniform perturbation: p(s') = (1/S)·Σₛ T[s][s'].
	dist := make([]float64, total)
	for _, row := range rows {
		for sp, p := range row {
			dist[sp] += p
		}
	}
	for sp := range dist {
		dist[sp] /= float64(total)
	}

	elements := make([]Element, n)
	for i, c := range cards {
		elements[i] = Element{Index: i, Cardinality: c}
	}
	return &ProbabilityModel{
		Elements:     elements,
		CurrentState: append([]int(nil), state...),
		Dist:         dist,
		TPM:          rows,
		Connectivity: conn,
		Kind:         Transition,
	}, nil
}

// AdaptDistribution builds the canonical model from a quantum-derived
// joint probability vector (squared amplitudes or a density-matrix
// diagonal) plus an explicit cardinality vector. The vector length must
// equal ∏cᵢ. The resulting model is forward-only: with no transition
// kernel there is no defensible backward (cause) direction.
func AdaptDistribution(probs []float64, cards []int, state []int) (*ProbabilityModel, error) {
	n := len(cards)
	if n == 0 {
		return nil, fmt.Errorf("adapt: empty system")
	}
	total := StateCount(cards)
	if total == 0 {
		return nil, fmt.Errorf("adapt: invalid cardinalities %v", cards)
	}
	if len(probs) != total {
		return nil, &DimensionError{What: "probability vector", Expected: total, Actual: len(probs)}
	}
	if state == nil {
		state = make([]int, n)
	}
	if len(state) != n {
		return nil, &DimensionError{What: "current state", Expected: n, Actual: len(state)}
	}
	if _, err := Encode(state, cards); err != nil {
		return nil, fmt.Errorf("adapt: %w", err)
	}
	dist, err := normalize(probs)
	if err != nil {
		return nil, err
	}

	elements := make([]Element, n)
	for i, c := range cards {
		elements[i] = Element{Index: i, Cardinality: c}
	}
	return &ProbabilityModel{
		Elements:     elements,
		CurrentState: append([]int(nil), state...),
		Dist:         dist,
		Kind:         Distribution,
		ForwardOnly:  true,
	}, nil
}

// normalize copies p rescaled to sum to 1, rejecting negative mass, NaN,
// and totals outside the tolerance band around 1.
func normalize(p []float64) ([]float64, error) {
	sum := 0.0
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("%w: invalid mass %v", ErrNotNormalized, v)
		}
		sum += v
	}
	if math.Abs(sum-1.0) > normTolerance {
		return nil, fmt.Errorf("%w: total mass %g", ErrNotNormalized, sum)
	}
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = v / sum
	}
	return out, nil
}
