// Package system holds the canonical model representation shared by every
// stage of a Φ measurement: elements with per-element cardinality, the
// mixed-radix joint-state indexer, and the adapter that normalizes
// heterogeneous inputs (transition matrices, quantum-derived probability
// vectors) into one ProbabilityModel.
package system

// Element is one unit of the system. Cardinality is the number of
// distinguishable values it can take: 2 for classical binary nodes, 3 or
// more for truncated oscillator state spaces.
type Element struct {
	Index       int
	Cardinality int
}

// ModelKind distinguishes how a ProbabilityModel was built.
type ModelKind int

const (
	// Transition models carry a joint-state transition matrix and support
	// both cause and effect analysis.
	Transition ModelKind = iota
	// Distribution models carry only a joint probability vector (e.g. the
	// diagonal of a density matrix) and are forward-only.
	Distribution
)

func (k ModelKind) String() string {
	switch k {
	case Transition:
		return "transition"
	case Distribution:
		return "distribution"
	default:
		return "unknown"
	}
}

// ProbabilityModel is the canonical, immutable description of a system
// under measurement. Dist always has length StateCount() and sums to 1.
// TPM and Connectivity are present for Transition models only; a nil
// Connectivity means the approximation strategies that need one are
// unavailable.
type ProbabilityModel struct {
	Name         string
	Elements     []Element
	CurrentState []int
	Dist         []float64
	TPM          [][]float64
	Connectivity [][]bool
	Kind         ModelKind
	ForwardOnly  bool
}

// N returns the number of elements.
func (m *ProbabilityModel) N() int { return len(m.Elements) }

// Cardinalities returns the per-element cardinality vector.
func (m *ProbabilityModel) Cardinalities() []int {
	cards := make([]int, len(m.Elements))
	for i, e := range m.Elements {
		cards[i] = e.Cardinality
	}
	return cards
}

// StateCount returns the joint-state count ∏ cᵢ. This is the one number
// that must never be conflated with N(): a 4-element ternary system has
// N()=4 but StateCount()=81.
func (m *ProbabilityModel) StateCount() int {
	return StateCount(m.Cardinalities())
}

// CurrentIndex returns the joint-state index of the current state.
func (m *ProbabilityModel) CurrentIndex() (int, error) {
	return Encode(m.CurrentState, m.Cardinalities())
}
