package phi

import (
	"errors"
	"math"

	"integra/internal/metric"
	"integra/internal/partition"
	"integra/internal/repertoire"
	"integra/internal/system"
)

// evaluator computes the information loss of one partition. Transition
// models use perturbational effective information across the cut;
// distribution models use the mutual information between the two sides.
type evaluator struct {
	model *system.ProbabilityModel
	cards []int
	calc  *repertoire.Calculator
	kind  metric.Kind
}

func (e *evaluator) loss(p partition.Partition) (float64, error) {
	if e.model.Kind == system.Distribution {
		return e.mutualInformation(p)
	}
	return e.effectiveInformation(p)
}

// effectiveInformation scores the cut by directed effective information.
// A unidirectional cut severs only the weaker direction, so its cost is
// the minimum of the two; a bidirectional cut severs both and pays the
// sum.
func (e *evaluator) effectiveInformation(p partition.Partition) (float64, error) {
	ab, err := e.directedEI(p.A, p.B)
	if err != nil {
		return 0, err
	}
	if ab == 0 && p.Cut == partition.Unidirectional {
		return 0, nil
	}
	ba, err := e.directedEI(p.B, p.A)
	if err != nil {
		return 0, err
	}
	if p.Cut == partition.Bidirectional {
		return ab + ba, nil
	}
	return math.Min(ab, ba), nil
}

// directedEI measures how much the source part's state constrains the
// target part's next state: every source state is injected with equal
// weight, and the divergence of each conditional target distribution
// from their average is itself averaged.
func (e *evaluator) directedEI(src, dst []int) (float64, error) {
	srcCards := subCards(src, e.cards)
	dstCards := subCards(dst, e.cards)
	srcStates := system.StateCount(srcCards)
	dstStates := system.StateCount(dstCards)

	conditionals := make([][]float64, srcStates)
	marginal := make([]float64, dstStates)
	for a := 0; a < srcStates; a++ {
		values, err := system.Decode(a, srcCards)
		if err != nil {
			return 0, err
		}
		cond, err := e.calc.EffectAt(src, values, dst)
		if err != nil {
			return 0, err
		}
		conditionals[a] = cond
		for i, p := range cond {
			marginal[i] += p
		}
	}
	for i := range marginal {
		marginal[i] /= float64(srcStates)
	}

	ei := 0.0
	for _, cond := range conditionals {
		d, err := e.divergence(cond, marginal, dstCards)
		if err != nil {
			return 0, err
		}
		ei += d
	}
	return ei / float64(srcStates), nil
}

// mutualInformation returns H(A) + H(B) - H(AB) in bits over the model's
// joint distribution. Zero exactly when the two sides are independent.
func (e *evaluator) mutualInformation(p partition.Partition) (float64, error) {
	ha := entropy(marginalize(e.model.Dist, p.A, e.cards))
	hb := entropy(marginalize(e.model.Dist, p.B, e.cards))
	hab := entropy(e.model.Dist)
	mi := ha + hb - hab
	// Clamp the tiny negative residue of float accumulation.
	if mi < 0 && mi > -1e-12 {
		mi = 0
	}
	if mi < 0 {
		return 0, &metric.InstabilityError{Kind: e.kind, Value: mi}
	}
	return mi, nil
}

// divergence applies the configured metric, falling back to JS when KL
// comes out unstable.
func (e *evaluator) divergence(p, q []float64, cards []int) (float64, error) {
	d, err := metric.Distance(p, q, e.kind, cards)
	if err != nil && e.kind == metric.KL && errors.Is(err, metric.ErrNumericalInstability) {
		return metric.Distance(p, q, metric.JS, cards)
	}
	return d, err
}

func subCards(subset, cards []int) []int {
	out := make([]int, len(subset))
	for i, e := range subset {
		out[i] = cards[e]
	}
	return out
}

// marginalize sums the joint distribution down to the subset's state
// space.
func marginalize(dist []float64, subset, cards []int) []float64 {
	out := make([]float64, system.SubCount(subset, cards))
	for s, p := range dist {
		if p == 0 {
			continue
		}
		values, _ := system.Decode(s, cards)
		out[system.SubIndex(values, subset, cards)] += p
	}
	return out
}

func entropy(p []float64) float64 {
	h := 0.0
	for _, v := range p {
		if v > 0 {
			h -= v * math.Log2(v)
		}
	}
	return h
}
