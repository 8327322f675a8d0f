// Package metric computes divergences between probability distributions
// over joint state spaces. L1 and EMD are halved so that both report
// total-variation-scaled values; KL and JS are in bits.
package metric

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"integra/internal/system"
)

// klEpsilon is the smoothing mass added per bin before a KL computation so
// that disjoint supports do not produce infinities.
const klEpsilon = 1e-9

// Kind selects a distance metric. EMD is the zero value: it is the
// default repertoire divergence.
type Kind int

const (
	EMD Kind = iota
	L1
	KL
	JS
)

func (k Kind) String() string {
	switch k {
	case L1:
		return "l1"
	case KL:
		return "kl"
	case JS:
		return "js"
	case EMD:
		return "emd"
	default:
		return "unknown"
	}
}

// ParseKind maps a config string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "emd", "":
		return EMD, nil
	case "l1":
		return L1, nil
	case "kl":
		return KL, nil
	case "js":
		return JS, nil
	default:
		return 0, fmt.Errorf("metric: unknown distance kind %q", s)
	}
}

// ErrNumericalInstability marks a divergence that came out NaN or infinite
// even after smoothing. Callers fall back to JS rather than report a
// fabricated value.
var ErrNumericalInstability = errors.New("numerical instability")

// InstabilityError carries the metric and offending value.
type InstabilityError struct {
	Kind  Kind
	Value float64
}

func (e *InstabilityError) Error() string {
	return fmt.Sprintf("%s divergence is not finite: %v", e.Kind, e.Value)
}

func (e *InstabilityError) Is(target error) bool { return target == ErrNumericalInstability }

// Distance computes the divergence between p and q under the given kind.
// The distributions must be the same length. cards is the per-element
// cardinality vector of the state space; EMD requires it for the Hamming
// ground metric and the others ignore it.
func Distance(p, q []float64, kind Kind, cards []int) (float64, error) {
	if len(p) != len(q) {
		return 0, fmt.Errorf("metric: length mismatch %d vs %d", len(p), len(q))
	}
	if len(p) == 0 {
		return 0, fmt.Errorf("metric: empty distributions")
	}
	var d float64
	var err error
	switch kind {
	case EMD:
		d, err = emd(p, q, cards)
		if err != nil {
			return 0, err
		}
	case L1:
		d = l1(p, q)
	case KL:
		d = kl(smooth(p), smooth(q))
	case JS:
		d = js(p, q)
	default:
		return 0, fmt.Errorf("metric: unknown kind %d", kind)
	}
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, &InstabilityError{Kind: kind, Value: d}
	}
	return d, nil
}

func l1(p, q []float64) float64 {
	sum := 0.0
	for i := range p {
		sum += math.Abs(p[i] - q[i])
	}
	return sum / 2
}

// smooth adds klEpsilon per bin and renormalizes, so zero bins carry a
// sliver of mass instead of blowing up the log.
func smooth(p []float64) []float64 {
	out := make([]float64, len(p))
	total := 0.0
	for i, v := range p {
		out[i] = v + klEpsilon
		total += out[i]
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

func kl(p, q []float64) float64 {
	sum := 0.0
	for i := range p {
		if p[i] > 0 {
			sum += p[i] * math.Log2(p[i]/q[i])
		}
	}
	return sum
}

// js is symmetric and bounded in [0,1] bits; it never needs smoothing
// because the mixture dominates both inputs.
func js(p, q []float64) float64 {
	m := make([]float64, len(p))
	for i := range p {
		m[i] = (p[i] + q[i]) / 2
	}
	return (klAgainst(p, m) + klAgainst(q, m)) / 2
}

func klAgainst(p, m []float64) float64 {
	sum := 0.0
	for i := range p {
		if p[i] > 0 && m[i] > 0 {
			sum += p[i] * math.Log2(p[i]/m[i])
		}
	}
	return sum
}

// emd computes an earth mover's distance with Hamming ground metric over
// the mixed-radix state vectors, by greedy transport: mass moves between
// the closest surplus/deficit pairs first. Halved so a full swap between
// two adjacent states costs the same as its L1 distance.
func emd(p, q []float64, cards []int) (float64, error) {
	if system.StateCount(cards) != len(p) {
		return 0, fmt.Errorf("metric: cardinalities %v describe %d states, distributions have %d", cards, system.StateCount(cards), len(p))
	}
	type node struct {
		idx  int
		mass float64
	}
	var surplus, deficit []node
	for i := range p {
		diff := p[i] - q[i]
		switch {
		case diff > 1e-15:
			surplus = append(surplus, node{i, diff})
		case diff < -1e-15:
			deficit = append(deficit, node{i, -diff})
		}
	}
	if len(surplus) == 0 {
		return 0, nil
	}

	vectors := make([][]int, len(p))
	hamming := func(a, b int) int {
		if vectors[a] == nil {
			vectors[a], _ = system.Decode(a, cards)
		}
		if vectors[b] == nil {
			vectors[b], _ = system.Decode(b, cards)
		}
		d := 0
		for k := range vectors[a] {
			if vectors[a][k] != vectors[b][k] {
				d++
			}
		}
		return d
	}

	type pair struct {
		s, d int
		dist int
	}
	pairs := make([]pair, 0, len(surplus)*len(deficit))
	for si := range surplus {
		for di := range deficit {
			pairs = append(pairs, pair{si, di, hamming(surplus[si].idx, deficit[di].idx)})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].dist < pairs[j].dist })

	work := 0.0
	for _, pr := range pairs {
		s, d := &surplus[pr.s], &deficit[pr.d]
		if s.mass <= 0 || d.mass <= 0 {
			continue
		}
		moved := math.Min(s.mass, d.mass)
		work += moved * float64(pr.dist)
		s.mass -= moved
		d.mass -= moved
	}
	return work / 2, nil
}
