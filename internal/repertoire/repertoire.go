// Package repertoire computes cause and effect repertoires: probability
// distributions over a purview's states conditioned on a mechanism held at
// fixed values. A Calculator is bound to one model and one cache for the
// lifetime of a measurement.
package repertoire

import (
	"errors"
	"fmt"

	"integra/internal/system"
)

// Direction distinguishes cause (backward) from effect (forward) analysis.
type Direction int

const (
	Cause Direction = iota
	Effect
)

func (d Direction) String() string {
	if d == Cause {
		return "cause"
	}
	return "effect"
}

// ErrDirectionUnsupported reports a cause-side query against a model that
// only supports forward analysis, such as one built from a bare
// probability vector with no transition kernel.
var ErrDirectionUnsupported = errors.New("direction unsupported for this model")

// Calculator computes repertoires for one model. Safe for concurrent
// use: the model is read-only and the cache guards itself.
type Calculator struct {
	model *system.ProbabilityModel
	cards []int
	cache *Cache
}

// NewCalculator binds a calculator to a model. cache may be nil to disable
// caching.
func NewCalculator(m *system.ProbabilityModel, cache *Cache) *Calculator {
	return &Calculator{model: m, cards: m.Cardinalities(), cache: cache}
}

// Unconstrained returns the maximum-entropy repertoire over the purview.
func (c *Calculator) Unconstrained(purview []int) []float64 {
	n := system.SubCount(purview, c.cards)
	out := make([]float64, n)
	for i := range out {
		out[i] = 1.0 / float64(n)
	}
	return out
}

// Effect returns the effect repertoire of the mechanism at its current
// state over the purview.
func (c *Calculator) Effect(mechanism, purview []int) ([]float64, error) {
	return c.EffectAt(mechanism, c.stateOf(mechanism), purview)
}

// EffectAt returns the purview's next-state distribution given the
// mechanism clamped to the given values, with every other element
// maximally perturbed. For distribution models it is the conditional
// marginal of the joint distribution instead.
func (c *Calculator) EffectAt(mechanism, values, purview []int) ([]float64, error) {
	if err := c.check(mechanism, values, purview); err != nil {
		return nil, err
	}
	if hit, ok := c.lookup(Effect, mechanism, values, purview); ok {
		return hit, nil
	}

	var out []float64
	if c.model.Kind == system.Distribution {
		out = c.conditionalMarginal(mechanism, values, purview)
	} else {
		out = c.effectFromTPM(mechanism, values, purview)
	}
	c.store(Effect, mechanism, values, purview, out)
	return out, nil
}

// Cause returns the cause repertoire of the mechanism at its current
// state over the purview.
func (c *Calculator) Cause(mechanism, purview []int) ([]float64, error) {
	return c.CauseAt(mechanism, c.stateOf(mechanism), purview)
}

// CauseAt returns the distribution over the purview's past states that
// could have produced the mechanism's given values, by Bayes over a
// uniform prior through the transition kernel.
func (c *Calculator) CauseAt(mechanism, values, purview []int) ([]float64, error) {
	if c.model.ForwardOnly || c.model.TPM == nil {
		return nil, fmt.Errorf("%w: %s model has no transition kernel", ErrDirectionUnsupported, c.model.Kind)
	}
	if err := c.check(mechanism, values, purview); err != nil {
		return nil, err
	}
	if hit, ok := c.lookup(Cause, mechanism, values, purview); ok {
		return hit, nil
	}

	total := c.model.StateCount()
	out := make([]float64, system.SubCount(purview, c.cards))
	for s := 0; s < total; s++ {
		past, _ := system.Decode(s, c.cards)
		likelihood := 0.0
		for sp, p := range c.model.TPM[s] {
			if p == 0 {
				continue
			}
			next, _ := system.Decode(sp, c.cards)
			if matches(next, mechanism, values) {
				likelihood += p
			}
		}
		out[system.SubIndex(past, purview, c.cards)] += likelihood
	}
	normalizeOrUniform(out)
	c.store(Cause, mechanism, values, purview, out)
	return out, nil
}

// effectFromTPM averages the transition kernel over every input state
// compatible with the clamped mechanism and marginalizes the output to
// the purview.
func (c *Calculator) effectFromTPM(mechanism, values, purview []int) []float64 {
	total := c.model.StateCount()
	out := make([]float64, system.SubCount(purview, c.cards))
	compatible := 0
	for s := 0; s < total; s++ {
		in, _ := system.Decode(s, c.cards)
		if !matches(in, mechanism, values) {
			continue
		}
		compatible++
		for sp, p := range c.model.TPM[s] {
			if p == 0 {
				continue
			}
			next, _ := system.Decode(sp, c.cards)
			out[system.SubIndex(next, purview, c.cards)] += p
		}
	}
	if compatible > 0 {
		for i := range out {
			out[i] /= float64(compatible)
		}
	}
	normalizeOrUniform(out)
	return out
}

// conditionalMarginal conditions the joint distribution on the mechanism's
// values and marginalizes to the purview. Zero conditional mass falls back
// to uniform: no probability flow means no causal constraint.
func (c *Calculator) conditionalMarginal(mechanism, values, purview []int) []float64 {
	out := make([]float64, system.SubCount(purview, c.cards))
	for s, p := range c.model.Dist {
		if p == 0 {
			continue
		}
		joint, _ := system.Decode(s, c.cards)
		if !matches(joint, mechanism, values) {
			continue
		}
		out[system.SubIndex(joint, purview, c.cards)] += p
	}
	normalizeOrUniform(out)
	return out
}

func (c *Calculator) stateOf(mechanism []int) []int {
	values := make([]int, len(mechanism))
	for i, e := range mechanism {
		values[i] = c.model.CurrentState[e]
	}
	return values
}

func (c *Calculator) check(mechanism, values, purview []int) error {
	if len(values) != len(mechanism) {
		return fmt.Errorf("repertoire: %d values for %d mechanism elements", len(values), len(mechanism))
	}
	n := c.model.N()
	for i, e := range mechanism {
		if e < 0 || e >= n {
			return fmt.Errorf("repertoire: mechanism element %d out of range", e)
		}
		if values[i] < 0 || values[i] >= c.cards[e] {
			return fmt.Errorf("repertoire: value %d out of range for element %d", values[i], e)
		}
	}
	if len(purview) == 0 {
		return fmt.Errorf("repertoire: empty purview")
	}
	for _, e := range purview {
		if e < 0 || e >= n {
			return fmt.Errorf("repertoire: purview element %d out of range", e)
		}
	}
	return nil
}

func (c *Calculator) lookup(dir Direction, mechanism, values, purview []int) ([]float64, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(key(dir, mechanism, values, purview))
}

func (c *Calculator) store(dir Direction, mechanism, values, purview []int, dist []float64) {
	if c.cache != nil {
		c.cache.Put(key(dir, mechanism, values, purview), dist)
	}
}

func matches(joint, subset, values []int) bool {
	for i, e := range subset {
		if joint[e] != values[i] {
			return false
		}
	}
	return true
}

// normalizeOrUniform rescales to unit mass in place, or fills with the
// uniform distribution when there is no mass at all.
func normalizeOrUniform(p []float64) {
	sum := 0.0
	for _, v := range p {
		sum += v
	}
	if sum <= 0 {
		for i := range p {
			p[i] = 1.0 / float64(len(p))
		}
		return
	}
	for i := range p {
		p[i] /= sum
	}
}

func key(dir Direction, mechanism, values, purview []int) string {
	return fmt.Sprintf("%d|%v|%v|%v", dir, mechanism, values, purview)
}
