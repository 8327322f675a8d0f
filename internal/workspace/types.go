package workspace

import (
	"fmt"
	"time"

	"integra/internal/metric"
	"integra/internal/phi"
	"integra/internal/system"
)

// SystemDescription is one system description: the elements, their current state,
// and either a transition matrix or a joint probability vector, plus
// optional measurement options.
type SystemDescription struct {
	Name          string      `yaml:"name" json:"name"`
	Cardinalities []int       `yaml:"cardinalities" json:"cardinalities"`
	State         []int       `yaml:"state" json:"state"`
	TPM           [][]float64 `yaml:"tpm,omitempty" json:"tpm,omitempty"`
	Connectivity  [][]bool    `yaml:"connectivity,omitempty" json:"connectivity,omitempty"`
	Probabilities []float64   `yaml:"probabilities,omitempty" json:"probabilities,omitempty"`
	Options       Options     `yaml:"options,omitempty" json:"options,omitempty"`
}

// Options maps the file-level measurement settings onto a phi.Config.
type Options struct {
	Strategy            string  `yaml:"strategy,omitempty" json:"strategy,omitempty"`
	Approximation       string  `yaml:"approximation,omitempty" json:"approximation,omitempty"`
	Distance            string  `yaml:"distance,omitempty" json:"distance,omitempty"`
	ExactThreshold      int     `yaml:"exact_threshold,omitempty" json:"exact_threshold,omitempty"`
	NumSamples          int     `yaml:"num_samples,omitempty" json:"num_samples,omitempty"`
	SampleSeed          int64   `yaml:"sample_seed,omitempty" json:"sample_seed,omitempty"`
	MaxMechanismSize    int     `yaml:"max_mechanism_size,omitempty" json:"max_mechanism_size,omitempty"`
	MinPhiThreshold     float64 `yaml:"min_phi_threshold,omitempty" json:"min_phi_threshold,omitempty"`
	CacheCapacity       int     `yaml:"cache_capacity,omitempty" json:"cache_capacity,omitempty"`
	DeadlineMS          int64   `yaml:"deadline_ms,omitempty" json:"deadline_ms,omitempty"`
	Workers             int     `yaml:"workers,omitempty" json:"workers,omitempty"`
	SkipNumericalErrors bool    `yaml:"skip_numerical_errors,omitempty" json:"skip_numerical_errors,omitempty"`
}

// Model adapts the description into the canonical probability model. A
// description must carry exactly one of tpm or probabilities.
func (d *SystemDescription) Model() (*system.ProbabilityModel, error) {
	if len(d.Cardinalities) == 0 {
		return nil, fmt.Errorf("workspace: %q has no cardinalities", d.Name)
	}
	hasTPM := len(d.TPM) > 0
	hasProbs := len(d.Probabilities) > 0
	if hasTPM == hasProbs {
		return nil, fmt.Errorf("workspace: %q must carry exactly one of tpm or probabilities", d.Name)
	}

	state := d.State
	if state == nil {
		state = make([]int, len(d.Cardinalities))
	}

	var m *system.ProbabilityModel
	var err error
	if hasTPM {
		m, err = system.AdaptTransition(d.TPM, d.Connectivity, state, d.Cardinalities)
	} else {
		m, err = system.AdaptDistribution(d.Probabilities, d.Cardinalities, state)
	}
	if err != nil {
		return nil, fmt.Errorf("workspace: %q: %w", d.Name, err)
	}
	m.Name = d.Name
	return m, nil
}

// PhiConfig translates the description's options into an engine config.
// Validation and defaulting are left to the engine.
func (d *SystemDescription) PhiConfig() (phi.Config, error) {
	strategy, err := phi.ParseStrategy(d.Options.Strategy)
	if err != nil {
		return phi.Config{}, err
	}
	var approximation phi.Strategy
	if d.Options.Approximation != "" {
		approximation, err = phi.ParseStrategy(d.Options.Approximation)
		if err != nil {
			return phi.Config{}, err
		}
	}
	distance, err := metric.ParseKind(d.Options.Distance)
	if err != nil {
		return phi.Config{}, err
	}
	return phi.Config{
		Strategy:            strategy,
		Approximation:       approximation,
		ExactThreshold:      d.Options.ExactThreshold,
		NumSamples:          d.Options.NumSamples,
		SampleSeed:          d.Options.SampleSeed,
		MaxMechanismSize:    d.Options.MaxMechanismSize,
		MinPhiThreshold:     d.Options.MinPhiThreshold,
		Distance:            distance,
		CacheCapacity:       d.Options.CacheCapacity,
		Deadline:            time.Duration(d.Options.DeadlineMS) * time.Millisecond,
		Workers:             d.Options.Workers,
		SkipNumericalErrors: d.Options.SkipNumericalErrors,
	}, nil
}
