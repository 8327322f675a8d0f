package phi

import (
	"fmt"
	"runtime"
	"time"

	"integra/internal/metric"
)

// Strategy selects how Φ is computed. Exact and Sampled search partitions
// and report a MIP; the others estimate Φ from connectivity structure
// alone.
type Strategy int

const (
	// Auto picks Exact up to ExactThreshold elements and the configured
	// approximation beyond it.
	Auto Strategy = iota
	Exact
	Geometric
	Spectral
	MeanField
	Tau
	Sampled
)

func (s Strategy) String() string {
	switch s {
	case Auto:
		return "auto"
	case Exact:
		return "exact"
	case Geometric:
		return "geometric"
	case Spectral:
		return "spectral"
	case MeanField:
		return "meanfield"
	case Tau:
		return "tau"
	case Sampled:
		return "sampled"
	default:
		return "unknown"
	}
}

// ParseStrategy maps a config string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "auto", "":
		return Auto, nil
	case "exact":
		return Exact, nil
	case "geometric":
		return Geometric, nil
	case "spectral":
		return Spectral, nil
	case "meanfield":
		return MeanField, nil
	case "tau":
		return Tau, nil
	case "sampled":
		return Sampled, nil
	default:
		return 0, fmt.Errorf("phi: unknown strategy %q", s)
	}
}

// Default tuning values. ExactThreshold is where auto-selection stops
// doing exhaustive search; the hard cap for forced exact search lives in
// the partition package.
const (
	DefaultExactThreshold   = 15
	DefaultNumSamples       = 1000
	DefaultMaxMechanismSize = 3
	DefaultMinPhiThreshold  = 1e-6
	DefaultCacheCapacity    = 4096
)

// Config tunes one measurement. The zero value is valid; Validate fills
// defaults in place.
type Config struct {
	// Strategy picks the computation method; Auto defers to
	// ExactThreshold and Approximation.
	Strategy Strategy

	// Approximation is the strategy Auto falls back to past
	// ExactThreshold. Must not be Auto or Exact.
	Approximation Strategy

	// ExactThreshold is the largest element count Auto still computes
	// exactly.
	ExactThreshold int

	// NumSamples is the number of random partitions for Sampled.
	NumSamples int

	// SampleSeed seeds the partition sampler. Zero means seed from the
	// current time.
	SampleSeed int64

	// MaxMechanismSize bounds mechanism subsets in concept analysis.
	MaxMechanismSize int

	// MinPhiThreshold is the smallest φ a concept must carry to be kept.
	MinPhiThreshold float64

	// Distance selects the repertoire divergence. The zero value is EMD.
	Distance metric.Kind

	// CacheCapacity bounds the per-measurement repertoire cache. Zero
	// means the default; negative disables caching.
	CacheCapacity int

	// Deadline bounds wall time for one measurement. Zero means none.
	Deadline time.Duration

	// Workers bounds search parallelism. Zero means GOMAXPROCS.
	Workers int

	// SkipNumericalErrors records per-partition failures as diagnostics
	// and keeps searching instead of failing fast.
	SkipNumericalErrors bool
}

// Validate fills defaults and rejects contradictory settings.
func (c *Config) Validate() error {
	if c.Approximation == 0 {
		c.Approximation = Geometric
	}
	switch c.Approximation {
	case Geometric, Spectral, MeanField, Tau, Sampled:
	default:
		return fmt.Errorf("phi: approximation must be an approximate strategy, got %s", c.Approximation)
	}
	if c.ExactThreshold == 0 {
		c.ExactThreshold = DefaultExactThreshold
	}
	if c.ExactThreshold < 2 {
		return fmt.Errorf("phi: exact threshold must be at least 2, got %d", c.ExactThreshold)
	}
	if c.NumSamples == 0 {
		c.NumSamples = DefaultNumSamples
	}
	if c.NumSamples < 1 {
		return fmt.Errorf("phi: num samples must be positive, got %d", c.NumSamples)
	}
	if c.SampleSeed == 0 {
		c.SampleSeed = time.Now().UnixNano()
	}
	if c.MaxMechanismSize == 0 {
		c.MaxMechanismSize = DefaultMaxMechanismSize
	}
	if c.MaxMechanismSize < 1 {
		return fmt.Errorf("phi: max mechanism size must be positive, got %d", c.MaxMechanismSize)
	}
	if c.MinPhiThreshold == 0 {
		c.MinPhiThreshold = DefaultMinPhiThreshold
	}
	switch c.Distance {
	case metric.EMD, metric.L1, metric.KL, metric.JS:
	default:
		return fmt.Errorf("phi: unknown distance kind %d", c.Distance)
	}
	if c.CacheCapacity == 0 {
		c.CacheCapacity = DefaultCacheCapacity
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Workers < 1 {
		return fmt.Errorf("phi: workers must be positive, got %d", c.Workers)
	}
	return nil
}
