package phi

import (
	"time"

	"integra/internal/partition"
)

// Result is the outcome of one Φ measurement.
type Result struct {
	// Phi is the integrated information value, ≥ 0.
	Phi float64 `json:"phi"`

	// Method is the strategy that actually ran, never Auto.
	Method Strategy `json:"method"`

	// MIP is the minimum information partition. Nil for approximation
	// strategies, which do not search partitions.
	MIP *partition.Partition `json:"mip,omitempty"`

	// PartitionsEvaluated counts the partitions whose loss was computed.
	PartitionsEvaluated int `json:"partitions_evaluated"`

	// Elapsed is the wall time of the measurement.
	Elapsed time.Duration `json:"elapsed"`

	// Diagnostics holds per-partition failures recorded in skip mode.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Diagnostic records one partition whose loss could not be computed when
// SkipNumericalErrors is on.
type Diagnostic struct {
	Partition partition.Partition `json:"partition"`
	Err       string              `json:"error"`
}
