// Package store persists measurement history. The engine itself is
// stateless; only the CLI records runs here.
package store

import (
	"integra/internal/phi"
)

// Run is one recorded measurement.
type Run struct {
	ID                  string  `json:"id"`
	CreatedAt           string  `json:"created_at"`
	System              string  `json:"system"`
	Phi                 float64 `json:"phi"`
	Method              string  `json:"method"`
	MIP                 string  `json:"mip,omitempty"`
	PartitionsEvaluated int     `json:"partitions_evaluated"`
	ElapsedMS           int64   `json:"elapsed_ms"`
}

// NewRun serializes a measurement result into a record. The caller
// supplies the identifier so the store stays free of policy.
func NewRun(id, createdAt, systemName string, res *phi.Result) Run {
	run := Run{
		ID:                  id,
		CreatedAt:           createdAt,
		System:              systemName,
		Phi:                 res.Phi,
		Method:              res.Method.String(),
		PartitionsEvaluated: res.PartitionsEvaluated,
		ElapsedMS:           res.Elapsed.Milliseconds(),
	}
	if res.MIP != nil {
		run.MIP = res.MIP.String()
	}
	return run
}

// Store is the measurement history interface.
type Store interface {
	SaveRun(run Run) error
	ListRuns(limit int) ([]Run, error)
	Close() error
}
