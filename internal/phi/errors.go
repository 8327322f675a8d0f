package phi

import (
	"errors"
	"fmt"
)

// ErrSystemTooLarge reports a system past the hard cap for the requested
// exact computation.
var ErrSystemTooLarge = errors.New("system too large")

// SizeError carries the offending and maximum element counts.
type SizeError struct {
	Size int
	Max  int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("system of %d elements exceeds the exact-computation cap of %d", e.Size, e.Max)
}

func (e *SizeError) Is(target error) bool { return target == ErrSystemTooLarge }

// ErrCancelled reports that the measurement's context expired before the
// search finished. A cancelled search never yields a partial Φ.
var ErrCancelled = errors.New("computation cancelled")

// ErrConnectivityRequired reports an approximation strategy applied to a
// model without a connectivity matrix. This is a configuration error, not
// a numerical one.
var ErrConnectivityRequired = errors.New("connectivity matrix required")
