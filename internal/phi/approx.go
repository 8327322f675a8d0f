package phi

import (
	"fmt"
	"math"

	"integra/internal/system"
)

// approximate estimates Φ from the connectivity matrix alone. No
// partition search happens, so no MIP is reported.
func approximate(m *system.ProbabilityModel, strategy Strategy) (*Result, error) {
	if m.Connectivity == nil {
		return nil, fmt.Errorf("%w: %s approximation needs structure", ErrConnectivityRequired, strategy)
	}
	var phi float64
	switch strategy {
	case Geometric:
		phi = geometricPhi(m.Connectivity)
	case Spectral:
		phi = spectralPhi(m.Connectivity)
	case MeanField:
		phi = meanFieldPhi(m)
	case Tau:
		phi = tauPhi(m.Connectivity)
	default:
		return nil, fmt.Errorf("phi: %s is not an approximation strategy", strategy)
	}
	return &Result{Phi: phi, Method: strategy}, nil
}

// geometricPhi averages the geometric mean of each element's in- and
// out-degree. An element that only sends or only receives contributes
// nothing, which is the point: integration needs both.
func geometricPhi(conn [][]bool) float64 {
	n := len(conn)
	sum := 0.0
	for i := 0; i < n; i++ {
		in, out := 0, 0
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if conn[i][j] {
				out++
			}
			if conn[j][i] {
				in++
			}
		}
		sum += math.Sqrt(float64(in * out))
	}
	return sum / float64(n)
}

// spectralPhi returns the spectral spread, λmax − λmin, of the normalized
// Laplacian of the symmetrized connectivity graph.
func spectralPhi(conn [][]bool) float64 {
	n := len(conn)
	adj := make([][]float64, n)
	deg := make([]float64, n)
	for i := range adj {
		adj[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && (conn[i][j] || conn[j][i]) {
				adj[i][j] = 1
				deg[i]++
			}
		}
	}

	lap := make([][]float64, n)
	for i := range lap {
		lap[i] = make([]float64, n)
		lap[i][i] = 1
		if deg[i] == 0 {
			// Isolated vertex: Laplacian row is just the identity entry.
			continue
		}
		for j := 0; j < n; j++ {
			if i != j && adj[i][j] > 0 && deg[j] > 0 {
				lap[i][j] = -adj[i][j] / math.Sqrt(deg[i]*deg[j])
			}
		}
	}

	eig := jacobiEigenvalues(lap)
	lo, hi := eig[0], eig[0]
	for _, v := range eig[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return hi - lo
}

// meanFieldPhi is the Landau-style estimate N·m̄·c·(1−m̄): activation m̄
// is the mean normalized element state and c the off-diagonal connection
// density.
func meanFieldPhi(m *system.ProbabilityModel) float64 {
	n := m.N()
	activation := 0.0
	for i, e := range m.Elements {
		if e.Cardinality > 1 {
			activation += float64(m.CurrentState[i]) / float64(e.Cardinality-1)
		}
	}
	activation /= float64(n)

	links, possible := 0, n*(n-1)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && m.Connectivity[i][j] {
				links++
			}
		}
	}
	coupling := 0.0
	if possible > 0 {
		coupling = float64(links) / float64(possible)
	}
	return float64(n) * activation * coupling * (1 - activation)
}

// tauPhi is the fraction of element pairs coupled in both directions.
func tauPhi(conn [][]bool) float64 {
	n := len(conn)
	if n < 2 {
		return 0
	}
	bidirectional := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if conn[i][j] && conn[j][i] {
				bidirectional++
			}
		}
	}
	return float64(bidirectional) / float64(n*(n-1)/2)
}
