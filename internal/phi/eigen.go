package phi

import "math"

// jacobiEigenvalues computes the eigenvalues of a symmetric matrix by
// cyclic Jacobi rotations. Matrices here have one row per system element,
// so the O(n³) sweep cost never matters.
func jacobiEigenvalues(m [][]float64) []float64 {
	n := len(m)
	a := make([][]float64, n)
	for i := range a {
		a[i] = append([]float64(nil), m[i]...)
	}

	const (
		maxSweeps = 100
		tolerance = 1e-12
	)
	for sweep := 0; sweep < maxSweeps; sweep++ {
		off := 0.0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				off += a[i][j] * a[i][j]
			}
		}
		if off < tolerance {
			break
		}
		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				if math.Abs(a[p][q]) < tolerance/float64(n*n) {
					continue
				}
				theta := (a[q][q] - a[p][p]) / (2 * a[p][q])
				t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				c := 1 / math.Sqrt(t*t+1)
				s := t * c

				app, aqq, apq := a[p][p], a[q][q], a[p][q]
				a[p][p] = c*c*app - 2*s*c*apq + s*s*aqq
				a[q][q] = s*s*app + 2*s*c*apq + c*c*aqq
				a[p][q] = 0
				a[q][p] = 0
				for k := 0; k < n; k++ {
					if k == p || k == q {
						continue
					}
					akp, akq := a[k][p], a[k][q]
					a[k][p] = c*akp - s*akq
					a[p][k] = a[k][p]
					a[k][q] = s*akp + c*akq
					a[q][k] = a[k][q]
				}
			}
		}
	}

	eig := make([]float64, n)
	for i := 0; i < n; i++ {
		eig[i] = a[i][i]
	}
	return eig
}
