package exactdiag

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/robertodr/hande/csr"
)

// GroundState runs the Lanczos iteration on a symmetric CSR matrix and
// returns the lowest eigenvalue with its eigenvector. The Krylov basis is
// fully reorthogonalised, which is affordable at the subspace sizes the
// companion targets.
func GroundState(m *csr.Matrix, rng *rand.Rand, maxIter int, tol float64) (float64, []float64, error) {
	if !m.Symmetric {
		return 0, nil, errors.Errorf("not symmetric")
	}
	n := m.NRows
	if maxIter < 1 {
		return 0, nil, errors.Errorf("%d iterations", maxIter)
	}
	if maxIter > n {
		maxIter = n
	}

	basis := make([][]float64, 0, maxIter)
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.Float64()*2 - 1
	}
	normalize(v)
	basis = append(basis, append([]float64(nil), v...))

	alphas := make([]float64, 0, maxIter)
	betas := make([]float64, 0, maxIter)
	w := make([]float64, n)
	prev := math.Inf(1)
	for k := 0; k < maxIter; k++ {
		if err := m.MulVecSymParallel(basis[k], w); err != nil {
			return 0, nil, errors.Wrap(err, "")
		}
		alphas = append(alphas, dot(basis[k], w))

		// Full reorthogonalisation against the Krylov basis.
		for _, u := range basis {
			c := dot(u, w)
			for i := range w {
				w[i] -= c * u[i]
			}
		}
		beta := math.Sqrt(dot(w, w))

		theta, _ := tridiagGround(alphas, betas)
		if beta < 1e-12 || math.Abs(theta-prev) < tol {
			break
		}
		prev = theta

		if k+1 < maxIter {
			betas = append(betas, beta)
			for i := range w {
				w[i] /= beta
			}
			basis = append(basis, append([]float64(nil), w...))
		}
	}

	theta, y := tridiagGround(alphas, betas)
	x := make([]float64, n)
	for k, u := range basis[:len(y)] {
		for i := range x {
			x[i] += y[k] * u[i]
		}
	}
	normalize(x)
	return theta, x, nil
}

// tridiagGround diagonalises the Lanczos tridiagonal matrix and returns its
// lowest eigenpair in the Krylov basis.
func tridiagGround(alphas, betas []float64) (float64, []float64) {
	k := len(alphas)
	if k == 1 {
		return alphas[0], []float64{1}
	}
	tri := mat.NewSymDense(k, nil)
	for i, a := range alphas {
		tri.SetSym(i, i, a)
		if i < len(betas) {
			tri.SetSym(i, i+1, betas[i])
		}
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(tri, true); !ok {
		panic("factorization failed")
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	y := make([]float64, k)
	for i := range y {
		y[i] = vecs.At(i, 0)
	}
	return vals[0], y
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func normalize(v []float64) {
	norm := math.Sqrt(dot(v, v))
	for i := range v {
		v[i] /= norm
	}
}
