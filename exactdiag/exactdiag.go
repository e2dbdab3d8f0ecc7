// Package exactdiag is the deterministic companion of the walker engine: it
// enumerates the determinant space of a model Hamiltonian, assembles the
// sparse matrix, and diagonalises it exactly or through a Lanczos
// projection.
package exactdiag

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/robertodr/hande/csr"
	"github.com/robertodr/hande/det"
	"github.com/robertodr/hande/hamil"
)

// Space enumerates all determinants with nalpha alpha and nbeta beta
// electrons in nbasis spin-orbitals, in a deterministic order.
func Space(nbasis, nalpha, nbeta int) []det.Det {
	nsites := nbasis / 2
	alphas := combinations(nsites, nalpha)
	betas := combinations(nsites, nbeta)

	dets := make([]det.Det, 0, len(alphas)*len(betas))
	for _, ac := range alphas {
		for _, bc := range betas {
			d := det.New(nbasis)
			for _, s := range ac {
				d.Set(2*s - 1)
			}
			for _, s := range bc {
				d.Set(2 * s)
			}
			dets = append(dets, d)
		}
	}
	return dets
}

// combinations lists the k-subsets of 1..n in lexicographic order.
func combinations(n, k int) [][]int {
	if k == 0 {
		return [][]int{{}}
	}
	out := make([][]int, 0)
	var rec func(start int, cur []int)
	rec = func(start int, cur []int) {
		if len(cur) == k {
			out = append(out, append([]int(nil), cur...))
			return
		}
		for s := start; s <= n-(k-len(cur))+1; s++ {
			rec(s+1, append(cur, s))
		}
	}
	rec(1, make([]int, 0, k))
	return out
}

// Hamiltonian assembles the upper triangle of <Di|H|Dj> over dets into
// symmetric CSR storage.
func Hamiltonian(sys hamil.System, dets []det.Det) (*csr.Matrix, error) {
	if len(dets) == 0 {
		return nil, errors.Errorf("empty determinant space")
	}
	b := csr.NewBuilder(len(dets), true)
	for i := range dets {
		for j := i; j < len(dets); j++ {
			if det.Level(dets[i], dets[j]) > 2 {
				continue
			}
			if v := hamil.Element(sys, dets[i], dets[j]); v != 0 {
				b.Add(i, j, v)
			}
		}
	}
	return b.Build(), nil
}

// Eigen densely diagonalises a symmetric CSR matrix, returning the
// eigenvalues in ascending order and the eigenvectors as columns.
func Eigen(m *csr.Matrix) ([]float64, *mat.Dense, error) {
	if !m.Symmetric {
		return nil, nil, errors.Errorf("not symmetric")
	}
	n := m.NRows
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for p := m.RowPtr[i]; p < m.RowPtr[i+1]; p++ {
			sym.SetSym(i, m.ColInd[p], m.Values[p])
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return nil, nil, errors.Errorf("factorization failed")
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	return vals, &vecs, nil
}
