// Package symmetry provides the Abelian symmetry tables of lattice and
// molecular Hamiltonians: the point-group cross-product table and the
// translation group of a periodic supercell.
package symmetry

import (
	"math/bits"

	"github.com/pkg/errors"
)

// Table is an Abelian group on the labels 0..N()-1.
type Table interface {
	N() int
	Mult(i, j int) int
	Inv(i int) int
}

// PointGroup is a real Abelian point group (D2h or one of its subgroups).
// Irreducible representation labels multiply by XOR and every element is its
// own inverse.
type PointGroup struct {
	nsym int
}

func NewPointGroup(nsym int) (*PointGroup, error) {
	if nsym < 1 || nsym > 8 || bits.OnesCount(uint(nsym)) != 1 {
		return nil, errors.Errorf("%d", nsym)
	}
	return &PointGroup{nsym: nsym}, nil
}

func (g *PointGroup) N() int            { return g.nsym }
func (g *PointGroup) Mult(i, j int) int { return i ^ j }
func (g *PointGroup) Inv(i int) int     { return i }

// KTable is the translation group of a periodic supercell. Element i is the
// wavevector of basis function i, in the same site ordering as the lattice
// tables; products add wavevectors modulo the reciprocal lattice.
type KTable struct {
	dims []int
	vecs [][3]int
	idx  map[[3]int]int
}

func NewKTable(dims []int) (*KTable, error) {
	if len(dims) < 1 || len(dims) > 3 {
		return nil, errors.Errorf("%d dimensions", len(dims))
	}
	n := 1
	for _, l := range dims {
		if l < 1 {
			return nil, errors.Errorf("%v", dims)
		}
		n *= l
	}

	t := &KTable{
		dims: append([]int(nil), dims...),
		vecs: make([][3]int, n),
		idx:  make(map[[3]int]int, n),
	}
	for i := 0; i < n; i++ {
		s := i
		var v [3]int
		for k := len(dims) - 1; k >= 0; k-- {
			v[k] = s % dims[k]
			s /= dims[k]
		}
		t.vecs[i] = v
		t.idx[v] = i
	}
	return t, nil
}

func (t *KTable) N() int { return len(t.vecs) }

// Vec returns the integer wavevector of element i.
func (t *KTable) Vec(i int) [3]int { return t.vecs[i] }

func (t *KTable) Mult(i, j int) int {
	v := t.vecs[i]
	for k, l := range t.dims {
		v[k] = (v[k] + t.vecs[j][k]) % l
	}
	return t.idx[v]
}

func (t *KTable) Inv(i int) int {
	v := t.vecs[i]
	for k, l := range t.dims {
		v[k] = (l - v[k]) % l
	}
	return t.idx[v]
}
