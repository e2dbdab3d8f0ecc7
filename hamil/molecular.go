package hamil

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/robertodr/hande/det"
	"github.com/robertodr/hande/lattice"
	"github.com/robertodr/hande/symmetry"
)

// Molecular is a molecular system defined by its integrals and an Abelian
// point group. Spin-orbitals follow the alpha-odd, beta-even convention of
// the lattice systems: spatial orbital s owns 2s-1 and 2s.
type Molecular struct {
	Ints *Integrals
	PG   *symmetry.PointGroup

	nel int
}

func NewMolecular(ints *Integrals, pg *symmetry.PointGroup, nel int) (*Molecular, error) {
	if len(ints.OrbSym) != ints.NOrb {
		return nil, errors.Errorf("%d symmetry labels for %d orbitals", len(ints.OrbSym), ints.NOrb)
	}
	for _, s := range ints.OrbSym {
		if s < 0 || s >= pg.N() {
			return nil, errors.Errorf("symmetry label %d", s)
		}
	}
	if nel < 1 || nel > 2*ints.NOrb {
		return nil, errors.Errorf("%d electrons in %d spin-orbitals", nel, 2*ints.NOrb)
	}
	return &Molecular{Ints: ints, PG: pg, nel: nel}, nil
}

func (m *Molecular) NBasis() int { return 2 * m.Ints.NOrb }
func (m *Molecular) NEl() int    { return m.nel }

// OrbSym returns the point-group label of a spin-orbital.
func (m *Molecular) OrbSym(o int) int { return m.Ints.OrbSym[lattice.Site(o)-1] }

func (m *Molecular) Diag(d det.Det) float64 {
	occ := d.Occupied(make([]int, 0, m.nel))
	v := m.Ints.Ecore
	for oi, p := range occ {
		sp := lattice.Site(p)
		v += m.Ints.OneE(sp, sp)
		for _, q := range occ[:oi] {
			sq := lattice.Site(q)
			v += m.Ints.Chemist(sp, sp, sq, sq)
			if lattice.IsAlpha(p) == lattice.IsAlpha(q) {
				v -= m.Ints.Chemist(sp, sq, sq, sp)
			}
		}
	}
	return v
}

func (m *Molecular) SlaterCondon1(d det.Det, e det.Excit) float64 {
	i, a := e.From[0], e.To[0]
	if lattice.IsAlpha(i) != lattice.IsAlpha(a) {
		return 0
	}
	si, sa := lattice.Site(i), lattice.Site(a)

	v := m.Ints.OneE(si, sa)
	occ := d.Occupied(make([]int, 0, m.nel))
	for _, p := range occ {
		if p == i {
			continue
		}
		sp := lattice.Site(p)
		v += m.Ints.Chemist(si, sa, sp, sp)
		if lattice.IsAlpha(p) == lattice.IsAlpha(i) {
			v -= m.Ints.Chemist(si, sp, sp, sa)
		}
	}
	if e.Perm {
		v = -v
	}
	return v
}

func (m *Molecular) SlaterCondon2(d det.Det, e det.Excit) float64 {
	i, j := e.From[0], e.From[1]
	a, b := e.To[0], e.To[1]
	si, sj := lattice.Site(i), lattice.Site(j)
	sa, sb := lattice.Site(a), lattice.Site(b)

	var v float64
	if lattice.IsAlpha(i) == lattice.IsAlpha(a) && lattice.IsAlpha(j) == lattice.IsAlpha(b) {
		v += m.Ints.Chemist(si, sa, sj, sb)
	}
	if lattice.IsAlpha(i) == lattice.IsAlpha(b) && lattice.IsAlpha(j) == lattice.IsAlpha(a) {
		v -= m.Ints.Chemist(si, sb, sj, sa)
	}
	if e.Perm {
		v = -v
	}
	return v
}

// H2STO3G is molecular hydrogen in a minimal basis at its equilibrium bond
// length, with the canonical restricted Hartree-Fock orbital integrals. Its
// full configuration interaction ground state is -1.137 27 hartree.
func H2STO3G() *Molecular {
	pg, err := symmetry.NewPointGroup(2)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	ints := NewIntegrals(2, 0.713754, []int{0, 1})
	ints.SetOneE(1, 1, -1.252477)
	ints.SetOneE(2, 2, -0.475934)
	ints.SetChemist(1, 1, 1, 1, 0.674493)
	ints.SetChemist(2, 2, 2, 2, 0.697397)
	ints.SetChemist(1, 1, 2, 2, 0.663472)
	ints.SetChemist(1, 2, 1, 2, 0.181287)
	m, err := NewMolecular(ints, pg, 2)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return m
}
