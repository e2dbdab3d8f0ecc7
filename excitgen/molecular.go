package excitgen

import (
	"math/rand/v2"

	"github.com/robertodr/hande/det"
	"github.com/robertodr/hande/hamil"
	"github.com/robertodr/hande/lattice"
)

// Molecular draws singles and doubles constrained by point-group symmetry.
// Singles are attempted with probability PSingle, doubles otherwise.
//
// With Renorm set the generator pre-scans for draws that cannot fail, at
// extra cost per attempt; without it forbidden draws are simply rejected as
// null. Both modes build their candidate lists by scanning the orbitals, so
// neither has O(1) generator cost.
//
// The doubles pgen accounts for both orderings of the virtual pair:
//
//	pgen = 2 p_double / (n_el (n_el-1) n_a(ij)) * (p(b|ija) + p(a|ijb))
type Molecular struct {
	H       *hamil.Molecular
	PSingle float64
	Renorm  bool

	open  []int
	candA []int
	candB []int
	candC []int
}

func NewMolecular(h *hamil.Molecular, pSingle float64, renorm bool) *Molecular {
	return &Molecular{H: h, PSingle: pSingle, Renorm: renorm}
}

func (g *Molecular) Gen(rng *rand.Rand, d det.Det, occ []int) Result {
	if rng.Float64() < g.PSingle {
		return g.single(rng, d, occ)
	}
	return g.double(rng, d, occ)
}

func (g *Molecular) single(rng *rand.Rand, d det.Det, occ []int) Result {
	var i int
	var pgen float64
	if g.Renorm {
		g.open = g.open[:0]
		for _, o := range occ {
			if len(g.singleTargets(d, o, g.candA)) > 0 {
				g.open = append(g.open, o)
			}
		}
		if len(g.open) == 0 {
			return null()
		}
		i = g.open[rng.IntN(len(g.open))]
		g.candA = g.singleTargets(d, i, g.candA)
		pgen = g.PSingle / float64(len(g.open)*len(g.candA))
	} else {
		i = occ[rng.IntN(len(occ))]
		g.candA = g.singleTargets(d, i, g.candA)
		if len(g.candA) == 0 {
			return null()
		}
		pgen = g.PSingle / float64(len(occ)*len(g.candA))
	}

	a := g.candA[rng.IntN(len(g.candA))]
	e := det.Single(d, i, a)
	return Result{
		Exc:     e,
		Dst:     det.Apply(d, e),
		HIJ:     g.H.SlaterCondon1(d, e),
		PGen:    pgen,
		Allowed: true,
	}
}

// singleTargets lists the symmetry-allowed unoccupied targets of occupied
// orbital i: same spin, same irreducible representation.
func (g *Molecular) singleTargets(d det.Det, i int, list []int) []int {
	list = list[:0]
	sym := g.H.OrbSym(i)
	alpha := lattice.IsAlpha(i)
	for s := 1; s <= g.H.Ints.NOrb; s++ {
		if g.H.Ints.OrbSym[s-1] != sym {
			continue
		}
		a := lattice.Beta(s)
		if alpha {
			a = lattice.Alpha(s)
		}
		if !d.Test(a) {
			list = append(list, a)
		}
	}
	return list
}

func (g *Molecular) double(rng *rand.Rand, d det.Det, occ []int) Result {
	nel := len(occ)
	if nel < 2 {
		return null()
	}
	// Lower-triangular decoding p = (j-1)(j-2)/2 + i with i < j.
	p := rng.IntN(nel*(nel-1)/2) + 1
	jj := 2
	for (jj-1)*jj/2 < p {
		jj++
	}
	ii := p - (jj-1)*(jj-2)/2
	i, j := occ[ii-1], occ[jj-1]

	symProd := g.H.PG.Mult(g.H.OrbSym(i), g.H.OrbSym(j))
	pairAlphas := 0
	if lattice.IsAlpha(i) {
		pairAlphas++
	}
	if lattice.IsAlpha(j) {
		pairAlphas++
	}

	g.candA = g.candA[:0]
	for a := 1; a <= g.H.NBasis(); a++ {
		if d.Test(a) || !spinAllowedFirst(pairAlphas, a) {
			continue
		}
		if g.Renorm && len(g.partners(d, symProd, pairAlphas, a, g.candC)) == 0 {
			continue
		}
		g.candA = append(g.candA, a)
	}
	if len(g.candA) == 0 {
		return null()
	}

	a := g.candA[rng.IntN(len(g.candA))]
	g.candB = g.partners(d, symProd, pairAlphas, a, g.candB)
	if len(g.candB) == 0 {
		return null()
	}
	b := g.candB[rng.IntN(len(g.candB))]
	nb := len(g.candB)
	// The same pair is reached drawing b first and a second.
	na2 := len(g.partners(d, symProd, pairAlphas, b, g.candC))

	pDouble := 1 - g.PSingle
	pgen := 2 * pDouble / float64(nel*(nel-1)) / float64(len(g.candA)) *
		(1/float64(nb) + 1/float64(na2))

	e := det.Double(d, i, j, a, b)
	return Result{
		Exc:     e,
		Dst:     det.Apply(d, e),
		HIJ:     g.H.SlaterCondon2(d, e),
		PGen:    pgen,
		Allowed: true,
	}
}

// partners lists the valid second virtuals once x is the first: unoccupied,
// distinct from x, carrying the complementary spin and the point-group label
// that closes the product to symProd.
func (g *Molecular) partners(d det.Det, symProd, pairAlphas int, x int, list []int) []int {
	list = list[:0]
	symY := g.H.PG.Mult(symProd, g.H.PG.Inv(g.H.OrbSym(x)))
	yAlpha := partnerAlpha(pairAlphas, lattice.IsAlpha(x))
	for s := 1; s <= g.H.Ints.NOrb; s++ {
		if g.H.Ints.OrbSym[s-1] != symY {
			continue
		}
		y := lattice.Beta(s)
		if yAlpha {
			y = lattice.Alpha(s)
		}
		if y != x && !d.Test(y) {
			list = append(list, y)
		}
	}
	return list
}

func spinAllowedFirst(pairAlphas int, a int) bool {
	switch pairAlphas {
	case 2:
		return lattice.IsAlpha(a)
	case 0:
		return !lattice.IsAlpha(a)
	default:
		return true
	}
}

func partnerAlpha(pairAlphas int, xAlpha bool) bool {
	switch pairAlphas {
	case 2:
		return true
	case 0:
		return false
	default:
		return !xAlpha
	}
}
