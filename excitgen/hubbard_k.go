package excitgen

import (
	"math/rand/v2"

	"github.com/robertodr/hande/det"
	"github.com/robertodr/hande/hamil"
	"github.com/robertodr/hande/lattice"
)

// MomentumHubbard draws the opposite-spin double excitations of the
// momentum-space Hubbard model. The electron pair is an alpha drawn
// uniformly against a beta drawn uniformly; the first virtual is drawn
// uniformly from the set of virtuals whose momentum-and-spin-determined
// partner is also free, so the reported pgen is the exact outcome
// probability:
//
//	pgen = 2 / (n_alpha * n_beta * n_valid(ij))
//
// and pgens over the distinct outcomes of a fixed determinant sum to one.
type MomentumHubbard struct {
	H *hamil.HubbardK

	occA, occB []int
	valid      []int
}

func NewMomentumHubbard(h *hamil.HubbardK) *MomentumHubbard {
	return &MomentumHubbard{H: h}
}

func (g *MomentumHubbard) Gen(rng *rand.Rand, d det.Det, occ []int) Result {
	g.occA, g.occB = g.occA[:0], g.occB[:0]
	for _, o := range occ {
		if lattice.IsAlpha(o) {
			g.occA = append(g.occA, o)
		} else {
			g.occB = append(g.occB, o)
		}
	}
	if len(g.occA) == 0 || len(g.occB) == 0 {
		return null()
	}
	i := g.occA[rng.IntN(len(g.occA))]
	j := g.occB[rng.IntN(len(g.occB))]
	ksum := g.H.K.Mult(g.H.KIndex(i), g.H.KIndex(j))

	g.valid = g.valid[:0]
	for a := 1; a <= g.H.NBasis(); a++ {
		if d.Test(a) {
			continue
		}
		if !d.Test(g.partner(ksum, a)) {
			g.valid = append(g.valid, a)
		}
	}
	if len(g.valid) == 0 {
		return null()
	}

	a := g.valid[rng.IntN(len(g.valid))]
	b := g.partner(ksum, a)
	e := det.Double(d, i, j, a, b)
	return Result{
		Exc:     e,
		Dst:     det.Apply(d, e),
		HIJ:     g.H.SlaterCondon2(d, e),
		PGen:    2 / (float64(len(g.occA)*len(g.occB)) * float64(len(g.valid))),
		Allowed: true,
	}
}

// partner returns the second virtual fixed by crystal momentum conservation,
// k_b = k_i + k_j - k_a, carrying the spin opposite to a.
func (g *MomentumHubbard) partner(ksum, a int) int {
	kb := g.H.K.Mult(ksum, g.H.K.Inv(g.H.KIndex(a)))
	return g.H.Orbital(kb, !lattice.IsAlpha(a))
}
