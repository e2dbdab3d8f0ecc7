package excitgen

import (
	"math/rand/v2"

	"github.com/robertodr/hande/det"
	"github.com/robertodr/hande/hamil"
)

// RealLattice draws single excitations along lattice bonds for the
// real-space Hubbard model. An occupied orbital is drawn uniformly and
// redrawn while all its neighbours are occupied; the target is drawn
// uniformly among the free neighbours, giving
// pgen = 1/(n_el * n_avail(i)).
type RealLattice struct {
	H *hamil.HubbardReal

	virt det.Det
}

// blockedScanAfter bounds the redraw loop: after this many blocked draws the
// determinant is scanned once, and if no occupied orbital has a free
// neighbour the attempt is abandoned as null.
const blockedScanAfter = 64

func NewRealLattice(h *hamil.HubbardReal) *RealLattice {
	return &RealLattice{H: h, virt: det.New(h.NBasis())}
}

func (g *RealLattice) Gen(rng *rand.Rand, d det.Det, occ []int) Result {
	for attempts := 0; ; attempts++ {
		if attempts == blockedScanAfter && !g.anyOpen(d, occ) {
			return null()
		}

		i := occ[rng.IntN(len(occ))]
		det.AndNot(g.virt, g.H.Lat.ConnectedOrbs[i], d)
		nv := g.virt.Count()
		if nv == 0 {
			continue
		}

		a := g.virt.NthSet(rng.IntN(nv))
		e := det.Single(d, i, a)
		return Result{
			Exc:     e,
			Dst:     det.Apply(d, e),
			HIJ:     g.H.SlaterCondon1(d, e),
			PGen:    1 / float64(len(occ)*nv),
			Allowed: true,
		}
	}
}

func (g *RealLattice) anyOpen(d det.Det, occ []int) bool {
	for _, i := range occ {
		det.AndNot(g.virt, g.H.Lat.ConnectedOrbs[i], d)
		if g.virt.Count() > 0 {
			return true
		}
	}
	return false
}
