package hamil

import (
	"math"

	"github.com/pkg/errors"

	"github.com/robertodr/hande/det"
	"github.com/robertodr/hande/lattice"
	"github.com/robertodr/hande/symmetry"
)

// HubbardK is the Hubbard model in the momentum-space Bloch basis. The
// kinetic term is diagonal and the interaction connects determinants only
// through opposite-spin double excitations conserving crystal momentum:
// <ij|ab> = U/N delta(k_i+k_j, k_a+k_b).
type HubbardK struct {
	T, U float64
	K    *symmetry.KTable

	nel int
	eps []float64
}

func NewHubbardK(t, u float64, dims []int, nel int) (*HubbardK, error) {
	kt, err := symmetry.NewKTable(dims)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	if nel < 1 || nel > 2*kt.N() {
		return nil, errors.Errorf("%d electrons in %d spin-orbitals", nel, 2*kt.N())
	}

	h := &HubbardK{T: t, U: u, K: kt, nel: nel, eps: make([]float64, kt.N()+1)}
	for s := 1; s <= kt.N(); s++ {
		v := kt.Vec(s - 1)
		var e float64
		for k, l := range dims {
			e += math.Cos(2 * math.Pi * float64(v[k]) / float64(l))
		}
		h.eps[s] = -2 * t * e
	}
	return h, nil
}

func (h *HubbardK) NBasis() int { return 2 * h.K.N() }
func (h *HubbardK) NEl() int    { return h.nel }

// Dispersion returns the kinetic energy of the Bloch state underlying
// spin-orbital o.
func (h *HubbardK) Dispersion(o int) float64 { return h.eps[lattice.Site(o)] }

// KIndex returns the translation-group label of spin-orbital o.
func (h *HubbardK) KIndex(o int) int { return lattice.Site(o) - 1 }

// Orbital maps a translation-group label back to a spin-orbital.
func (h *HubbardK) Orbital(k int, alpha bool) int {
	if alpha {
		return lattice.Alpha(k + 1)
	}
	return lattice.Beta(k + 1)
}

func (h *HubbardK) Diag(d det.Det) float64 {
	occ := make([]int, 0, h.nel)
	var kinetic float64
	var nAlpha, nBeta int
	for _, o := range d.Occupied(occ) {
		kinetic += h.Dispersion(o)
		if lattice.IsAlpha(o) {
			nAlpha++
		} else {
			nBeta++
		}
	}
	return kinetic + h.U/float64(h.K.N())*float64(nAlpha*nBeta)
}

// SlaterCondon1 vanishes: the kinetic term is diagonal and the interaction
// conserves momentum pairwise.
func (h *HubbardK) SlaterCondon1(d det.Det, e det.Excit) float64 {
	return 0
}

func (h *HubbardK) SlaterCondon2(d det.Det, e det.Excit) float64 {
	i, j := e.From[0], e.From[1]
	a, b := e.To[0], e.To[1]
	// Same-spin pairs see the direct and exchange integrals cancel.
	if lattice.IsAlpha(i) == lattice.IsAlpha(j) {
		return 0
	}
	if lattice.IsAlpha(a) == lattice.IsAlpha(b) {
		return 0
	}
	// Crystal momentum conservation.
	if h.K.Mult(h.KIndex(i), h.KIndex(j)) != h.K.Mult(h.KIndex(a), h.KIndex(b)) {
		return 0
	}

	v := h.U / float64(h.K.N())
	// The surviving integral is the exchange one when i and a carry
	// opposite spins.
	if lattice.IsAlpha(i) != lattice.IsAlpha(a) {
		v = -v
	}
	if e.Perm {
		v = -v
	}
	return v
}
