package hamil

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/robertodr/hande/det"
	"github.com/robertodr/hande/lattice"
)

// HubbardReal is the Hubbard model in the real-space site basis:
// H = -t sum_<ij>,s c+_is c_js + U sum_i n_iu n_id.
// Only single excitations along lattice bonds connect determinants.
type HubbardReal struct {
	T, U float64
	Lat  *lattice.Tables

	nel int
}

func NewHubbardReal(t, u float64, lat *lattice.Tables, nel int) (*HubbardReal, error) {
	if nel < 1 || nel > lat.NBasis {
		return nil, errors.Errorf("%d electrons in %d spin-orbitals", nel, lat.NBasis)
	}
	if nel == lat.NBasis {
		// A completely filled lattice has no excitations to sample.
		return nil, errors.Errorf("filled lattice")
	}
	return &HubbardReal{T: t, U: u, Lat: lat, nel: nel}, nil
}

func (h *HubbardReal) NBasis() int { return h.Lat.NBasis }
func (h *HubbardReal) NEl() int    { return h.nel }

// OneEInt returns <i|T|j>. The two tmat directions are tested independently
// so that a pair bonded both within the cell and through the boundary, or a
// site bonded to its own periodic image, contributes the full -2t.
func (h *HubbardReal) OneEInt(i, j int) float64 {
	var v float64
	if h.Lat.Tmat[i].Test(j) {
		v -= h.T
	}
	if h.Lat.Tmat[j].Test(i) {
		v -= h.T
	}
	return v
}

// betaMask selects the odd bit positions, which hold the beta orbitals.
const betaMask = 0xaaaaaaaaaaaaaaaa

// DoubleOcc counts the doubly occupied sites of d.
func DoubleOcc(d det.Det) int {
	n := 0
	for _, w := range d {
		n += bits.OnesCount64((w & betaMask) >> 1 & w)
	}
	return n
}

func (h *HubbardReal) Diag(d det.Det) float64 {
	var kinetic float64
	occ := make([]int, 0, h.nel)
	for _, o := range d.Occupied(occ) {
		kinetic += h.OneEInt(o, o)
	}
	return kinetic + h.U*float64(DoubleOcc(d))
}

func (h *HubbardReal) SlaterCondon1(d det.Det, e det.Excit) float64 {
	v := h.OneEInt(e.From[0], e.To[0])
	if e.Perm {
		v = -v
	}
	return v
}

// SlaterCondon2 vanishes: the Hubbard interaction is diagonal in the site
// basis.
func (h *HubbardReal) SlaterCondon2(d det.Det, e det.Excit) float64 {
	return 0
}
