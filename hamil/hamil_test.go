package hamil

import (
	"flag"
	"fmt"
	"log"
	"math"
	"testing"

	"github.com/robertodr/hande/det"
	"github.com/robertodr/hande/lattice"
)

func TestOneEIntSymmetric(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cfg lattice.Config
	}{
		{cfg: lattice.Config{Dims: []int{4}}},
		{cfg: lattice.Config{Dims: []int{2, 2}}},
		{cfg: lattice.Config{Dims: []int{1, 4}}},
		{cfg: lattice.Config{Dims: []int{3, 3}, Triangular: true}},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%v", test.cfg), func(t *testing.T) {
			t.Parallel()
			lat, err := lattice.New(test.cfg)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			h, err := NewHubbardReal(1, 4, lat, lat.NSites)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			for i := 1; i <= lat.NBasis; i++ {
				for j := 1; j <= lat.NBasis; j++ {
					if h.OneEInt(i, j) != h.OneEInt(j, i) {
						t.Fatalf("%d %d: %f %f", i, j, h.OneEInt(i, j), h.OneEInt(j, i))
					}
				}
			}
		})
	}
}

func TestHubbardRealDiag(t *testing.T) {
	t.Parallel()
	// Periodic 4-chain at half filling: no self images, so the kinetic
	// diagonal vanishes and only U counts the doubly occupied sites.
	lat, err := lattice.New(lattice.Config{Dims: []int{4}})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	h, err := NewHubbardReal(1, 4, lat, 4)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	tests := []struct {
		orbs []int
		want float64
	}{
		// Sites 1 and 2 doubly occupied.
		{orbs: []int{1, 2, 3, 4}, want: 8},
		// Singly occupied everywhere.
		{orbs: []int{1, 3, 6, 8}, want: 0},
		// One double occupancy.
		{orbs: []int{1, 2, 5, 7}, want: 4},
	}
	for _, test := range tests {
		d := det.FromOrbs(lat.NBasis, test.orbs)
		if got := h.Diag(d); got != test.want {
			t.Fatalf("%v: %f, expected %f", test.orbs, got, test.want)
		}
	}
}

func TestSelfImageKinetic(t *testing.T) {
	t.Parallel()
	// A length-1 dimension bonds every site to its own image, and both tmat
	// directions hit the same bit, so each occupied orbital is worth -2t on
	// the diagonal. The kinetic diagonal is therefore -2t per electron.
	lat, err := lattice.New(lattice.Config{Dims: []int{1, 4}})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	h, err := NewHubbardReal(1, 0, lat, 4)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	for i := 1; i <= lat.NBasis; i++ {
		if got := h.OneEInt(i, i); got != -2 {
			t.Fatalf("%d: %f", i, got)
		}
	}
	// Two alpha electrons, on sites 1 and 3.
	d := det.FromOrbs(lat.NBasis, []int{lattice.Alpha(1), lattice.Alpha(3)})
	if got := h.Diag(d); got != -4 {
		t.Fatalf("%f, expected -4", got)
	}
}

func TestDoubleBondKinetic(t *testing.T) {
	t.Parallel()
	// In a periodic 2-site chain the pair bonds once within the cell and once
	// through the boundary, so both tmat directions are set and the hopping
	// element is -2t.
	lat, err := lattice.New(lattice.Config{Dims: []int{2}})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	h, err := NewHubbardReal(1, 4, lat, 2)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if got := h.OneEInt(lattice.Alpha(1), lattice.Alpha(2)); got != -2 {
		t.Fatalf("%f, expected -2", got)
	}
	if got := h.OneEInt(lattice.Alpha(1), lattice.Alpha(1)); got != 0 {
		t.Fatalf("%f, expected 0", got)
	}
}

func TestHubbardKDiag(t *testing.T) {
	t.Parallel()
	h, err := NewHubbardK(1, 4, []int{4}, 2)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	// k=0 disperses to -2t, k=pi to +2t, k=+-pi/2 to 0.
	wants := []float64{-2, 0, 2, 0}
	for s := 1; s <= 4; s++ {
		if math.Abs(h.Dispersion(lattice.Alpha(s))-wants[s-1]) > 1e-12 {
			t.Fatalf("%d: %f, expected %f", s, h.Dispersion(lattice.Alpha(s)), wants[s-1])
		}
	}
	// One alpha and one beta electron in k=0: kinetic -4, interaction U/N.
	d := det.FromOrbs(h.NBasis(), []int{lattice.Alpha(1), lattice.Beta(1)})
	if got := h.Diag(d); math.Abs(got-(-4+1)) > 1e-12 {
		t.Fatalf("%f", got)
	}
}

func TestHubbardKSlaterCondon2(t *testing.T) {
	t.Parallel()
	h, err := NewHubbardK(1, 4, []int{4}, 2)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	d := det.FromOrbs(h.NBasis(), []int{lattice.Alpha(1), lattice.Beta(1)})
	// k1+k1 = 0, so a=k, b=-k pairs conserve momentum.
	e := det.Double(d, lattice.Alpha(1), lattice.Beta(1), lattice.Alpha(2), lattice.Beta(4))
	got := h.SlaterCondon2(d, e)
	if math.Abs(math.Abs(got)-1) > 1e-12 {
		t.Fatalf("%f", got)
	}
	// Momentum violation yields zero.
	bad := det.Double(d, lattice.Alpha(1), lattice.Beta(1), lattice.Alpha(2), lattice.Beta(3))
	if got := h.SlaterCondon2(d, bad); got != 0 {
		t.Fatalf("%f", got)
	}
}

func TestMolecularH2(t *testing.T) {
	t.Parallel()
	m := H2STO3G()
	d0 := det.FromOrbs(m.NBasis(), []int{1, 2})
	d2 := det.FromOrbs(m.NBasis(), []int{3, 4})

	// The diagonal of the reference is the restricted Hartree-Fock energy.
	if got := m.Diag(d0); math.Abs(got-(-1.116707)) > 1e-5 {
		t.Fatalf("%f", got)
	}
	// The coupling is the exchange integral.
	e := det.Between(d0, d2)
	if got := m.SlaterCondon2(d0, e); math.Abs(got-0.181287) > 1e-6 {
		t.Fatalf("%f", got)
	}
	// Spin-violating singles vanish.
	if got := m.SlaterCondon1(d0, det.Single(d0, 1, 4)); got != 0 {
		t.Fatalf("%f", got)
	}

	// The 2x2 interaction eigenproblem gives the FCI ground state.
	h11, h22 := m.Diag(d0), m.Diag(d2)
	k := m.SlaterCondon2(d0, e)
	e0 := (h11+h22)/2 - math.Sqrt(math.Pow((h22-h11)/2, 2)+k*k)
	if math.Abs(e0-(-1.13727)) > 1e-4 {
		t.Fatalf("%f", e0)
	}
}

func TestElementHermitian(t *testing.T) {
	t.Parallel()
	m := H2STO3G()
	dets := []det.Det{
		det.FromOrbs(4, []int{1, 2}),
		det.FromOrbs(4, []int{1, 4}),
		det.FromOrbs(4, []int{3, 2}),
		det.FromOrbs(4, []int{3, 4}),
	}
	for _, a := range dets {
		for _, b := range dets {
			ab := Element(m, a, b)
			ba := Element(m, b, a)
			if math.Abs(ab-ba) > 1e-12 {
				t.Fatalf("%v %v: %f %f", a, b, ab, ba)
			}
		}
	}
}

func TestMain(m *testing.M) {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	m.Run()
}
