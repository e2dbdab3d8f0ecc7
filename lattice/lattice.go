// Package lattice builds the real-space connectivity tables of Hubbard-type
// model Hamiltonians.
//
// Sites live on an orthogonal supercell of up to three dimensions with
// periodic or open boundaries. Bonds are encoded twice: Tmat carries the
// asymmetric within-cell/periodic-image split needed by kinetic matrix
// elements, while ConnectedOrbs carries the symmetric adjacency used by
// excitation generation.
package lattice

import (
	"github.com/pkg/errors"

	"github.com/robertodr/hande/det"
)

type Config struct {
	// Dims are the supercell side lengths, one per dimension.
	Dims []int
	// Triangular adds the (1,1) diagonal bonds of a 2D triangular lattice.
	Triangular bool
	// FiniteCluster drops all bonds crossing the supercell boundary.
	FiniteCluster bool
	// NextNearest additionally tabulates two-bond path counts.
	NextNearest bool
}

// Tables hold the connectivity of a lattice, indexed by 1-indexed
// spin-orbital with slot 0 unused. Site s owns orbitals 2s-1 (alpha) and
// 2s (beta); bonds never mix spins.
type Tables struct {
	NSites int
	NBasis int
	Dims   []int

	// Tmat uses the asymmetric encoding: for j > i, bit j of Tmat[i] flags a
	// within-cell bond; for j >= i, bit i of Tmat[j] flags a periodic-image
	// bond. A site bonded to its own periodic copy sets its own bit.
	Tmat []det.Det
	// ConnectedOrbs is the symmetric adjacency excluding self-images.
	ConnectedOrbs []det.Det
	// ConnectedSites[o] lists the orbitals connected to o in ascending order.
	ConnectedSites [][]int
	// NextNearestOrbs[i][j] counts distinct two-bond paths from i to j.
	// Nil unless Config.NextNearest.
	NextNearestOrbs [][]int
	// TSelfImages is true iff some supercell dimension has length 1, in
	// which case every site is bonded to its own periodic copy unless
	// FiniteCluster drops the boundary bonds.
	TSelfImages bool
}

func New(cfg Config) (*Tables, error) {
	ndim := len(cfg.Dims)
	if ndim < 1 || ndim > 3 {
		return nil, errors.Errorf("%d dimensions", ndim)
	}
	for _, l := range cfg.Dims {
		if l < 1 {
			return nil, errors.Errorf("%v", cfg.Dims)
		}
	}
	if cfg.Triangular && ndim != 2 {
		return nil, errors.Errorf("triangular in %d dimensions", ndim)
	}

	nsites := 1
	for _, l := range cfg.Dims {
		nsites *= l
	}
	t := &Tables{
		NSites: nsites,
		NBasis: 2 * nsites,
		Dims:   append([]int(nil), cfg.Dims...),
	}
	t.Tmat = make([]det.Det, t.NBasis+1)
	t.ConnectedOrbs = make([]det.Det, t.NBasis+1)
	for o := 1; o <= t.NBasis; o++ {
		t.Tmat[o] = det.New(t.NBasis)
		t.ConnectedOrbs[o] = det.New(t.NBasis)
	}
	for _, l := range cfg.Dims {
		if l == 1 {
			t.TSelfImages = true
		}
	}

	offsets := imageOffsets(cfg.Dims)
	var ri, rj, v [3]int
	for i := 1; i <= nsites; i++ {
		t.siteCoords(i, &ri)
		for j := i; j <= nsites; j++ {
			t.siteCoords(j, &rj)
			for _, delta := range offsets {
				for k := 0; k < ndim; k++ {
					v[k] = ri[k] - rj[k] - delta[k]
				}
				if !bonded(v[:ndim], cfg.Triangular) {
					continue
				}
				intra := delta == [3]int{}
				switch {
				case intra:
					t.setBothSpins(t.Tmat, i, j)
				case cfg.FiniteCluster:
					continue
				default:
					t.setBothSpins(t.Tmat, j, i)
				}
				if i != j {
					t.setBothSpins(t.ConnectedOrbs, i, j)
					t.setBothSpins(t.ConnectedOrbs, j, i)
				}
			}
		}
	}

	t.ConnectedSites = make([][]int, t.NBasis+1)
	for o := 1; o <= t.NBasis; o++ {
		t.ConnectedSites[o] = t.ConnectedOrbs[o].Occupied(nil)
	}
	if cfg.NextNearest {
		t.buildNextNearest()
	}
	return t, nil
}

// Alpha and Beta map a 1-indexed site to its spin-orbitals.
func Alpha(site int) int { return 2*site - 1 }
func Beta(site int) int  { return 2 * site }

// Site maps a spin-orbital back to its 1-indexed site.
func Site(orb int) int { return (orb + 1) / 2 }

// IsAlpha reports the spin of a spin-orbital.
func IsAlpha(orb int) bool { return orb%2 == 1 }

// setBothSpins sets, for sites i and j, the bit of j's orbital in table row
// of i's orbital, once per spin channel.
func (t *Tables) setBothSpins(table []det.Det, i, j int) {
	table[Alpha(i)].Set(Alpha(j))
	table[Beta(i)].Set(Beta(j))
}

// siteCoords decodes a 1-indexed site into integer coordinates, first
// dimension slowest.
func (t *Tables) siteCoords(site int, c *[3]int) {
	s := site - 1
	for k := len(t.Dims) - 1; k >= 0; k-- {
		c[k] = s % t.Dims[k]
		s /= t.Dims[k]
	}
}

// SiteIndex is the inverse of siteCoords.
func (t *Tables) SiteIndex(c []int) int {
	s := 0
	for k, l := range t.Dims {
		s = s*l + ((c[k]%l)+l)%l
	}
	return s + 1
}

func bonded(v []int, triangular bool) bool {
	n := 0
	for _, x := range v {
		if x < 0 {
			x = -x
		}
		n += x
	}
	if n == 1 {
		return true
	}
	if triangular && ((v[0] == 1 && v[1] == 1) || (v[0] == -1 && v[1] == -1)) {
		return true
	}
	return false
}

// imageOffsets enumerates the 3^d displacements into the nearest shell of
// neighbour supercells, the zero offset included.
func imageOffsets(dims []int) [][3]int {
	offsets := [][3]int{{}}
	for k, l := range dims {
		next := make([][3]int, 0, 3*len(offsets))
		for _, o := range offsets {
			for _, m := range []int{-l, 0, l} {
				o[k] = m
				next = append(next, o)
			}
		}
		offsets = next
	}
	return offsets
}

func (t *Tables) buildNextNearest() {
	t.NextNearestOrbs = make([][]int, t.NBasis+1)
	for i := 1; i <= t.NBasis; i++ {
		t.NextNearestOrbs[i] = make([]int, t.NBasis+1)
		for _, j := range t.ConnectedSites[i] {
			for _, k := range t.ConnectedSites[j] {
				t.NextNearestOrbs[i][k]++
			}
		}
		t.NextNearestOrbs[i][i] = 0
	}
}
