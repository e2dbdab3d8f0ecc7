package lattice

import (
	"flag"
	"fmt"
	"log"
	"slices"
	"testing"

	"github.com/robertodr/hande/det"
)

func TestChainTables(t *testing.T) {
	t.Parallel()
	// 4-site periodic chain: sites 1-2, 2-3, 3-4 bond within the cell,
	// 4-1 bonds through the boundary.
	tables, err := New(Config{Dims: []int{4}})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if tables.NSites != 4 || tables.NBasis != 8 {
		t.Fatalf("%d %d", tables.NSites, tables.NBasis)
	}
	if tables.TSelfImages {
		t.Fatalf("self images on a 4-site chain")
	}

	// Within-cell bonds 1-2, 2-3, 3-4 occupy the upper triangle; the
	// boundary bond stores bit 1 in row 4 per the asymmetric encoding.
	wantTmat := map[int][]int{
		Alpha(1): {Alpha(2)},
		Alpha(2): {Alpha(3)},
		Alpha(3): {Alpha(4)},
		Alpha(4): {Alpha(1)},
	}
	for s := 1; s <= 4; s++ {
		got := tables.Tmat[Alpha(s)].Occupied(nil)
		if !slices.Equal(got, wantTmat[Alpha(s)]) {
			t.Fatalf("%d: %v, expected %v", s, got, wantTmat[Alpha(s)])
		}
	}

	for s := 1; s <= 4; s++ {
		want := []int{Alpha(s%4 + 1), Alpha((s+2)%4 + 1)}
		slices.Sort(want)
		got := []int{}
		for _, o := range tables.ConnectedSites[Alpha(s)] {
			got = append(got, o)
		}
		if !slices.Equal(got, want) {
			t.Fatalf("%d: %v, expected %v", s, got, want)
		}
	}
}

func TestConnectivityInvariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cfg Config
	}{
		{cfg: Config{Dims: []int{4}}},
		{cfg: Config{Dims: []int{2, 2}}},
		{cfg: Config{Dims: []int{3, 3}, NextNearest: true}},
		{cfg: Config{Dims: []int{3, 3}, Triangular: true}},
		{cfg: Config{Dims: []int{1, 4}}},
		{cfg: Config{Dims: []int{2, 2, 2}}},
		{cfg: Config{Dims: []int{4}, FiniteCluster: true}},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%v", test.cfg), func(t *testing.T) {
			t.Parallel()
			tables, err := New(test.cfg)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			for i := 1; i <= tables.NBasis; i++ {
				// No self bit in the symmetric adjacency.
				if tables.ConnectedOrbs[i].Test(i) {
					t.Fatalf("self bit %d", i)
				}
				// Symmetry.
				for j := 1; j <= tables.NBasis; j++ {
					if tables.ConnectedOrbs[i].Test(j) != tables.ConnectedOrbs[j].Test(i) {
						t.Fatalf("asymmetric %d %d", i, j)
					}
				}
				// Decoded sites match the popcount.
				if len(tables.ConnectedSites[i]) != tables.ConnectedOrbs[i].Count() {
					t.Fatalf("%d: %d %d", i, len(tables.ConnectedSites[i]), tables.ConnectedOrbs[i].Count())
				}
				// Re-encoding the decoded list recovers the bit string.
				re := det.FromOrbs(tables.NBasis, tables.ConnectedSites[i])
				if !re.Equal(tables.ConnectedOrbs[i]) {
					t.Fatalf("%d: %v, expected %v", i, re, tables.ConnectedOrbs[i])
				}
				// Bonds never mix spins.
				for _, j := range tables.ConnectedSites[i] {
					if IsAlpha(i) != IsAlpha(j) {
						t.Fatalf("spin mixing %d %d", i, j)
					}
				}
			}
			if tables.NextNearestOrbs != nil {
				for i := 1; i <= tables.NBasis; i++ {
					if tables.NextNearestOrbs[i][i] != 0 {
						t.Fatalf("diagonal %d", i)
					}
				}
			}
		})
	}
}

func TestSelfImages(t *testing.T) {
	t.Parallel()
	// A length-1 dimension bonds every site to its own periodic copy.
	tables, err := New(Config{Dims: []int{1, 4}})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !tables.TSelfImages {
		t.Fatalf("expected self images")
	}
	for s := 1; s <= tables.NSites; s++ {
		if !tables.Tmat[Alpha(s)].Test(Alpha(s)) {
			t.Fatalf("site %d lacks its self bond", s)
		}
		if !tables.Tmat[Beta(s)].Test(Beta(s)) {
			t.Fatalf("site %d lacks its beta self bond", s)
		}
		// Self-images never enter the symmetric adjacency.
		if tables.ConnectedOrbs[Alpha(s)].Test(Alpha(s)) {
			t.Fatalf("self bit leaked into connected orbs at %d", s)
		}
	}
}

func TestDoubleBonds2x2(t *testing.T) {
	t.Parallel()
	// In a 2x2 cell every neighbour pair bonds twice, once within the cell
	// and once through the boundary, so both tmat directions are set.
	tables, err := New(Config{Dims: []int{2, 2}})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if tables.TSelfImages {
		t.Fatalf("2x2 has no self images")
	}
	npairs := 0
	for i := 1; i <= tables.NSites; i++ {
		for j := i + 1; j <= tables.NSites; j++ {
			oi, oj := Alpha(i), Alpha(j)
			if !tables.ConnectedOrbs[oi].Test(oj) {
				continue
			}
			npairs++
			if !(tables.Tmat[oi].Test(oj) && tables.Tmat[oj].Test(oi)) {
				t.Fatalf("pair %d %d not doubly bonded", i, j)
			}
		}
	}
	if npairs != 4 {
		t.Fatalf("%d pairs, expected 4", npairs)
	}
}

func TestFiniteCluster(t *testing.T) {
	t.Parallel()
	tables, err := New(Config{Dims: []int{4}, FiniteCluster: true})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	// The boundary bond 4-1 is dropped.
	if tables.Tmat[Alpha(1)].Test(Alpha(4)) || tables.Tmat[Alpha(4)].Test(Alpha(1)) {
		t.Fatalf("boundary bond present")
	}
	if tables.ConnectedOrbs[Alpha(1)].Test(Alpha(4)) {
		t.Fatalf("boundary bond in connected orbs")
	}
	if !tables.Tmat[Alpha(1)].Test(Alpha(2)) {
		t.Fatalf("intra bond missing")
	}
}

func TestNextNearest3x3(t *testing.T) {
	t.Parallel()
	tables, err := New(Config{Dims: []int{3, 3}, NextNearest: true})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	// On a periodic 3x3 square lattice each site has 4 neighbours; paths of
	// length two from i back to i number 4, but the diagonal is zeroed.
	i := Alpha(1)
	sum := 0
	for j := 1; j <= tables.NBasis; j++ {
		sum += tables.NextNearestOrbs[i][j]
	}
	// 4 neighbours x 4 onward hops minus the 4 returning paths.
	if sum != 12 {
		t.Fatalf("%d", sum)
	}
}

func TestTranslationalSymVecs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		dims []int
		want [][3]int
	}{
		{
			dims: []int{4},
			want: [][3]int{{4, 0, 0}},
		},
		{
			dims: []int{2, 3},
			want: [][3]int{{0, 3, 0}, {2, 0, 0}, {2, 3, 0}},
		},
		{
			dims: []int{2, 2, 2},
			want: [][3]int{
				{0, 0, 2}, {0, 2, 0}, {0, 2, 2},
				{2, 0, 0}, {2, 0, 2}, {2, 2, 0}, {2, 2, 2},
			},
		},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%v", test.dims), func(t *testing.T) {
			t.Parallel()
			got := TranslationalSymVecs(test.dims)
			if !slices.Equal(got, test.want) {
				t.Fatalf("%v, expected %v", got, test.want)
			}
		})
	}
}

func TestMain(m *testing.M) {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	m.Run()
}
