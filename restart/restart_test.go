package restart

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/robertodr/hande/det"
	"github.com/robertodr/hande/fciqmc"
)

func TestSaveLoad(t *testing.T) {
	t.Parallel()
	dir, err := os.MkdirTemp("", "")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer os.RemoveAll(dir)

	snap := &Snapshot{
		NBasis:        70,
		NCyclesDone:   1234,
		NParticlesOld: 98765,
		Shift:         -0.8251,
		Walkers: []fciqmc.Walker{
			{Det: det.FromOrbs(70, []int{1, 2, 70}), Pops: [2]int32{15, -2}},
			{Det: det.FromOrbs(70, []int{3, 4, 65}), Pops: [2]int32{-7, 0}},
		},
	}
	path := filepath.Join(dir, "restart.sqlite3")
	if err := Save(path, snap); err != nil {
		t.Fatalf("%+v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if got.NBasis != snap.NBasis || got.NCyclesDone != snap.NCyclesDone {
		t.Fatalf("%#v", got)
	}
	if got.NParticlesOld != snap.NParticlesOld || got.Shift != snap.Shift {
		t.Fatalf("%#v", got)
	}
	if len(got.Walkers) != len(snap.Walkers) {
		t.Fatalf("%d, expected %d", len(got.Walkers), len(snap.Walkers))
	}
	sortByDet := func(ws []fciqmc.Walker) {
		slices.SortFunc(ws, func(a, b fciqmc.Walker) int { return det.Cmp(a.Det, b.Det) })
	}
	sortByDet(got.Walkers)
	sortByDet(snap.Walkers)
	for i, w := range got.Walkers {
		if !w.Det.Equal(snap.Walkers[i].Det) || w.Pops != snap.Walkers[i].Pops {
			t.Fatalf("%d: %#v, expected %#v", i, w, snap.Walkers[i])
		}
	}
}

func TestSaveOverwrites(t *testing.T) {
	t.Parallel()
	dir, err := os.MkdirTemp("", "")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "restart.sqlite3")

	a := &Snapshot{NBasis: 8, NCyclesDone: 1, Walkers: []fciqmc.Walker{
		{Det: det.FromOrbs(8, []int{1}), Pops: [2]int32{1, 0}},
		{Det: det.FromOrbs(8, []int{2}), Pops: [2]int32{2, 0}},
	}}
	if err := Save(path, a); err != nil {
		t.Fatalf("%+v", err)
	}
	b := &Snapshot{NBasis: 8, NCyclesDone: 2, Walkers: []fciqmc.Walker{
		{Det: det.FromOrbs(8, []int{3}), Pops: [2]int32{3, 0}},
	}}
	if err := Save(path, b); err != nil {
		t.Fatalf("%+v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if got.NCyclesDone != 2 || len(got.Walkers) != 1 {
		t.Fatalf("%#v", got)
	}
}

func TestMain(m *testing.M) {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	m.Run()
}
