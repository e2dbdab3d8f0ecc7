package fciqmc

import (
	"cmp"
	"slices"

	"github.com/pkg/errors"

	"github.com/robertodr/hande/det"
)

// annihilate drains the spawn buffer into the main list: sort the spawned
// walkers by determinant, compress runs, then merge-join with the sorted
// main list summing signed populations. Records reaching zero population are
// dropped. O(M log M + N) in the spawn and main sizes.
func (s *State) annihilate() error {
	buf := s.Spawned[s.SpawningBlockStart:s.SpawningHead]
	slices.SortFunc(buf, func(a, b Spawn) int {
		if c := det.Cmp(a.Det, b.Det); c != 0 {
			return c
		}
		return cmp.Compare(a.Slot, b.Slot)
	})

	out := s.scratch[:0]
	var np [2]int64
	push := func(w Walker) error {
		if len(out) >= s.Params.WalkerCap {
			return errors.Errorf("walker list overflow: %d", s.Params.WalkerCap)
		}
		out = append(out, w)
		np[0] += int64(abs32(w.Pops[0]))
		np[1] += int64(abs32(w.Pops[1]))
		return nil
	}

	i, j := 0, 0
	for i < len(s.Walkers) || j < len(buf) {
		if j >= len(buf) || (i < len(s.Walkers) && det.Cmp(s.Walkers[i].Det, buf[j].Det) < 0) {
			w := s.Walkers[i]
			i++
			if w.Pops != ([2]int32{}) {
				if err := push(w); err != nil {
					return err
				}
			}
			continue
		}

		d := buf[j].Det
		var pops [2]int32
		for ; j < len(buf) && det.Cmp(buf[j].Det, d) == 0; j++ {
			pops[buf[j].Slot] += buf[j].Pop
		}
		if i < len(s.Walkers) && det.Cmp(s.Walkers[i].Det, d) == 0 {
			pops[0] += s.Walkers[i].Pops[0]
			pops[1] += s.Walkers[i].Pops[1]
			i++
		}
		if pops != ([2]int32{}) {
			if err := push(Walker{Det: d, Pops: pops}); err != nil {
				return err
			}
		}
	}

	s.scratch = s.Walkers[:0]
	s.Walkers = out
	s.NParticles = np
	s.SpawningHead = s.SpawningBlockStart
	return nil
}

func sortWalkers(ws []Walker) {
	slices.SortFunc(ws, func(a, b Walker) int { return det.Cmp(a.Det, b.Det) })
}
