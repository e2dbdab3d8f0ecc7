package fciqmc

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/robertodr/hande/det"
	"github.com/robertodr/hande/excitgen"
)

// debugHij cross-checks the matrix element reported by the excitation
// generator against the direct Slater-Condon evaluation on every spawn
// attempt.
const debugHij = false

// nSpawned returns the signed progeny of one spawn attempt. The attempt
// succeeds floor(tau |H| / pgen) times plus a Bernoulli remainder, and the
// children take the parent's sign flipped when the coupling is positive.
func nSpawned(rng *rand.Rand, tau, hij, pgen float64, parentSign int32) int32 {
	n := stochasticRound(rng, tau*math.Abs(hij)/pgen)
	if n == 0 {
		return 0
	}
	if hij > 0 {
		return -parentSign * n
	}
	return parentSign * n
}

// stochasticRound rounds x >= 0 to floor(x), incremented with probability
// frac(x).
func stochasticRound(rng *rand.Rand, x float64) int32 {
	n := int32(x)
	if rng.Float64() < x-float64(n) {
		n++
	}
	return n
}

// attemptSpawn runs one generator draw for the given parent particle and
// appends any progeny to the spawn buffer.
func (s *State) attemptSpawn(r excitgen.Result, parentSign int32, slot uint8, hij float64) error {
	n := nSpawned(s.Rng, s.Params.Tau, hij, r.PGen, parentSign)
	if n == 0 {
		return nil
	}
	s.nSpawned += int64(abs32(n))
	return s.push(r.Dst, n, slot)
}

// push appends a spawned walker. The buffer is append-only within a cycle
// and drained by annihilation at the cycle boundary.
func (s *State) push(d det.Det, pop int32, slot uint8) error {
	if s.SpawningHead >= len(s.Spawned) {
		return errors.Errorf("spawn buffer overflow: %d", len(s.Spawned))
	}
	s.Spawned[s.SpawningHead] = Spawn{Det: d, Pop: pop, Slot: slot}
	s.SpawningHead++
	return nil
}

// death applies the diagonal death/clone step to one walker slot. With
// probability tau (H_ii - S) per particle the magnitude shrinks; a negative
// rate clones instead. Killing more particles than are present flips the
// sign.
func (s *State) death(w *Walker, slot int, hdiag float64) {
	pop := w.Pops[slot]
	if pop == 0 {
		return
	}
	rate := s.Params.Tau * (hdiag - s.Shift) * float64(abs32(pop))
	nd := stochasticRound(s.Rng, math.Abs(rate))
	if nd == 0 {
		return
	}
	s.nDeath += int64(nd)
	if rate > 0 {
		w.Pops[slot] = pop - sign32(pop)*nd
	} else {
		w.Pops[slot] = pop + sign32(pop)*nd
	}
}

func (s *State) checkHij(d det.Det, r excitgen.Result) {
	direct := s.Ops.OffDiag(d, r.Exc)
	if math.Abs(direct-r.HIJ) > 1e-10 {
		panic(fmt.Sprintf("%f %f %#v", direct, r.HIJ, r.Exc))
	}
}
