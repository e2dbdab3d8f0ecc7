package fciqmc

import (
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"

	"github.com/robertodr/hande/det"
)

// Walker is one record of the main list: a determinant and its signed
// populations. Slot 0 holds the Hamiltonian walkers; slot 1 holds the
// Hellmann-Feynman operator walkers and stays zero for plain sampling.
type Walker struct {
	Det  det.Det
	Pops [2]int32
}

// Spawn is one entry of the per-cycle spawn buffer.
type Spawn struct {
	Det  det.Det
	Pop  int32
	Slot uint8
}

type Params struct {
	Tau     float64
	NCycles int
	NReport int

	// Shift is the initial energy offset of the death step.
	Shift float64
	// ShiftDamping controls the variable-shift update once the population
	// exceeds TargetPopulation.
	ShiftDamping     float64
	TargetPopulation int64

	// SamplingSize is 1 for plain FCIQMC and 2 for Hellmann-Feynman
	// sampling.
	SamplingSize int

	WalkerCap int
	SpawnCap  int

	Seed uint64
}

// State owns everything the walker loop mutates. The main list is sorted by
// determinant and, after each annihilation sweep, holds every determinant at
// most once with a non-zero population.
type State struct {
	Ops    SystemOps
	Params Params
	Rng    *rand.Rand

	// Ref is the reference determinant of the projected-energy estimator.
	Ref       det.Det
	RefEnergy float64

	Walkers []Walker
	scratch []Walker

	Spawned            []Spawn
	SpawningHead       int
	SpawningBlockStart int

	Shift       float64
	VaryShift   bool
	NParticles  [2]int64
	NCyclesDone int

	nParticlesOld int64

	projEnergy   float64
	projEnergyOp float64
	d0Pop        float64
	d0PopOp      float64
	nAttempts    int64
	nSpawned     int64
	nDeath       int64

	occBuf []int
	start  time.Time
}

func NewState(ops SystemOps, p Params, ref det.Det, initPop int32) (*State, error) {
	if p.Tau <= 0 {
		return nil, errors.Errorf("tau %f", p.Tau)
	}
	if p.NCycles < 1 || p.NReport < 1 {
		return nil, errors.Errorf("%d cycles %d reports", p.NCycles, p.NReport)
	}
	if p.SamplingSize < 1 || p.SamplingSize > 2 {
		return nil, errors.Errorf("sampling size %d", p.SamplingSize)
	}
	if p.WalkerCap < 1 || p.SpawnCap < 1 {
		return nil, errors.Errorf("caps %d %d", p.WalkerCap, p.SpawnCap)
	}
	if ops.NBasis < 1 || ops.Diag == nil || ops.Gen == nil {
		return nil, errors.Errorf("incomplete system ops")
	}
	if p.SamplingSize == 2 && ops.OpDiag == nil && ops.OpGen == nil {
		return nil, errors.Errorf("Hellmann-Feynman sampling without an operator")
	}
	if initPop == 0 {
		return nil, errors.Errorf("empty initial population")
	}

	s := &State{
		Ops:     ops,
		Params:  p,
		Rng:     rand.New(rand.NewPCG(p.Seed, p.Seed+1)),
		Ref:     ref.Clone(),
		Walkers: make([]Walker, 0, p.WalkerCap),
		scratch: make([]Walker, 0, p.WalkerCap),
		Spawned: make([]Spawn, p.SpawnCap),
		Shift:   p.Shift,
		occBuf:  make([]int, 0, ref.Count()),
		start:   time.Now(),
	}
	s.RefEnergy = ops.Diag(s.Ref)
	s.Walkers = append(s.Walkers, Walker{Det: s.Ref.Clone(), Pops: [2]int32{initPop, 0}})
	s.NParticles[0] = int64(abs32(initPop))
	s.nParticlesOld = s.NParticles[0]
	return s, nil
}

// Restore replaces the main list with a snapshot. The walkers are re-sorted
// and particle counts recomputed.
func (s *State) Restore(walkers []Walker, ncyclesDone int, nParticlesOld int64, shift float64) error {
	if len(walkers) > s.Params.WalkerCap {
		return errors.Errorf("%d walkers, cap %d", len(walkers), s.Params.WalkerCap)
	}
	s.Walkers = s.Walkers[:0]
	s.NParticles = [2]int64{}
	for _, w := range walkers {
		if w.Pops == ([2]int32{}) {
			continue
		}
		s.Walkers = append(s.Walkers, w)
		s.NParticles[0] += int64(abs32(w.Pops[0]))
		s.NParticles[1] += int64(abs32(w.Pops[1]))
	}
	sortWalkers(s.Walkers)
	s.NCyclesDone = ncyclesDone
	s.nParticlesOld = nParticlesOld
	s.Shift = shift
	return nil
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

func sign32(x int32) int32 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
