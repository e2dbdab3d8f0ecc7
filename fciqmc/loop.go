package fciqmc

import (
	"math"
	"time"

	"github.com/robertodr/hande/det"
)

// Report is the per-report record emitted by the loop. ProjEnergy and
// D0Population are sums accumulated over the report's cycles; their ratio
// estimates the correlation energy.
type Report struct {
	IReport     int
	NCyclesDone int
	NParticles  int64

	ProjEnergy   float64
	D0Population float64
	Shift        float64

	// Operator-walker estimators, zero for plain sampling.
	NParticlesOp   int64
	ProjEnergyOp   float64
	D0PopulationOp float64

	SpawnRate float64
	Elapsed   time.Duration
}

// Energy is the projected-energy estimate carried by the report.
func (r Report) Energy(refEnergy float64) float64 {
	return refEnergy + r.ProjEnergy/r.D0Population
}

// Hook is polled between reports; returning true requests a soft exit. The
// loop finishes the current report and terminates cleanly.
type Hook func(Report) bool

// ShiftUpdater adjusts the shift from the particle counts bracketing a
// report. It is an external collaborator of the engine; VariableShift is the
// standard choice.
type ShiftUpdater func(shift float64, vary bool, nNew, nOld int64, p Params) (float64, bool)

// Run executes nreport reports of ncycles cycles each and returns the
// per-report records. On resource exhaustion the run aborts with the
// reports completed so far: the stochastic state cannot be partially
// recovered without biasing the sample.
func (s *State) Run(hook Hook, shiftUpd ShiftUpdater) ([]Report, error) {
	if shiftUpd == nil {
		shiftUpd = VariableShift
	}

	reports := make([]Report, 0, s.Params.NReport)
	for ir := 1; ir <= s.Params.NReport; ir++ {
		s.projEnergy, s.projEnergyOp = 0, 0
		s.d0Pop, s.d0PopOp = 0, 0
		s.nAttempts, s.nSpawned, s.nDeath = 0, 0, 0

		for ic := 0; ic < s.Params.NCycles; ic++ {
			if err := s.runCycle(); err != nil {
				return reports, err
			}
			s.NCyclesDone++
		}

		s.Shift, s.VaryShift = shiftUpd(s.Shift, s.VaryShift, s.NParticles[0], s.nParticlesOld, s.Params)
		s.nParticlesOld = s.NParticles[0]

		r := Report{
			IReport:        ir,
			NCyclesDone:    s.NCyclesDone,
			NParticles:     s.NParticles[0],
			ProjEnergy:     s.projEnergy,
			D0Population:   s.d0Pop,
			Shift:          s.Shift,
			NParticlesOp:   s.NParticles[1],
			ProjEnergyOp:   s.projEnergyOp,
			D0PopulationOp: s.d0PopOp,
			Elapsed:        time.Since(s.start),
		}
		if s.nAttempts > 0 {
			r.SpawnRate = float64(s.nSpawned) / float64(s.nAttempts)
		}
		reports = append(reports, r)

		if hook != nil && hook(r) {
			break
		}
	}
	return reports, nil
}

func (s *State) runCycle() error {
	s.SpawningHead = s.SpawningBlockStart
	hf := s.Params.SamplingSize == 2

	for iw := range s.Walkers {
		w := &s.Walkers[iw]
		s.occBuf = w.Det.Occupied(s.occBuf)

		// Projected-energy accumulators against the reference.
		switch lvl := det.Level(w.Det, s.Ref); {
		case lvl == 0:
			s.d0Pop += float64(w.Pops[0])
			s.d0PopOp += float64(w.Pops[1])
		case lvl <= 2:
			h0j := s.Ops.OffDiag(s.Ref, det.Between(s.Ref, w.Det))
			s.projEnergy += h0j * float64(w.Pops[0])
			s.projEnergyOp += h0j * float64(w.Pops[1])
		}

		hdiag := s.Ops.Diag(w.Det)
		for slot := 0; slot < s.Params.SamplingSize; slot++ {
			pop := w.Pops[slot]
			if pop == 0 {
				continue
			}
			ps := sign32(pop)
			for k := abs32(pop); k > 0; k-- {
				s.nAttempts++
				r := s.Ops.Gen(s.Rng, w.Det, s.occBuf)
				if r.Allowed {
					if debugHij {
						s.checkHij(w.Det, r)
					}
					if err := s.attemptSpawn(r, ps, uint8(slot), r.HIJ); err != nil {
						return err
					}
				}

				// Hamiltonian walkers source operator walkers through the
				// operator's own off-diagonal elements.
				if hf && slot == 0 && s.Ops.OpGen != nil {
					ro := s.Ops.OpGen(s.Rng, w.Det, s.occBuf)
					if ro.Allowed {
						hij := ro.HIJ
						if s.Ops.OpOffDiag != nil {
							hij = s.Ops.OpOffDiag(w.Det, ro.Exc)
						}
						if err := s.attemptSpawn(ro, ps, 1, hij); err != nil {
							return err
						}
					}
				}
			}

			// Diagonal operator transfer onto the same determinant.
			if hf && slot == 0 && s.Ops.OpDiag != nil {
				rate := s.Params.Tau * (s.Ops.OpDiag(w.Det) - s.opRef()) * float64(abs32(pop))
				nt := stochasticRound(s.Rng, absf(rate))
				if nt != 0 {
					sgn := ps
					if rate > 0 {
						sgn = -ps
					}
					if err := s.push(w.Det.Clone(), sgn*nt, 1); err != nil {
						return err
					}
				}
			}
		}

		for slot := 0; slot < s.Params.SamplingSize; slot++ {
			s.death(w, slot, hdiag)
		}
	}

	return s.annihilate()
}

// opRef is the reference value subtracted from the diagonal operator
// source, keeping the operator-walker population finite.
func (s *State) opRef() float64 {
	if s.Ops.OpDiag == nil {
		return 0
	}
	return s.Ops.OpDiag(s.Ref)
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// VariableShift keeps the shift frozen until the population first exceeds
// the target, then damps it against the population growth over each report:
// S <- S - (damping / (tau ncycles)) ln(N_new / N_old).
func VariableShift(shift float64, vary bool, nNew, nOld int64, p Params) (float64, bool) {
	if !vary {
		if p.TargetPopulation <= 0 || nNew < p.TargetPopulation {
			return shift, false
		}
		vary = true
	}
	if nNew > 0 && nOld > 0 {
		shift -= p.ShiftDamping / (p.Tau * float64(p.NCycles)) * math.Log(float64(nNew)/float64(nOld))
	}
	return shift, true
}
