// Package fciqmc evolves a signed population of integer-weighted walkers
// over a determinant space: spawning onto connected determinants, diagonal
// death and cloning against a population-controlling shift, and an
// annihilation sweep merging same-determinant walkers each cycle.
package fciqmc

import (
	"github.com/robertodr/hande/det"
	"github.com/robertodr/hande/excitgen"
	"github.com/robertodr/hande/hamil"
)

// SystemOps bundles the per-system behaviour of the walker loop as a
// capability value bound at initialisation. The Op fields describe the
// sampled Hellmann-Feynman operator; they are nil for plain FCIQMC.
type SystemOps struct {
	NBasis int

	Diag    func(d det.Det) float64
	OffDiag func(d det.Det, e det.Excit) float64
	Gen     excitgen.Func

	OpDiag    func(d det.Det) float64
	OpOffDiag func(d det.Det, e det.Excit) float64
	OpGen     excitgen.Func
}

// NewOps binds a Hamiltonian oracle and an excitation generator into the
// capability value consumed by the loop.
func NewOps(sys hamil.System, gen excitgen.Func) SystemOps {
	return SystemOps{
		NBasis: sys.NBasis(),
		Diag:   sys.Diag,
		OffDiag: func(d det.Det, e det.Excit) float64 {
			switch e.N {
			case 1:
				return sys.SlaterCondon1(d, e)
			case 2:
				return sys.SlaterCondon2(d, e)
			default:
				return 0
			}
		},
		Gen: gen,
	}
}

// WithDoubleOccOp equips ops with the double-occupancy operator, the
// Hellmann-Feynman conjugate of the interaction strength: sampling it
// estimates dE/dU. The operator is diagonal in the site basis, so only the
// diagonal transfer path is exercised.
func (o SystemOps) WithDoubleOccOp() SystemOps {
	o.OpDiag = func(d det.Det) float64 { return float64(hamil.DoubleOcc(d)) }
	return o
}
