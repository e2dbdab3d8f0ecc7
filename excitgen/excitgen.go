// Package excitgen samples connected determinants for the stochastic walker
// engine.
//
// All generators share one contract: given the current determinant and its
// cached occupied-orbital list, return the excited determinant, the matrix
// element coupling to it, and the probability with which that particular
// outcome is generated. A generator that lands on a forbidden draw returns a
// null result with PGen 1 and HIJ 0, which keeps downstream divisions safe
// without renormalising the attempt split.
package excitgen

import (
	"math/rand/v2"

	"github.com/robertodr/hande/det"
)

type Result struct {
	Exc     det.Excit
	Dst     det.Det
	HIJ     float64
	PGen    float64
	Allowed bool
}

// Func is the generator signature consumed by the walker loop. Generators
// carry internal scratch space and are single-writer: one generator value
// per process.
type Func func(rng *rand.Rand, d det.Det, occ []int) Result

func null() Result {
	return Result{PGen: 1}
}
