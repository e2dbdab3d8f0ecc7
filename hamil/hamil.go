// Package hamil evaluates Hamiltonian matrix elements between bit-string
// determinants via the Slater-Condon rules, specialised per system.
package hamil

import (
	"github.com/robertodr/hande/det"
)

// System is a Hamiltonian oracle over determinants of a fixed electron
// number. All methods are total over validly constructed inputs.
type System interface {
	NBasis() int
	NEl() int
	// Diag returns <D|H|D>.
	Diag(d det.Det) float64
	// SlaterCondon1 returns <D|H|D'> for the single excitation e on d.
	SlaterCondon1(d det.Det, e det.Excit) float64
	// SlaterCondon2 returns <D|H|D'> for the double excitation e on d.
	SlaterCondon2(d det.Det, e det.Excit) float64
}

// Element returns <from|H|to> for an arbitrary determinant pair.
func Element(s System, from, to det.Det) float64 {
	e := det.Between(from, to)
	switch e.N {
	case 0:
		return s.Diag(from)
	case 1:
		return s.SlaterCondon1(from, e)
	case 2:
		return s.SlaterCondon2(from, e)
	default:
		return 0
	}
}
