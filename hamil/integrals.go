package hamil

// Integrals stores the one and two electron integrals of a molecular system
// over spatial orbitals, in the shape an external FCIDUMP reader hands over:
// a dense one-electron matrix and an eight-fold symmetric two-electron store
// in the Mulliken (ij|kl) convention, plus the core energy and the orbital
// symmetry labels.
type Integrals struct {
	NOrb   int
	Ecore  float64
	OrbSym []int

	oneE []float64
	twoE map[int]float64
}

func NewIntegrals(norb int, ecore float64, orbSym []int) *Integrals {
	return &Integrals{
		NOrb:   norb,
		Ecore:  ecore,
		OrbSym: orbSym,
		oneE:   make([]float64, norb*norb),
		twoE:   make(map[int]float64),
	}
}

// SetOneE stores <i|h|j> for 1-indexed spatial orbitals.
func (g *Integrals) SetOneE(i, j int, v float64) {
	g.oneE[(i-1)*g.NOrb+j-1] = v
	g.oneE[(j-1)*g.NOrb+i-1] = v
}

func (g *Integrals) OneE(i, j int) float64 {
	return g.oneE[(i-1)*g.NOrb+j-1]
}

// SetChemist stores (ij|kl); all eight permutational images become
// retrievable.
func (g *Integrals) SetChemist(i, j, k, l int, v float64) {
	g.twoE[chemistKey(i, j, k, l)] = v
}

// Chemist returns (ij|kl) in the Mulliken convention, zero when unset.
func (g *Integrals) Chemist(i, j, k, l int) float64 {
	return g.twoE[chemistKey(i, j, k, l)]
}

func chemistKey(i, j, k, l int) int {
	p := tri(i, j)
	q := tri(k, l)
	return tri(p, q)
}

func tri(a, b int) int {
	if a < b {
		a, b = b, a
	}
	return a*(a-1)/2 + b
}
