package det

import "math/bits"

// Excit describes a one or two electron connection between determinants.
// From and To are 1-indexed orbitals in ascending order. Perm is true when
// lining up the source and target orbitals with the determinants' sort order
// costs an odd permutation.
type Excit struct {
	N    int
	From [2]int
	To   [2]int
	Perm bool
}

// Reverse returns the excitation mapping the target determinant back onto
// the source. The alignment permutation is the same in both directions.
func Reverse(e Excit) Excit {
	return Excit{N: e.N, From: e.To, To: e.From, Perm: e.Perm}
}

// Parity1 reports whether exciting i to a in d costs an odd permutation,
// counting the occupied orbitals strictly between i and a.
func Parity1(d Det, i, a int) bool {
	lo, hi := i, a
	if lo > hi {
		lo, hi = hi, lo
	}
	n := 0
	for o := lo + 1; o < hi; o++ {
		if d.Test(o) {
			n++
		}
	}
	return n%2 == 1
}

// Parity2 reports the permutation parity of the double excitation pairing
// i with a and j with b, applied as two sequential singles.
func Parity2(d Det, i, j, a, b int) bool {
	p := Parity1(d, i, a)
	d1 := d.Clone()
	d1.Clear(i)
	d1.Set(a)
	return p != Parity1(d1, j, b)
}

// Single builds the excitation record for i -> a on d.
func Single(d Det, i, a int) Excit {
	return Excit{N: 1, From: [2]int{i, 0}, To: [2]int{a, 0}, Perm: Parity1(d, i, a)}
}

// Double builds the excitation record for i,j -> a,b on d, ordering both
// orbital pairs ascending and pairing From[0] with To[0].
func Double(d Det, i, j, a, b int) Excit {
	if i > j {
		i, j = j, i
	}
	if a > b {
		a, b = b, a
	}
	return Excit{N: 2, From: [2]int{i, j}, To: [2]int{a, b}, Perm: Parity2(d, i, j, a, b)}
}

// Apply returns the determinant obtained by applying e to d.
func Apply(d Det, e Excit) Det {
	out := d.Clone()
	for k := 0; k < e.N; k++ {
		out.Clear(e.From[k])
		out.Set(e.To[k])
	}
	return out
}

// Between builds the excitation record connecting from to to. For levels
// above two only N is filled in.
func Between(from, to Det) Excit {
	var e Excit
	var nf, nt int
	for wi := range from {
		df := from[wi] &^ to[wi]
		for df != 0 {
			o := wi*wordBits + bits.TrailingZeros64(df) + 1
			if nf < 2 {
				e.From[nf] = o
			}
			nf++
			df &= df - 1
		}
		dt := to[wi] &^ from[wi]
		for dt != 0 {
			o := wi*wordBits + bits.TrailingZeros64(dt) + 1
			if nt < 2 {
				e.To[nt] = o
			}
			nt++
			dt &= dt - 1
		}
	}
	e.N = nf
	if nf > 2 {
		return e
	}
	switch nf {
	case 1:
		e.Perm = Parity1(from, e.From[0], e.To[0])
	case 2:
		e.Perm = Parity2(from, e.From[0], e.From[1], e.To[0], e.To[1])
	}
	return e
}
