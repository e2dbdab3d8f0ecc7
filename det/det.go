// Package det implements bit-string Slater determinants.
//
// A determinant packs the occupations of n_basis spin-orbitals into 64-bit
// words. Orbital o (1-indexed) lives in bit (o-1) mod 64 of word (o-1) div 64.
// Spatial site s owns the alpha orbital 2s-1 and the beta orbital 2s.
package det

import (
	"encoding/binary"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

const wordBits = 64

type Det []uint64

// BasisLength returns the number of words needed for nbasis spin-orbitals.
func BasisLength(nbasis int) int {
	return (nbasis + wordBits - 1) / wordBits
}

func New(nbasis int) Det {
	return make(Det, BasisLength(nbasis))
}

// FromOrbs builds a determinant from a list of 1-indexed occupied orbitals.
func FromOrbs(nbasis int, orbs []int) Det {
	d := New(nbasis)
	for _, o := range orbs {
		d.Set(o)
	}
	return d
}

func (d Det) Clone() Det {
	c := make(Det, len(d))
	copy(c, d)
	return c
}

func (d Det) Set(o int) {
	d[(o-1)/wordBits] |= 1 << uint((o-1)%wordBits)
}

func (d Det) Clear(o int) {
	d[(o-1)/wordBits] &^= 1 << uint((o-1)%wordBits)
}

func (d Det) Test(o int) bool {
	return d[(o-1)/wordBits]&(1<<uint((o-1)%wordBits)) != 0
}

func (d Det) Count() int {
	n := 0
	for _, w := range d {
		n += bits.OnesCount64(w)
	}
	return n
}

// Occupied appends the 1-indexed occupied orbitals to buf[:0] in ascending
// order.
func (d Det) Occupied(buf []int) []int {
	buf = buf[:0]
	for wi, w := range d {
		for w != 0 {
			buf = append(buf, wi*wordBits+bits.TrailingZeros64(w)+1)
			w &= w - 1
		}
	}
	return buf
}

// Unoccupied appends the 1-indexed unoccupied orbitals among 1..nbasis to
// buf[:0] in ascending order.
func (d Det) Unoccupied(nbasis int, buf []int) []int {
	buf = buf[:0]
	for o := 1; o <= nbasis; o++ {
		if !d.Test(o) {
			buf = append(buf, o)
		}
	}
	return buf
}

// NthSet returns the orbital of the n-th set bit, with n counting from zero,
// or -1 if fewer than n+1 bits are set.
func (d Det) NthSet(n int) int {
	for wi, w := range d {
		c := bits.OnesCount64(w)
		if n >= c {
			n -= c
			continue
		}
		for ; n > 0; n-- {
			w &= w - 1
		}
		return wi*wordBits + bits.TrailingZeros64(w) + 1
	}
	return -1
}

// And sets dst = a & b.
func And(dst, a, b Det) Det {
	for i := range a {
		dst[i] = a[i] & b[i]
	}
	return dst
}

// AndNot sets dst = a &^ b.
func AndNot(dst, a, b Det) Det {
	for i := range a {
		dst[i] = a[i] &^ b[i]
	}
	return dst
}

// Cmp orders determinants by their bit strings, most significant word first.
func Cmp(a, b Det) int {
	for i := len(a) - 1; i >= 0; i-- {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

func (d Det) Equal(b Det) bool {
	return Cmp(d, b) == 0
}

// Level returns the excitation level connecting a and b.
func Level(a, b Det) int {
	n := 0
	for i := range a {
		n += bits.OnesCount64(a[i] ^ b[i])
	}
	return n / 2
}

// AppendBytes appends the little-endian byte layout of d to buf. This layout
// is the externally observable determinant encoding used by restart files and
// by the partition hash.
func (d Det) AppendBytes(buf []byte) []byte {
	for _, w := range d {
		buf = binary.LittleEndian.AppendUint64(buf, w)
	}
	return buf
}

// FromBytes decodes a determinant from its little-endian byte layout.
func FromBytes(b []byte) Det {
	d := make(Det, len(b)/8)
	for i := range d {
		d[i] = binary.LittleEndian.Uint64(b[8*i:])
	}
	return d
}

// Hash returns the xxhash of the byte layout of d. The hash assigns
// determinants to processes; it is deterministic across runs so that a given
// seed and partition reproduce bitwise identical results.
func (d Det) Hash() uint64 {
	buf := make([]byte, 0, 8*len(d))
	return xxhash.Sum64(d.AppendBytes(buf))
}
