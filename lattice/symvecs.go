package lattice

import "slices"

// TranslationalSymVecs enumerates the translation symmetry vectors of the
// supercell: the basis vectors themselves plus all pair and triple sums.
// Duplicates and the identity are removed, and the result is returned in a
// deterministic order.
func TranslationalSymVecs(dims []int) [][3]int {
	basis := make([][3]int, len(dims))
	for k, l := range dims {
		basis[k][k] = l
	}

	seen := make(map[[3]int]bool)
	vecs := make([][3]int, 0)
	add := func(v [3]int) {
		if v == ([3]int{}) || seen[v] {
			return
		}
		seen[v] = true
		vecs = append(vecs, v)
	}

	for i, vi := range basis {
		add(vi)
		for j := i + 1; j < len(basis); j++ {
			add(sum(vi, basis[j]))
			for k := j + 1; k < len(basis); k++ {
				add(sum(sum(vi, basis[j]), basis[k]))
			}
		}
	}

	slices.SortFunc(vecs, func(a, b [3]int) int {
		for k := range a {
			switch {
			case a[k] < b[k]:
				return -1
			case a[k] > b[k]:
				return 1
			}
		}
		return 0
	})
	return vecs
}

func sum(a, b [3]int) [3]int {
	for k := range a {
		a[k] += b[k]
	}
	return a
}
