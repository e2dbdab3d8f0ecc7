package fciqmc

import "github.com/robertodr/hande/det"

// Owner assigns a determinant to one of nproc processes by hashing its bit
// string. Spawned walkers are routed to their owner at the cycle boundary;
// the hash is deterministic, so a given seed and partition reproduce
// bitwise identical results.
func Owner(d det.Det, nproc int) int {
	return int(d.Hash() % uint64(nproc))
}
