// Package partition enumerates system bipartitions for the Φ search.
// Partitions are unordered: {A,B} and {B,A} describe the same cut, so the
// generator emits each pair exactly once by pinning element 0 to side A.
package partition

import (
	"errors"
	"fmt"
	"math/rand"
)

// MaxElements is the hard ceiling on exhaustive enumeration. 2^(20-1)-1
// partitions is already over half a million; beyond that exhaustive search
// is infeasible regardless of per-partition cost.
const MaxElements = 20

// ErrComputationInfeasible reports a system too large for exhaustive
// partition enumeration.
var ErrComputationInfeasible = errors.New("exhaustive partition enumeration infeasible")

// CutDirection says how a cut severs the connections across a
// bipartition.
type CutDirection int

const (
	// Unidirectional cuts sever the weaker direction only.
	Unidirectional CutDirection = iota
	// Bidirectional cuts sever both directions at once.
	Bidirectional
)

// Partition is one bipartition of element indices. Both sides are
// non-empty, sorted ascending, and disjoint; together they cover 0..N-1.
// The generators emit unidirectional cuts; callers flip Cut to score a
// full severance.
type Partition struct {
	A   []int
	B   []int
	Cut CutDirection
}

func (p Partition) String() string {
	return fmt.Sprintf("%v|%v", p.A, p.B)
}

// Count returns the number of distinct bipartitions of n elements,
// 2^(n-1)-1. Zero for n < 2, where no bipartition exists.
func Count(n int) int {
	if n < 2 {
		return 0
	}
	return 1<<(n-1) - 1
}

// fromMask builds the partition for a bit mask over n elements. Set bits
// select side A. The mask must keep bit 0 set and leave at least one bit
// clear.
func fromMask(mask uint64, n int) Partition {
	var p Partition
	for i := 0; i < n; i++ {
		if mask&(1<<uint(i)) != 0 {
			p.A = append(p.A, i)
		} else {
			p.B = append(p.B, i)
		}
	}
	return p
}

// Iterator lazily walks every distinct bipartition of n elements in mask
// order. Lazy enumeration keeps memory flat even at the size cap.
type Iterator struct {
	n    int
	mask uint64
	last uint64
}

// Exact returns an iterator over all Count(n) bipartitions.
func Exact(n int) (*Iterator, error) {
	if n < 2 {
		return nil, fmt.Errorf("partition: need at least 2 elements, got %d", n)
	}
	if n > MaxElements {
		return nil, fmt.Errorf("%w: %d elements exceeds the cap of %d", ErrComputationInfeasible, n, MaxElements)
	}
	// Masks run over subsets containing element 0 but not all elements.
	// Stepping by 2 with bit 0 forced keeps element 0 on side A.
	return &Iterator{n: n, mask: 1, last: 1<<uint(n) - 2}, nil
}

// Next returns the next partition, or ok=false when exhausted.
func (it *Iterator) Next() (Partition, bool) {
	if it.mask > it.last {
		return Partition{}, false
	}
	p := fromMask(it.mask, it.n)
	it.mask += 2
	return p, true
}

// Sample draws count bipartitions uniformly at random with a seeded
// source. Draws that land on an empty side are repaired by moving one
// random element across, and every draw is canonicalized so element 0
// sits on side A. Duplicates are allowed; the same seed yields the same
// sequence.
func Sample(n, count int, seed int64) ([]Partition, error) {
	if n < 2 {
		return nil, fmt.Errorf("partition: need at least 2 elements, got %d", n)
	}
	if count < 1 {
		return nil, fmt.Errorf("partition: sample count must be positive, got %d", count)
	}
	rng := rand.New(rand.NewSource(seed))
	out := make([]Partition, 0, count)
	for len(out) < count {
		var mask uint64
		for i := 0; i < n; i++ {
			if rng.Intn(2) == 1 {
				mask |= 1 << uint(i)
			}
		}
		full := uint64(1)<<uint(n) - 1
		switch mask {
		case 0:
			mask |= 1 << uint(rng.Intn(n))
		case full:
			mask &^= 1 << uint(rng.Intn(n))
		}
		if mask&1 == 0 {
			mask = full &^ mask
		}
		out = append(out, fromMask(mask, n))
	}
	return out, nil
}
