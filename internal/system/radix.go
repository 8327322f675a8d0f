package system

import "fmt"

// Mixed-radix joint-state indexing. Element 0 varies fastest: for
// cardinalities [3,3,3,3], index 42 = 1120₃ decodes to values [0,2,1,1].
// This generalizes binary bit extraction to arbitrary per-element bases;
// nothing in this file may assume radix 2.

// StateCount returns ∏ cards. Zero or negative cardinalities are invalid
// and yield 0 so callers fail loudly on the size check instead of
// computing over a nonsense space.
func StateCount(cards []int) int {
	if len(cards) == 0 {
		return 0
	}
	total := 1
	for _, c := range cards {
		if c < 1 {
			return 0
		}
		total *= c
	}
	return total
}

// Decode expands a joint-state index into per-element values by repeated
// division and modulo by each element's cardinality. O(N).
func Decode(idx int, cards []int) ([]int, error) {
	total := StateCount(cards)
	if total == 0 {
		return nil, fmt.Errorf("decode: invalid cardinalities %v", cards)
	}
	if idx < 0 || idx >= total {
		return nil, fmt.Errorf("decode: index %d out of range [0,%d)", idx, total)
	}
	values := make([]int, len(cards))
	for i, c := range cards {
		values[i] = idx % c
		idx /= c
	}
	return values, nil
}

// Encode packs per-element values into a joint-state index. O(N).
// Inverse of Decode for all valid inputs.
func Encode(values []int, cards []int) (int, error) {
	if len(values) != len(cards) {
		return 0, fmt.Errorf("encode: %d values for %d cardinalities", len(values), len(cards))
	}
	idx := 0
	stride := 1
	for i, c := range cards {
		if c < 1 {
			return 0, fmt.Errorf("encode: invalid cardinality %d for element %d", c, i)
		}
		if values[i] < 0 || values[i] >= c {
			return 0, fmt.Errorf("encode: value %d out of range [0,%d) for element %d", values[i], c, i)
		}
		idx += values[i] * stride
		stride *= c
	}
	return idx, nil
}

// SubIndex encodes the values a full joint-state vector takes on a subset
// of element positions, using the subset's own cardinalities. This is the
// marginalization workhorse: grouping joint states by SubIndex sums out
// every element not in the subset.
func SubIndex(values []int, subset []int, cards []int) int {
	idx := 0
	stride := 1
	for _, e := range subset {
		idx += values[e] * stride
		stride *= cards[e]
	}
	return idx
}

// SubCount returns the joint-state count of a subset of elements.
func SubCount(subset []int, cards []int) int {
	total := 1
	for _, e := range subset {
		total *= cards[e]
	}
	return total
}
