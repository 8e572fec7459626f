package vq

import "cmp"

// partitionBy reorders s in place around a median-of-three pivot (on
// key) and returns the pivot's final index, Lomuto-style.
func partitionBy[T any, K cmp.Ordered](s []T, key func(T) K) int {
	n := len(s)
	mid := n / 2
	last := n - 1
	three := [3]int{0, mid, last}
	if key(s[three[1]]) < key(s[three[0]]) {
		three[0], three[1] = three[1], three[0]
	}
	if key(s[three[2]]) < key(s[three[1]]) {
		three[1], three[2] = three[2], three[1]
	}
	if key(s[three[1]]) < key(s[three[0]]) {
		three[0], three[1] = three[1], three[0]
	}
	pivotIdx := three[1]
	pivotVal := key(s[pivotIdx])
	s[pivotIdx], s[last] = s[last], s[pivotIdx]
	store := 0
	for read := 0; read < last; read++ {
		if key(s[read]) <= pivotVal {
			s[read], s[store] = s[store], s[read]
			store++
		}
	}
	s[last], s[store] = s[store], s[last]
	return store
}

// quickselectBy partitions s in place so that s[k] holds the element that
// would be at index k in sorted order (nth_element).
func quickselectBy[T any, K cmp.Ordered](s []T, k int, key func(T) K) {
	lo, hi := 0, len(s)
	for {
		if hi-lo <= 1 {
			return
		}
		p := partitionBy(s[lo:hi], key) + lo
		switch {
		case p == k:
			return
		case k < p:
			hi = p
		default:
			lo = p + 1
		}
	}
}
