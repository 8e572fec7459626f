package vq

import (
	"sort"
	"testing"
)

func TestQuickselectByMatchesSortedOrder(t *testing.T) {
	vals := []int{5, 3, 8, 1, 9, 2, 7, 4, 6, 0}
	want := append([]int(nil), vals...)
	sort.Ints(want)

	for k := 0; k < len(vals); k++ {
		got := append([]int(nil), vals...)
		quickselectBy(got, k, func(x int) int { return x })
		if got[k] != want[k] {
			t.Errorf("quickselectBy(k=%d) = %d, want %d", k, got[k], want[k])
		}
	}
}

func TestPartitionByLeavesPivotInPlace(t *testing.T) {
	vals := []int{4, 2, 9, 1, 7, 3}
	p := partitionBy(vals, func(x int) int { return x })
	pivot := vals[p]
	for i, v := range vals {
		if i < p && v > pivot {
			t.Errorf("element %d (%d) left of pivot index %d (%d) is greater", i, v, p, pivot)
		}
		if i > p && v < pivot {
			t.Errorf("element %d (%d) right of pivot index %d (%d) is smaller", i, v, p, pivot)
		}
	}
}
