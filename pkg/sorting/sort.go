// Package sorting implements an in-place dual-pivot quicksort.
//
// The comparator must define a consistent total preorder over the elements.
// If it does not, the resulting order is unspecified; no attempt is made to
// detect inconsistent comparators at runtime.
//
// The sort is not stable.
package sorting

import (
	"github.com/johnjamespj/corelib/pkg/errs"
	"github.com/johnjamespj/corelib/pkg/util"
)

// InsertionSortThreshold is the range width at or below which insertion sort
// is used instead of partitioning.
const InsertionSortThreshold = 32

// Sort sorts a in place according to compare.
func Sort[V any](a []V, compare func(a, b V) int) {
	doSort(a, 0, len(a)-1, compare)
}

// SortRange sorts a[from:to] in place. It fails with an InvalidRange error
// unless 0 <= from <= to <= len(a).
func SortRange[V any](a []V, from, to int, compare func(a, b V) int) error {
	if from < 0 || to > len(a) || to < from {
		return errs.InvalidRange(from, to, len(a))
	}
	doSort(a, from, to-1, compare)
	return nil
}

// SortComparable sorts values that know how to compare themselves.
func SortComparable[V util.Comparable[V]](a []V) {
	Sort(a, util.Compare[V])
}

func doSort[V any](a []V, left, right int, compare func(a, b V) int) {
	if right-left <= InsertionSortThreshold {
		insertionSort(a, left, right, compare)
	} else {
		dualPivotQuicksort(a, left, right, compare)
	}
}

func insertionSort[V any](a []V, left, right int, compare func(a, b V) int) {
	for i := left + 1; i <= right; i++ {
		el := a[i]
		j := i
		for j > left && compare(a[j-1], el) > 0 {
			a[j] = a[j-1]
			j--
		}
		a[j] = el
	}
}

func dualPivotQuicksort[V any](a []V, left, right int, compare func(a, b V) int) {
	sixth := (right - left + 1) / 6
	index1 := left + sixth
	index5 := right - sixth
	index3 := (left + right) / 2
	index2 := index3 - sixth
	index4 := index3 + sixth

	el1 := a[index1]
	el2 := a[index2]
	el3 := a[index3]
	el4 := a[index4]
	el5 := a[index5]

	// 5-element sorting network.
	if compare(el1, el2) > 0 {
		el1, el2 = el2, el1
	}
	if compare(el4, el5) > 0 {
		el4, el5 = el5, el4
	}
	if compare(el1, el3) > 0 {
		el1, el3 = el3, el1
	}
	if compare(el2, el3) > 0 {
		el2, el3 = el3, el2
	}
	if compare(el1, el4) > 0 {
		el1, el4 = el4, el1
	}
	if compare(el3, el4) > 0 {
		el3, el4 = el4, el3
	}
	if compare(el2, el5) > 0 {
		el2, el5 = el5, el2
	}
	if compare(el2, el3) > 0 {
		el2, el3 = el3, el2
	}
	if compare(el4, el5) > 0 {
		el4, el5 = el5, el4
	}

	pivot1 := el2
	pivot2 := el4

	// The pivots are parked at the edges and put in place after partitioning.
	a[index1] = el1
	a[index3] = el3
	a[index5] = el5
	a[index2] = a[left]
	a[index4] = a[right]

	less := left + 1
	great := right - 1

	pivotsAreEqual := compare(pivot1, pivot2) == 0
	if pivotsAreEqual {
		pivot := pivot1
		for k := less; k <= great; k++ {
			ak := a[k]
			comp := compare(ak, pivot)
			if comp == 0 {
				continue
			}
			if comp < 0 {
				if k != less {
					a[k] = a[less]
					a[less] = ak
				}
				less++
				continue
			}
			for {
				comp = compare(a[great], pivot)
				if comp > 0 {
					great--
					continue
				}
				if comp < 0 {
					a[k] = a[less]
					a[less] = a[great]
					less++
					a[great] = ak
					great--
				} else {
					a[k] = a[great]
					a[great] = ak
					great--
				}
				break
			}
		}
	} else {
		for k := less; k <= great; k++ {
			ak := a[k]
			if compare(ak, pivot1) < 0 {
				if k != less {
					a[k] = a[less]
					a[less] = ak
				}
				less++
				continue
			}
			if compare(ak, pivot2) <= 0 {
				continue
			}
			for {
				if compare(a[great], pivot2) > 0 {
					great--
					if great < k {
						break
					}
					continue
				}
				if compare(a[great], pivot1) < 0 {
					a[k] = a[less]
					a[less] = a[great]
					less++
					a[great] = ak
					great--
				} else {
					a[k] = a[great]
					a[great] = ak
					great--
				}
				break
			}
		}
	}

	a[left] = a[less-1]
	a[less-1] = pivot1
	a[right] = a[great+1]
	a[great+1] = pivot2

	doSort(a, left, less-2, compare)
	doSort(a, great+2, right, compare)

	if pivotsAreEqual {
		// Everything between less and great equals the pivot.
		return
	}

	if less < index1 && great > index5 {
		// The middle partition is large; move elements equal to a pivot out of
		// the way before recursing.
		for compare(a[less], pivot1) == 0 {
			less++
		}
		for compare(a[great], pivot2) == 0 {
			great--
		}

		for k := less; k <= great; k++ {
			ak := a[k]
			if compare(ak, pivot1) == 0 {
				if k != less {
					a[k] = a[less]
					a[less] = ak
				}
				less++
				continue
			}
			if compare(ak, pivot2) != 0 {
				continue
			}
			for {
				if compare(a[great], pivot2) == 0 {
					great--
					if great < k {
						break
					}
					continue
				}
				if compare(a[great], pivot1) < 0 {
					a[k] = a[less]
					a[less] = a[great]
					less++
					a[great] = ak
					great--
				} else {
					a[k] = a[great]
					a[great] = ak
					great--
				}
				break
			}
		}
	}

	doSort(a, less, great, compare)
}
