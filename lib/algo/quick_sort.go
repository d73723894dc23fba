package algo

import (
	"github.com/benz9527/xseq/lib/infra"
	"github.com/benz9527/xseq/lib/seq"
)

type partitioner[E any] func(pivot E) (lower, upper Predicate[E])

// QuickSort sorts the constants in ascending order. The pivot is always
// the first element, so an already sorted input degrades to O(n^2).
func QuickSort[T infra.OrderedKey](s seq.Sequence[seq.Constant[T]]) seq.Sequence[seq.Constant[T]] {
	return quickSort(s, func(pivot seq.Constant[T]) (Predicate[seq.Constant[T]], Predicate[seq.Constant[T]]) {
		return LessEqualThan(pivot), GreaterThan(pivot)
	})
}

// QuickSortFunc is QuickSort ordered by cmp. The elements cmp places
// strictly after the pivot go to the upper part, the rest to the lower.
// QuickSortFunc(s, LessValue) equals QuickSort(s).
func QuickSortFunc[E any](s seq.Sequence[E], cmp Comparator[E]) seq.Sequence[E] {
	if cmp == nil {
		panic(infra.NewErrorStack("[algo] quick sort with nil comparator"))
	}
	return quickSort(s, func(pivot E) (Predicate[E], Predicate[E]) {
		upper := After(cmp, pivot)
		return Not(upper), upper
	})
}

// The pivot is excluded from both parts, so every call recurses on
// strictly shorter sequences and terminates.
func quickSort[E any](s seq.Sequence[E], partition partitioner[E]) seq.Sequence[E] {
	if s == nil || s.IsEmpty() {
		return seq.Empty[E]()
	}
	if s.Len() == 1 {
		return s
	}
	pivot, rest := s.Front(), s.PopFront()
	lowerOf, upperOf := partition(pivot)
	return seq.Join(
		pivot,
		quickSort(Filter(rest, lowerOf), partition),
		quickSort(Filter(rest, upperOf), partition),
	)
}
