package algo

import (
	"github.com/benz9527/xseq/lib/infra"
	"github.com/benz9527/xseq/lib/seq"
)

// LowerBoundFunc returns the smallest index i in [0, n] such that the
// element at i does not satisfy cmp(element, sought). It is the leftmost
// slot where sought can be inserted without breaking the order of s.
//
// s has to be ordered by cmp. With Greater it means descending, so the
// result is the first element not greater than sought. Callers who keep
// s ascending must pass Less explicitly.
func LowerBoundFunc[E any](s seq.Sequence[E], sought E, cmp Comparator[E]) int {
	if s == nil {
		return 0
	}
	lower, upper := 0, s.Len()
	for lower < upper {
		mid := lower + (upper-lower)/2
		if cmp(s.At(mid), sought) {
			lower = mid + 1
		} else {
			upper = mid
		}
	}
	return lower
}

// UpperBoundFunc returns the smallest index i in [0, n] such that
// cmp(sought, element) holds, i.e. the slot after the elements equal to
// sought.
func UpperBoundFunc[E any](s seq.Sequence[E], sought E, cmp Comparator[E]) int {
	if s == nil {
		return 0
	}
	lower, upper := 0, s.Len()
	for lower < upper {
		mid := lower + (upper-lower)/2
		if cmp(sought, s.At(mid)) {
			upper = mid
		} else {
			lower = mid + 1
		}
	}
	return lower
}

// LowerBound searches a descending constant sequence with GreaterValue.
func LowerBound[T infra.OrderedKey](s seq.Sequence[seq.Constant[T]], sought seq.Constant[T]) int {
	return LowerBoundFunc(s, sought, GreaterValue[T])
}
