package algo

import (
	"github.com/benz9527/xseq/lib/infra"
	"github.com/benz9527/xseq/lib/seq"
)

type searchFunc[E any] func(s seq.Sequence[E], sought E, cmp Comparator[E]) int

// SortTFunc sorts by binary insertion. The prefix [0, i) is kept sorted,
// the element at i is searched in it by LowerBoundFunc and spliced into
// its slot:
//
//	head[0, pos) ++ incoming ++ middle[pos, i) ++ tail[i+1, n)
//
// Each step pays O(log i) comparisons and an O(n) rebuild, so the
// comparisons are O(n log n) in total while the splices stay O(n^2).
// Equal elements are not guaranteed to keep their input order, see
// StableSortTFunc.
func SortTFunc[E any](s seq.Sequence[E], cmp Comparator[E]) seq.Sequence[E] {
	return insertionSort(s, cmp, LowerBoundFunc[E])
}

// StableSortTFunc is SortTFunc searching with UpperBoundFunc, the
// incoming element lands after its equals.
func StableSortTFunc[E any](s seq.Sequence[E], cmp Comparator[E]) seq.Sequence[E] {
	return insertionSort(s, cmp, UpperBoundFunc[E])
}

// SortT sorts the constants in descending order.
func SortT[T infra.OrderedKey](s seq.Sequence[seq.Constant[T]]) seq.Sequence[seq.Constant[T]] {
	return SortTFunc(s, GreaterValue[T])
}

func insertionSort[E any](s seq.Sequence[E], cmp Comparator[E], search searchFunc[E]) seq.Sequence[E] {
	if cmp == nil {
		panic(infra.NewErrorStack("[algo] insertion sort with nil comparator"))
	}
	if s == nil {
		return seq.Empty[E]()
	}
	n := s.Len()
	if n <= 1 {
		return s
	}

	sorted := s
	for i := 1; i < n; i++ {
		incoming := sorted.At(i)
		prefix := sorted.Slice(0, i)
		pos := search(prefix, incoming, cmp)
		if pos == i {
			continue
		}
		sorted = seq.Concat(
			prefix.Slice(0, pos),
			seq.New(incoming),
			prefix.Slice(pos, i),
			sorted.Slice(i+1, n),
		)
	}
	return sorted
}
