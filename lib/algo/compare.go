package algo

import (
	"github.com/benz9527/xseq/lib/infra"
	"github.com/benz9527/xseq/lib/seq"
)

// Comparator is a strict ordering. cmp(a, b) reports whether a has
// to be placed before b. It must be irreflexive and transitive,
// otherwise the sort results are unspecified.
type Comparator[E any] func(a, b E) bool

// Predicate is a unary test over one element.
type Predicate[E any] func(e E) bool

func Less[T infra.OrderedKey](a, b T) bool {
	return a < b
}

func Greater[T infra.OrderedKey](a, b T) bool {
	return a > b
}

func LessValue[T infra.OrderedKey](a, b seq.Constant[T]) bool {
	return a.Value() < b.Value()
}

// GreaterValue is the default comparator of LowerBound and SortT.
func GreaterValue[T infra.OrderedKey](a, b seq.Constant[T]) bool {
	return a.Value() > b.Value()
}

func LessSize[E seq.Sized](a, b E) bool {
	return a.Size() < b.Size()
}

func GreaterSize[E seq.Sized](a, b E) bool {
	return a.Size() > b.Size()
}

// FromThreeWay adapts a three-way comparator into a Comparator over
// the constant carriers. Negative results place i before j.
func FromThreeWay[T infra.OrderedKey](cmp infra.OrderedKeyComparator[T]) Comparator[seq.Constant[T]] {
	return func(a, b seq.Constant[T]) bool {
		return cmp(a.Value(), b.Value()) < 0
	}
}

// Invert swaps the operands, so the strictness is kept.
func Invert[E any](cmp Comparator[E]) Comparator[E] {
	return func(a, b E) bool {
		return cmp(b, a)
	}
}

func Not[E any](p Predicate[E]) Predicate[E] {
	return func(e E) bool {
		return !p(e)
	}
}

func And[E any](preds ...Predicate[E]) Predicate[E] {
	return func(e E) bool {
		for _, p := range preds {
			if !p(e) {
				return false
			}
		}
		return true
	}
}

func Or[E any](preds ...Predicate[E]) Predicate[E] {
	return func(e E) bool {
		for _, p := range preds {
			if p(e) {
				return true
			}
		}
		return false
	}
}

// LessEqualThan holds for the constants <= ref.
func LessEqualThan[T infra.OrderedKey](ref seq.Constant[T]) Predicate[seq.Constant[T]] {
	return func(e seq.Constant[T]) bool {
		return e.Value() <= ref.Value()
	}
}

// GreaterThan holds for the constants > ref.
func GreaterThan[T infra.OrderedKey](ref seq.Constant[T]) Predicate[seq.Constant[T]] {
	return func(e seq.Constant[T]) bool {
		return e.Value() > ref.Value()
	}
}

// After holds for the elements that cmp places strictly after ref.
func After[E any](cmp Comparator[E], ref E) Predicate[E] {
	return func(e E) bool {
		return cmp(ref, e)
	}
}
