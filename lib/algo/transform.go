package algo

import (
	"github.com/samber/lo"

	"github.com/benz9527/xseq/lib/infra"
	"github.com/benz9527/xseq/lib/seq"
)

// Filter keeps the elements satisfying p in their original order.
func Filter[E any](s seq.Sequence[E], p Predicate[E]) seq.Sequence[E] {
	if s == nil || s.IsEmpty() {
		return seq.Empty[E]()
	}
	return seq.New(lo.Filter(s.Values(), func(e E, _ int) bool {
		return p(e)
	})...)
}

// Remove drops the elements satisfying p.
func Remove[E any](s seq.Sequence[E], p Predicate[E]) seq.Sequence[E] {
	return Filter(s, Not(p))
}

func Transform[E, R any](s seq.Sequence[E], fn func(e E) R) seq.Sequence[R] {
	if s == nil || s.IsEmpty() {
		return seq.Empty[R]()
	}
	return seq.New(lo.Map(s.Values(), func(e E, _ int) R {
		return fn(e)
	})...)
}

// Accumulate folds s from the front, starting with init.
func Accumulate[E, A any](s seq.Sequence[E], fn func(acc A, e E) A, init A) A {
	if s == nil || s.IsEmpty() {
		return init
	}
	return lo.Reduce(s.Values(), func(acc A, e E, _ int) A {
		return fn(acc, e)
	}, init)
}

// LargerValue is an Accumulate reducer keeping the maximum constant.
func LargerValue[T infra.OrderedKey](acc, e seq.Constant[T]) seq.Constant[T] {
	if acc.Value() < e.Value() {
		return e
	}
	return acc
}

// LargerType is an Accumulate reducer keeping the element whose type
// is the widest. The accumulator wins the ties.
func LargerType[E seq.Sized](acc, e E) E {
	if e.Size() > acc.Size() {
		return e
	}
	return acc
}
