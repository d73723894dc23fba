package seq

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/benz9527/xseq/lib/infra"
)

var _ Sequence[struct{}] = (*sliceSequence[struct{}])(nil) // Type check assertion

// sliceSequence never writes into elems after construction.
// Views returned by Slice, PopFront and PopBack share the backing
// array with a clipped capacity, so a later append always copies.
type sliceSequence[E any] struct {
	elems []E
}

func New[E any](elems ...E) Sequence[E] {
	return FromSlice(elems)
}

func Empty[E any]() Sequence[E] {
	return &sliceSequence[E]{}
}

// FromSlice copies s, the caller is free to reuse it afterwards.
func FromSlice[E any](s []E) Sequence[E] {
	if len(s) == 0 {
		return Empty[E]()
	}
	elems := make([]E, len(s))
	copy(elems, s)
	return &sliceSequence[E]{elems: elems}
}

func wrap[E any](elems []E) Sequence[E] {
	return &sliceSequence[E]{elems: elems[:len(elems):len(elems)]}
}

func (s *sliceSequence[E]) Len() int {
	return len(s.elems)
}

func (s *sliceSequence[E]) IsEmpty() bool {
	return len(s.elems) == 0
}

func (s *sliceSequence[E]) At(i int) E {
	if i < 0 || i >= len(s.elems) {
		panic(infra.NewErrorStack(fmt.Sprintf("[seq] index %d out of range [0, %d)", i, len(s.elems))))
	}
	return s.elems[i]
}

func (s *sliceSequence[E]) Front() E {
	if len(s.elems) == 0 {
		panic(infra.NewErrorStack("[seq] front of an empty sequence"))
	}
	return s.elems[0]
}

func (s *sliceSequence[E]) Back() E {
	if len(s.elems) == 0 {
		panic(infra.NewErrorStack("[seq] back of an empty sequence"))
	}
	return s.elems[len(s.elems)-1]
}

func (s *sliceSequence[E]) PopFront() Sequence[E] {
	if len(s.elems) == 0 {
		panic(infra.NewErrorStack("[seq] pop front of an empty sequence"))
	}
	return wrap(s.elems[1:])
}

func (s *sliceSequence[E]) PopBack() Sequence[E] {
	if len(s.elems) == 0 {
		panic(infra.NewErrorStack("[seq] pop back of an empty sequence"))
	}
	return wrap(s.elems[:len(s.elems)-1])
}

func (s *sliceSequence[E]) PushFront(e E) Sequence[E] {
	elems := make([]E, 0, len(s.elems)+1)
	elems = append(elems, e)
	elems = append(elems, s.elems...)
	return &sliceSequence[E]{elems: elems}
}

func (s *sliceSequence[E]) PushBack(e E) Sequence[E] {
	elems := make([]E, 0, len(s.elems)+1)
	elems = append(elems, s.elems...)
	elems = append(elems, e)
	return &sliceSequence[E]{elems: elems}
}

func (s *sliceSequence[E]) Slice(from, to int) Sequence[E] {
	if from < 0 || to > len(s.elems) || from > to {
		panic(infra.NewErrorStack(fmt.Sprintf("[seq] slice bounds [%d, %d) out of range [0, %d]", from, to, len(s.elems))))
	}
	return wrap(s.elems[from:to])
}

func (s *sliceSequence[E]) Reverse() Sequence[E] {
	if len(s.elems) <= 1 {
		return s
	}
	return &sliceSequence[E]{elems: lo.Reverse(s.Values())}
}

func (s *sliceSequence[E]) Foreach(fn func(idx int, e E) bool) {
	if fn == nil {
		return
	}
	for i, e := range s.elems {
		if !fn(i, e) {
			return
		}
	}
}

func (s *sliceSequence[E]) Values() []E {
	elems := make([]E, len(s.elems))
	copy(elems, s.elems)
	return elems
}

func (s *sliceSequence[E]) String() string {
	return fmt.Sprintf("%v", s.elems)
}

// Concat returns the elements of seqs one after another.
func Concat[E any](seqs ...Sequence[E]) Sequence[E] {
	parts := make([][]E, 0, len(seqs))
	for _, s := range seqs {
		if s == nil || s.IsEmpty() {
			continue
		}
		parts = append(parts, s.Values())
	}
	if len(parts) == 1 {
		return wrap(parts[0])
	}
	return wrap(lo.Flatten(parts))
}

// Join concatenates seqs and puts delim between every two of them.
// Empty sequences still take part, so Join(0, [1], [], [2]) is [1 0 0 2].
func Join[E any](delim E, seqs ...Sequence[E]) Sequence[E] {
	if len(seqs) == 0 {
		return Empty[E]()
	}
	size := len(seqs) - 1
	for _, s := range seqs {
		if s != nil {
			size += s.Len()
		}
	}
	elems := make([]E, 0, size)
	for i, s := range seqs {
		if i > 0 {
			elems = append(elems, delim)
		}
		if s != nil {
			s.Foreach(func(_ int, e E) bool {
				elems = append(elems, e)
				return true
			})
		}
	}
	return wrap(elems)
}

func Equal[E comparable](a, b Sequence[E]) bool {
	if a == nil || b == nil {
		return (a == nil || a.IsEmpty()) && (b == nil || b.IsEmpty())
	}
	return slices.Equal(a.Values(), b.Values())
}
