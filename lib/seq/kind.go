package seq

import (
	"fmt"
	"unsafe"

	"github.com/samber/lo"

	"github.com/benz9527/xseq/lib/infra"
)

var (
	_ Element = Marker[int]{}
	_ Sized   = Marker[int]{}
	_ Element = Constant[int]{}
	_ Sized   = Constant[int]{}
)

// Marker is a typed marker. It has no payload, the type argument
// is the identity, so Marker[int]{} == Marker[int]{} always holds.
type Marker[T any] struct{}

func (Marker[T]) Kind() Kind {
	return KindMarker
}

// Size is the static size of T in bytes.
func (Marker[T]) Size() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

func (Marker[T]) String() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

// Constant carries one fixed scalar constant of type T.
type Constant[T infra.OrderedKey] struct {
	value T
}

func Const[T infra.OrderedKey](v T) Constant[T] {
	return Constant[T]{value: v}
}

func (c Constant[T]) Value() T {
	return c.value
}

func (Constant[T]) Kind() Kind {
	return KindConstant
}

func (c Constant[T]) Size() uintptr {
	return unsafe.Sizeof(c.value)
}

func (c Constant[T]) String() string {
	return fmt.Sprintf("%v", c.value)
}

// ValueList builds a sequence of constant carriers.
func ValueList[T infra.OrderedKey](values ...T) Sequence[Constant[T]] {
	return wrap(lo.Map(values, func(v T, _ int) Constant[T] {
		return Const(v)
	}))
}

// TypeList builds a heterogeneous sequence of elements.
func TypeList(elems ...Element) Sequence[Element] {
	return New(elems...)
}

// Unwrap extracts the scalar constants from s.
func Unwrap[T infra.OrderedKey](s Sequence[Constant[T]]) []T {
	return lo.Map(s.Values(), func(c Constant[T], _ int) T {
		return c.Value()
	})
}
