package seq

// Sequence is an ordered, fixed-length and immutable collection.
// Every method that looks like a mutation returns a new sequence
// and leaves the receiver untouched, so a sequence value is safe
// to share between goroutines without locking.
//
// Out of range access is a contract violation. Implementations
// panic with an *infra.ErrorStack instead of returning a sentinel.
type Sequence[E any] interface {
	Len() int
	IsEmpty() bool
	// At returns the element at index i.
	At(i int) E
	// Front returns the first element.
	Front() E
	// Back returns the last element.
	Back() E
	// PopFront returns the sequence without the first element.
	PopFront() Sequence[E]
	// PopBack returns the sequence without the last element.
	PopBack() Sequence[E]
	// PushFront returns a new sequence with e prepended.
	PushFront(e E) Sequence[E]
	// PushBack returns a new sequence with e appended.
	PushBack(e E) Sequence[E]
	// Slice returns the elements in [from, to).
	Slice(from, to int) Sequence[E]
	Reverse() Sequence[E]
	// Foreach visits the elements in order until fn returns false.
	Foreach(fn func(idx int, e E) bool)
	// Values returns a copy of the elements.
	Values() []E
}

type Kind uint8

const (
	KindMarker Kind = iota
	KindConstant
)

func (k Kind) String() string {
	switch k {
	case KindMarker:
		return "marker"
	case KindConstant:
		return "constant"
	default:
	}
	return "unknown"
}

// Element is the common face of both element kinds, so that
// markers and constants may be mixed in one Sequence[Element].
type Element interface {
	Sized
	Kind() Kind
	String() string
}

// Sized reports the static byte size of the type an element stands for.
type Sized interface {
	Size() uintptr
}
