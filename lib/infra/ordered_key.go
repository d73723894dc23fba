package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

type Float interface {
	~float32 | ~float64
}

// OrderedKey is the scalar type a constant carrier is able to hold.
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// OrderedKeyComparator
// Assume i is the sought key.
//  1. i == j, return 0
//  2. i > j, return 1
//  3. i < j, return -1
type OrderedKeyComparator[K OrderedKey] func(i, j K) int64

func ThreeWayCompare[K OrderedKey](i, j K) int64 {
	if i == j {
		return 0
	} else if i > j {
		return 1
	}
	return -1
}
