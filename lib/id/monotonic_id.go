package id

import (
	"strconv"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

const cacheLinePadSize = unsafe.Sizeof(cpu.CacheLinePad{})

// monotonicNonZeroID only increases, it restarts from 1 on overflow.
// The value owns a whole cache line, the sorter batches of many
// goroutines share one generator.
type monotonicNonZeroID struct {
	_   [cacheLinePadSize - unsafe.Sizeof(*new(uint64))]byte
	val atomic.Uint64
	_   [cacheLinePadSize - unsafe.Sizeof(*new(uint64))]byte
}

func (id *monotonicNonZeroID) next() uint64 {
	var v uint64
	if v = id.val.Add(1); v == 0 {
		v = id.val.Add(1)
	}
	return v
}

func MonotonicNonZeroID() Generator {
	src := &monotonicNonZeroID{}
	return &defaultID{
		number: src.next,
		str: func() string {
			return strconv.FormatUint(src.next(), 10)
		},
	}
}
