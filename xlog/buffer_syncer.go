package xlog

import (
	"io"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

const (
	defaultBufferSize          = 64 * 1024
	defaultBufferFlushInterval = 5 * time.Second
)

// xLogArena keeps the encoded entries back to back, so a flush is
// one write of the occupied prefix.
type xLogArena struct {
	buf     []byte
	wOffset int
}

func (arena *xLogArena) cache(log []byte) bool {
	if arena.wOffset+len(log) > len(arena.buf) {
		return false
	}
	copy(arena.buf[arena.wOffset:], log)
	arena.wOffset += len(log)
	return true
}

func (arena *xLogArena) flush(w io.Writer) error {
	if arena.wOffset == 0 {
		return nil
	}
	_, err := w.Write(arena.buf[:arena.wOffset])
	arena.wOffset = 0
	return err
}

var _ zapcore.WriteSyncer = (*XLogBufferSyncer)(nil)

// XLogBufferSyncer caches the entries in memory and writes them out
// when the arena is full, on every flush interval and on Sync.
type XLogBufferSyncer struct {
	lock          sync.Mutex
	out           zapcore.WriteSyncer
	arena         *xLogArena
	flushInterval time.Duration
	ticker        *time.Ticker
	closeC        chan struct{}
	stopOnce      sync.Once
	wg            sync.WaitGroup
}

// NewXLogBufferSyncer starts the flush loop. The non-positive size
// or interval falls back to 64KiB and 5s.
func NewXLogBufferSyncer(out zapcore.WriteSyncer, size int, flushInterval time.Duration) *XLogBufferSyncer {
	if size <= 0 {
		size = defaultBufferSize
	}
	if flushInterval <= 0 {
		flushInterval = defaultBufferFlushInterval
	}
	syncer := &XLogBufferSyncer{
		out:           out,
		arena:         &xLogArena{buf: make([]byte, size)},
		flushInterval: flushInterval,
		ticker:        time.NewTicker(flushInterval),
		closeC:        make(chan struct{}),
	}
	syncer.wg.Add(1)
	go syncer.flushLoop()
	return syncer
}

// Write implements zapcore.WriteSyncer. An entry larger than the
// arena bypasses it.
func (syncer *XLogBufferSyncer) Write(log []byte) (int, error) {
	syncer.lock.Lock()
	defer syncer.lock.Unlock()
	if syncer.arena.cache(log) {
		return len(log), nil
	}
	if err := syncer.arena.flush(syncer.out); err != nil {
		return 0, err
	}
	if syncer.arena.cache(log) {
		return len(log), nil
	}
	return syncer.out.Write(log)
}

// Sync implements zapcore.WriteSyncer.
func (syncer *XLogBufferSyncer) Sync() error {
	syncer.lock.Lock()
	defer syncer.lock.Unlock()
	if err := syncer.arena.flush(syncer.out); err != nil {
		return err
	}
	return syncer.out.Sync()
}

// Stop ends the flush loop and writes out the cached entries. The
// later writes go straight to the output.
func (syncer *XLogBufferSyncer) Stop() error {
	syncer.stopOnce.Do(func() {
		close(syncer.closeC)
	})
	syncer.wg.Wait()

	syncer.lock.Lock()
	defer syncer.lock.Unlock()
	err := syncer.arena.flush(syncer.out)
	syncer.arena.buf = nil
	return err
}

func (syncer *XLogBufferSyncer) flushLoop() {
	defer syncer.wg.Done()
	for {
		select {
		case <-syncer.closeC:
			syncer.ticker.Stop()
			return
		case <-syncer.ticker.C:
			syncer.lock.Lock()
			_ = syncer.arena.flush(syncer.out)
			syncer.lock.Unlock()
		}
	}
}
