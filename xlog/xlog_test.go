package xlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xseq/lib/infra"
)

type syncBuffer struct {
	lock sync.Mutex
	buf  bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) lines() []map[string]any {
	b.lock.Lock()
	defer b.lock.Unlock()
	res := make([]map[string]any, 0, 8)
	for _, line := range strings.Split(strings.TrimSpace(b.buf.String()), "\n") {
		if len(line) == 0 {
			continue
		}
		m := map[string]any{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			continue
		}
		res = append(res, m)
	}
	return res
}

func newTestLogger(t *testing.T, opts ...XLoggerOption) (XLogger, *syncBuffer) {
	t.Helper()
	buf := &syncBuffer{}
	opts = append([]XLoggerOption{
		WithXLoggerWriter(zapcore.AddSync(buf)),
		WithXLoggerEncoder(JSON),
	}, opts...)
	return NewXLogger(opts...), buf
}

func TestXLogger_LevelFiltering(t *testing.T) {
	logger, buf := newTestLogger(t, WithXLoggerLevel(LogLevelWarn))
	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn", zap.Int("n", 1))
	require.NoError(t, logger.Sync())

	lines := buf.lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "warn", lines[0]["msg"])
	assert.Equal(t, "WARN", lines[0]["lvl"])
	assert.EqualValues(t, 1, lines[0]["n"])
	assert.Equal(t, "warn", logger.Level())

	logger.IncreaseLogLevel(zapcore.DebugLevel)
	logger.Debug("debug again")
	require.Len(t, buf.lines(), 2)
	assert.Equal(t, "debug", logger.Level())
}

func TestXLogger_Error(t *testing.T) {
	logger, buf := newTestLogger(t, WithXLoggerLevel(LogLevelDebug))
	logger.Error(errors.New("boom"), "failed")
	logger.Error(nil, "no error")

	lines := buf.lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "boom", lines[0]["error"])
	_, ok := lines[1]["error"]
	assert.False(t, ok)
}

func TestXLogger_ErrorStack(t *testing.T) {
	logger, buf := newTestLogger(t, WithXLoggerLevel(LogLevelDebug))
	logger.ErrorStack(infra.NewErrorStack("stacked"), "with frames")
	logger.ErrorStack(errors.New("plain"), "without frames")

	lines := buf.lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "stacked", lines[0]["error"])
	frames, ok := lines[0]["errorStack"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, frames)
	assert.Equal(t, "plain", lines[1]["error"])
	_, ok = lines[1]["errorStack"]
	assert.False(t, ok)
}

func TestXLogger_ContextFields(t *testing.T) {
	logger, buf := newTestLogger(t,
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerContextFieldExtract("traceId", "trace"),
		WithXLoggerContextFieldExtract("job"),
		WithXLoggerContextFieldExtract("optional", ContextKeyMapToOmitempty),
	)
	ctx := context.WithValue(context.Background(), "traceId", "abc")
	ctx = context.WithValue(ctx, "job", 7)
	logger.InfoContext(ctx, "ctx")
	logger.WarnContext(context.WithValue(ctx, "optional", "yes"), "ctx optional")

	lines := buf.lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "abc", lines[0]["trace"])
	assert.EqualValues(t, 7, lines[0]["job"])
	_, ok := lines[0]["optional"]
	assert.False(t, ok)
	assert.Equal(t, "yes", lines[1]["optional"])
}

func TestXLogger_MultiWriters(t *testing.T) {
	first, second := &syncBuffer{}, &syncBuffer{}
	logger := NewXLogger(
		WithXLoggerWriter(zapcore.AddSync(first)),
		WithXLoggerWriter(zapcore.AddSync(second)),
		WithXLoggerLevel(LogLevelInfo),
	)
	logger.Info("both")
	require.Len(t, first.lines(), 1)
	require.Len(t, second.lines(), 1)
}

func TestXLogger_InvalidOptions(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(nil))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
}

func TestParseLogLevel(t *testing.T) {
	testcases := []struct {
		in       string
		expected logLevel
	}{
		{"", LogLevelDebug},
		{"info", LogLevelInfo},
		{" WARN ", LogLevelWarn},
		{"Error", LogLevelError},
		{"verbose", LogLevelDebug},
	}
	for _, tc := range testcases {
		t.Run(tc.in, func(tt *testing.T) {
			assert.Equal(tt, tc.expected, ParseLogLevel(tc.in))
		})
	}
}

func TestAntsXLogger(t *testing.T) {
	logger, buf := newTestLogger(t, WithXLoggerLevel(LogLevelDebug))
	antsLogger := NewAntsXLogger(logger)
	antsLogger.Printf("worker exits from panic: %v", "oops")

	lines := buf.lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "ants", lines[0]["component"])
	assert.Equal(t, "ERROR", lines[0]["lvl"])
	assert.Equal(t, "worker exits from panic: oops", lines[0]["msg"])

	var nilLogger *AntsXLogger
	require.NotPanics(t, func() {
		nilLogger.Printf("ignored")
	})
}

func TestFxXLogger(t *testing.T) {
	logger, buf := newTestLogger(t, WithXLoggerLevel(LogLevelDebug))
	fxLogger := NewFxXLogger(logger)
	fxLogger.LogEvent(&fxevent.Started{})
	fxLogger.LogEvent(&fxevent.Started{Err: errors.New("bad")})

	lines := buf.lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "fx", lines[0]["component"])
	assert.Equal(t, "started", lines[0]["msg"])
	assert.Equal(t, "start failed", lines[1]["msg"])
	assert.Equal(t, "bad", lines[1]["error"])
}

type testBanner struct{}

func (testBanner) JSON() string {
	return `{"app":"test"}`
}

func (testBanner) PlainText() string {
	return "== test banner =="
}

func TestXLogger_Banner(t *testing.T) {
	buf := &syncBuffer{}
	logger := NewXLogger(
		WithXLoggerWriter(zapcore.AddSync(buf)),
		WithXLoggerEncoder(PlainText),
		WithXLoggerLevel(LogLevelError),
	)
	logger.Banner(nil)
	logger.Banner(testBanner{})
	logger.Banner(testBanner{})

	buf.lock.Lock()
	out := buf.buf.String()
	buf.lock.Unlock()
	require.Equal(t, 1, strings.Count(out, "== test banner =="))

	other, otherBuf := newTestLogger(t)
	other.Banner(testBanner{})
	lines := otherBuf.lines()
	require.Len(t, lines, 1)
	assert.Equal(t, `{"app":"test"}`, lines[0]["banner"])
}

func TestXLogger_BufferedWriter(t *testing.T) {
	buf := &syncBuffer{}
	logger := NewXLogger(
		WithXLoggerBufferedWriter(zapcore.AddSync(buf), 0, time.Hour),
		WithXLoggerLevel(LogLevelInfo),
	)
	logger.Info("first")
	logger.Info("second")
	require.Empty(t, buf.lines())

	require.NoError(t, logger.Sync())
	require.Len(t, buf.lines(), 2)

	logger.Info("third")
	require.Len(t, buf.lines(), 2)
	require.NoError(t, logger.Close())
	lines := buf.lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "third", lines[2]["msg"])

	logger.Info("after close")
	require.Len(t, buf.lines(), 4)

	require.Panics(t, func() {
		NewXLogger(WithXLoggerBufferedWriter(nil, 0, 0))
	})
}

func TestXLogBufferSyncer_Overflow(t *testing.T) {
	buf := &syncBuffer{}
	syncer := NewXLogBufferSyncer(zapcore.AddSync(buf), 8, time.Hour)
	defer func() {
		require.NoError(t, syncer.Stop())
	}()

	n, err := syncer.Write([]byte("12345"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Zero(t, buf.buf.Len())

	// Flushes the cached prefix, then caches the new entry.
	_, err = syncer.Write([]byte("6789"))
	require.NoError(t, err)
	require.Equal(t, "12345", buf.buf.String())

	// Larger than the arena, written through.
	_, err = syncer.Write([]byte("abcdefghij"))
	require.NoError(t, err)
	require.Equal(t, "123456789abcdefghij", buf.buf.String())
}

func TestXLogBufferSyncer_FlushLoop(t *testing.T) {
	buf := &syncBuffer{}
	syncer := NewXLogBufferSyncer(zapcore.AddSync(buf), 0, 10*time.Millisecond)
	defer func() {
		require.NoError(t, syncer.Stop())
	}()
	_, err := syncer.Write([]byte("tick"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		buf.lock.Lock()
		defer buf.lock.Unlock()
		return buf.buf.String() == "tick"
	}, time.Second, 5*time.Millisecond)
}
