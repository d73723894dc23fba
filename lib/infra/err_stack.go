package infra

import (
	"errors"
	"fmt"
	"io"
	"path"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
)

// References:
// https://github.com/pkg/errors/blob/master/stack.go

const maxStackDepth = 32

type Frame uintptr

func (frame Frame) pc() uintptr {
	return uintptr(frame) - 1
}

func (frame Frame) file() string {
	fn := runtime.FuncForPC(frame.pc())
	if fn == nil {
		return "unknownFile"
	}
	f, _ := fn.FileLine(frame.pc())
	return f
}

func (frame Frame) line() int {
	fn := runtime.FuncForPC(frame.pc())
	if fn == nil {
		return 0
	}
	_, l := fn.FileLine(frame.pc())
	return l
}

func (frame Frame) name() string {
	fn := runtime.FuncForPC(frame.pc())
	if fn == nil {
		return "unknownFunc"
	}
	return fn.Name()
}

// Format characters:
// %s - source file
// %d - source line
// %n - function name
// %v - equivalent to %s:%d
// %+s - function name and full path separated by \n\t
// %+v - equivalent to %+s:%d
func (frame Frame) Format(s fmt.State, verb rune) {
	switch verb {
	case 's':
		if s.Flag('+') {
			_, _ = io.WriteString(s, frame.name())
			_, _ = io.WriteString(s, "\n\t")
			_, _ = io.WriteString(s, frame.file())
		} else {
			_, _ = io.WriteString(s, path.Base(frame.file()))
		}
	case 'd':
		_, _ = io.WriteString(s, strconv.Itoa(frame.line()))
	case 'n':
		_, _ = io.WriteString(s, funcName(frame.name()))
	case 'v':
		frame.Format(s, 's')
		_, _ = io.WriteString(s, ":")
		frame.Format(s, 'd')
	}
}

func (frame Frame) MarshalText() ([]byte, error) {
	name := frame.name()
	if name == "unknownFunc" {
		return []byte("unknownFrame"), nil
	}
	builder := strings.Builder{}
	_, _ = builder.WriteString(name)
	_, _ = builder.WriteString(" ")
	_, _ = builder.WriteString(frame.file())
	_, _ = builder.WriteString(":")
	_, _ = builder.WriteString(strconv.Itoa(frame.line()))
	return []byte(builder.String()), nil
}

func funcName(name string) string {
	i := strings.LastIndex(name, "/")
	name = name[i+1:]
	i = strings.Index(name, ".")
	return name[i+1:]
}

func callers(skip int) []Frame {
	var pcs [maxStackDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := make([]Frame, 0, n)
	for i := 0; i < n; i++ {
		frames = append(frames, Frame(pcs[i]))
	}
	return frames
}

var _ zapcore.ObjectMarshaler = (*ErrorStack)(nil)

// ErrorStack records where an error was raised or wrapped.
// It is logged by xlog as an inlined JSON object, so the
// log aggregator is able to index the frames.
type ErrorStack struct {
	msg    string
	cause  error
	frames []Frame
}

func NewErrorStack(msg string) error {
	return &ErrorStack{
		msg:    msg,
		frames: callers(3),
	}
}

func WrapErrorStack(err error) error {
	if err == nil {
		return nil
	}
	var es *ErrorStack
	if errors.As(err, &es) {
		return err
	}
	return &ErrorStack{
		cause:  err,
		frames: callers(3),
	}
}

func WrapErrorStackWithMessage(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ErrorStack{
		msg:    msg,
		cause:  err,
		frames: callers(3),
	}
}

func (es *ErrorStack) Error() string {
	switch {
	case es.cause == nil:
		return es.msg
	case es.msg == "":
		return es.cause.Error()
	default:
	}
	return es.msg + ": " + es.cause.Error()
}

func (es *ErrorStack) Unwrap() error {
	return es.cause
}

func (es *ErrorStack) Frames() []Frame {
	return es.frames
}

// Format supports %s, %q, %v and %+v. The last one prints the
// frames one per line after the message.
func (es *ErrorStack) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		_, _ = io.WriteString(s, es.Error())
		if s.Flag('+') {
			for _, frame := range es.frames {
				_, _ = io.WriteString(s, "\n")
				frame.Format(s, verb)
			}
		}
	case 's':
		_, _ = io.WriteString(s, es.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", es.Error())
	}
}

func (es *ErrorStack) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("error", es.Error())
	return enc.AddArray("errorStack", zapcore.ArrayMarshalerFunc(func(arr zapcore.ArrayEncoder) error {
		for _, frame := range es.frames {
			text, _ := frame.MarshalText()
			arr.AppendByteString(text)
		}
		return nil
	}))
}
