package errors

import (
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

type handlerBox struct{ h ErrorHandler }

var current atomic.Pointer[handlerBox]

func init() {
	current.Store(&handlerBox{h: &LogHandler{}})
}

// SetHandler configures the global error handler.
// Pass nil to restore the default LogHandler.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	current.Store(&handlerBox{h: h})
}

// Handler returns the global error handler.
func Handler() ErrorHandler {
	return current.Load().h
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}

// Report sends an error to the global handler, stamping it if needed.
func Report(err *ReconcileError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	Handler().HandleError(err)
}

// ReportPanic sends a recovered panic to the global handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	Handler().HandlePanic(err)
}

// ReportRenderError sends an aborted render to the global handler.
func ReportRenderError(err *RenderError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	Handler().HandleRenderError(err)
}

// Recover reports a panic to the global handler. It must be deferred
// directly:
//
//	defer errors.Recover("testing.DispatchEvent")
func Recover(op string) {
	if r := recover(); r != nil {
		reportRecovered(op, r)
	}
}

// RecoverWithCallback is like Recover and then passes the panic value to
// callback.
func RecoverWithCallback(op string, callback func(r any)) {
	if r := recover(); r != nil {
		reportRecovered(op, r)
		if callback != nil {
			callback(r)
		}
	}
}

func reportRecovered(op string, r any) {
	ReportPanic(&PanicError{
		Op:         op,
		Value:      r,
		StackTrace: CaptureStack(),
	})
}

// CaptureStack returns the caller's stack, one "function\n\tfile:line"
// entry per frame. Frames of the runtime's panic machinery are left out.
func CaptureStack() string {
	const maxDepth = 48
	var pcs [maxDepth]uintptr
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if frame.Function != "" && !strings.HasPrefix(frame.Function, "runtime.") {
			sb.WriteString(frame.Function)
			sb.WriteString("\n\t")
			sb.WriteString(frame.File)
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(frame.Line))
			sb.WriteByte('\n')
		}
		if !more {
			return sb.String()
		}
	}
}
