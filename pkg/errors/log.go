package errors

import (
	"log/slog"
)

// LogHandler is an ErrorHandler that writes errors through slog.
type LogHandler struct {
	// Logger receives the records. Nil means slog.Default().
	Logger *slog.Logger
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

func (h *LogHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// HandleError logs a ReconcileError. Unsupported variants are warnings.
func (h *LogHandler) HandleError(err *ReconcileError) {
	if err == nil {
		return
	}
	attrs := []any{"op", err.Op, "kind", err.Kind.String(), "err", err.Err}
	if err.Fiber != "" {
		attrs = append(attrs, "fiber", err.Fiber)
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	if err.Kind == KindUnsupported {
		h.logger().Warn("fiber: unsupported variant", attrs...)
		return
	}
	h.logger().Error("fiber: error", attrs...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []any{"value", err.Value}
	if err.Op != "" {
		attrs = append(attrs, "op", err.Op)
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Error("fiber: panic", attrs...)
}

// HandleRenderError logs an aborted render attempt.
func (h *LogHandler) HandleRenderError(err *RenderError) {
	if err == nil {
		return
	}
	attrs := []any{"root", err.Root, "fiber", err.Fiber, "lane", err.Lane, "err", err.Error()}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Warn("fiber: render aborted", attrs...)
}
