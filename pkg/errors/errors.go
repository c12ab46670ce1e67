// Package errors provides structured error handling for the reconciler.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindHook indicates hook misuse by a component.
	KindHook
	// KindRender indicates a failure inside a render pass.
	KindRender
	// KindCommit indicates a failure while applying mutations.
	KindCommit
	// KindEffect indicates a failure inside an effect callback.
	KindEffect
	// KindUnsupported indicates an element shape or fiber tag that is not handled.
	KindUnsupported
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConfig indicates invalid configuration.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindHook:
		return "hook"
	case KindRender:
		return "render"
	case KindCommit:
		return "commit"
	case KindEffect:
		return "effect"
	case KindUnsupported:
		return "unsupported"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Sentinel errors for programmer misuse of hooks.
var (
	ErrHookOutsideComponent = errors.New("hooks can only be called inside the body of a function component")
	ErrTooManyHooks         = errors.New("rendered more hooks than during the previous render")
	ErrTooFewHooks          = errors.New("rendered fewer hooks than expected")
	ErrHookOrderChanged     = errors.New("hook call order changed between renders")
	ErrRenderInProgress     = errors.New("a render session is already open")
)

// ReconcileError represents a structured error in the reconciler.
type ReconcileError struct {
	// Op is the operation that failed (e.g., "reconciler.commitPlacement").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Fiber describes the fiber involved, if any.
	Fiber string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ReconcileError) Error() string {
	if e.Fiber != "" {
		return fmt.Sprintf("%s [%s] fiber=%s: %v", e.Op, e.Kind, e.Fiber, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ReconcileError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "reconciler.flushPassiveEffects").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// HookError is raised, by panicking, when a component misuses hooks.
// It is never recovered by the reconciler.
type HookError struct {
	// Component is the name of the component that misused hooks.
	Component string
	// Hook is the hook being called (e.g., "UseState").
	Hook string
	// Err is one of the hook sentinel errors.
	Err error
}

func (e *HookError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("%s in %s: %v", e.Hook, e.Component, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Hook, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// RenderError represents a render attempt that was aborted.
type RenderError struct {
	// Root identifies the root being rendered.
	Root string
	// Fiber describes the unit of work that failed.
	Fiber string
	// Lane is the lane being rendered.
	Lane string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RenderError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic while rendering %s on lane %s: %v", e.Fiber, e.Lane, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error while rendering %s on lane %s: %v", e.Fiber, e.Lane, e.Err)
	}
	return fmt.Sprintf("unknown error while rendering %s on lane %s", e.Fiber, e.Lane)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by the reconciler.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *ReconcileError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleRenderError is called when a render attempt is aborted.
	HandleRenderError(err *RenderError)
}

// Is, As and New re-export the standard library helpers so callers can
// import a single errors package.
var (
	Is  = errors.Is
	As  = errors.As
	New = errors.New
)
