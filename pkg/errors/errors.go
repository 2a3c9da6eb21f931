// Package errors provides structured error handling for the cacao bindings.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates a broken framework prerequisite (missing
	// superclass, failed class registration). Errors of this kind are not
	// recoverable by retrying; embedders that prefer the classic abort
	// behavior can use the Must variants instead.
	KindConfig
	// KindLookup indicates a class lookup problem, such as a runtime class
	// whose ancestry does not match the requested superclass.
	KindLookup
	// KindRuntime indicates a failure reported by the Objective-C runtime
	// itself (allocation, ivar access).
	KindRuntime
	// KindBridge indicates a controller/native-object association error.
	KindBridge
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindLookup:
		return "lookup"
	case KindRuntime:
		return "runtime"
	case KindBridge:
		return "bridge"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Error represents a structured error in the cacao bindings.
type Error struct {
	// Op is the operation that failed (e.g., "objc.LoadOrRegister").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Class is the Objective-C class name involved, if applicable.
	Class string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Class != "" {
		return fmt.Sprintf("%s [%s] class=%s: %v", e.Op, e.Kind, e.Class, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsFatal reports whether the error is in the unrecoverable tier: the
// framework's own prerequisites are broken and continuing is not safe.
func (e *Error) IsFatal() bool {
	return e.Kind == KindConfig
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "appkit.Bind").
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

// ErrorHandler receives errors reported by the cacao bindings.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
