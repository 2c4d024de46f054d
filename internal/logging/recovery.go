// Panic recovery with stack trace logging.
package logging

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// PanicError is returned by WrapError when fn panicked.
type PanicError struct {
	Component string
	Value     any
	Stack     string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Component, e.Value)
}

// IsPanic reports whether err came from a recovered panic.
func IsPanic(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}

// RecoveryHandler turns panics into logged errors so a single bad command
// does not end the session.
type RecoveryHandler struct {
	Component string
	Logger    *Logger
	OnPanic   func(err *PanicError)
}

// NewRecoveryHandler creates a recovery handler for a component.
func NewRecoveryHandler(component string, logger *Logger) *RecoveryHandler {
	if logger == nil {
		logger = New(component)
	}
	return &RecoveryHandler{Component: component, Logger: logger}
}

// Wrap runs fn, swallowing and logging any panic.
func (r *RecoveryHandler) Wrap(fn func()) {
	_ = r.WrapError(func() error {
		fn()
		return nil
	})
}

// WrapError runs fn and returns its error, or a *PanicError if it panicked.
func (r *RecoveryHandler) WrapError(fn func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = r.recovered(v, string(debug.Stack()))
		}
	}()
	return fn()
}

func (r *RecoveryHandler) recovered(v any, stack string) *PanicError {
	pe := &PanicError{Component: r.Component, Value: v, Stack: stack}
	r.Logger.Error("panic_recovered", map[string]interface{}{
		"stack": stack,
	}, fmt.Errorf("%v", v))
	if r.OnPanic != nil {
		r.OnPanic(pe)
	}
	return pe
}
