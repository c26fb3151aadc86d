// Package errors is the single errors import for the module: stdlib matching
// (Is, As, Join) plus pkg/errors wrapping, which records a stack trace.
package errors

import (
	stderrors "errors"

	pkgerrors "github.com/pkg/errors"
)

// New returns a plain error without a stack trace. Use it for sentinels.
func New(text string) error {
	return stderrors.New(text)
}

// Errorf formats a new error and records a stack trace.
func Errorf(format string, args ...any) error {
	return pkgerrors.Errorf(format, args...)
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// AsType finds the first error in err's tree assignable to T.
func AsType[T error](err error) (T, bool) {
	var target T
	ok := stderrors.As(err, &target)

	return target, ok
}

// Join combines errors so that Is and As match any of them, in order.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// Wrap adds message and a stack trace to err. A nil err stays nil.
func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	return pkgerrors.Wrapf(err, format, args...)
}

// WithStack records a stack trace on err without changing its message.
func WithStack(err error) error {
	return pkgerrors.WithStack(err)
}
