// Package errs defines the failure kinds shared by every shuffle stage.
//
// Each stage wraps the underlying cause in an *Error carrying one of the
// sentinel kinds below, so callers can branch with errors.Is on either the
// kind or the original cause:
//
//	if errors.Is(err, errs.ErrNotFound) {
//	    output.Error("run this inside a Shuffle project")
//	}
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrIO                = errors.New("io error")
	ErrParse             = errors.New("parse error")
	ErrCompile           = errors.New("compile error")
	ErrRuntimeInstall    = errors.New("runtime install error")
	ErrCodegen           = errors.New("codegen error")
	ErrNetworkPolicy     = errors.New("network policy error")
	ErrDeployment        = errors.New("deployment error")
	ErrTransactionStatus = errors.New("transaction status error")
	ErrTestRunner        = errors.New("test runner error")
)

// Error ties a failure kind to the thing that failed (a file, a module,
// a runtime, a stage) and the cause reported by the collaborator.
type Error struct {
	Kind    error
	Subject string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Subject != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Subject)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// New wraps err with a kind and subject. A nil err yields an error that
// carries only the kind and subject.
func New(kind error, subject string, err error) error {
	return &Error{Kind: kind, Subject: subject, Err: err}
}

// Newf builds an error of the given kind from a formatted cause.
func Newf(kind error, subject, format string, args ...any) error {
	return &Error{Kind: kind, Subject: subject, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the sentinel kind of err, or nil when err carries none.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}
