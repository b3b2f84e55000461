// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bridge

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/pkg/errors"
)

// Kind categorizes a bridge error. It travels on the wire as the
// "name" field of an error response, so callers on either side
// branch on Kind rather than on message text.
type Kind string

const (
	KindChannelNotReady   Kind = "ChannelNotReady"
	KindChannelClosed     Kind = "ChannelClosed"
	KindMalformedEnvelope Kind = "MalformedEnvelope"
	KindUnsupportedMethod Kind = "UnsupportedMethod"
	KindHandlerFailure    Kind = "HandlerFailure"
	KindDuplicateID       Kind = "DuplicateId"
	KindStaleResolution   Kind = "StaleResolution"
	KindSessionReset      Kind = "SessionReset"
	KindCanceled          Kind = "Canceled"
)

// Error is the structured failure carried by every unsuccessful outcome,
// local or remote.
type Error struct {
	Kind    Kind
	Message string
	// Stack is an optional diagnostic trace. For remote errors it is
	// whatever the peer reported.
	Stack string
	Cause error
}

var (
	ErrChannelNotReady   = &Error{Kind: KindChannelNotReady}
	ErrChannelClosed     = &Error{Kind: KindChannelClosed}
	ErrMalformedEnvelope = &Error{Kind: KindMalformedEnvelope}
	ErrUnsupportedMethod = &Error{Kind: KindUnsupportedMethod}
	ErrHandlerFailure    = &Error{Kind: KindHandlerFailure}
	ErrDuplicateID       = &Error{Kind: KindDuplicateID}
	ErrStaleResolution   = &Error{Kind: KindStaleResolution}
	ErrSessionReset      = &Error{Kind: KindSessionReset}
	ErrCanceled          = &Error{Kind: KindCanceled}
)

// Errorf returns an *Error of the given kind. Handlers return it to
// report their own kind to the remote caller.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrapError returns an *Error of the given kind caused by err.
func wrapError(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Cause: errors.WithStack(err)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// asError returns err as an *Error, wrapping foreign errors with kind.
func asError(err error, kind Kind) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return wrapError(kind, err, "")
}

// KindOf returns the kind of err, or the empty kind if err is not
// an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// asHandlerError frames a handler failure for the wire. An *Error keeps
// its own kind; anything else becomes HandlerFailure. A pkg/errors stack
// trace, when present, is reported as the trace.
func asHandlerError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		if e.Stack == "" && e.Cause != nil {
			return &Error{Kind: e.Kind, Message: e.Message, Stack: traceOf(e.Cause), Cause: e.Cause}
		}
		return e
	}
	return &Error{Kind: KindHandlerFailure, Message: err.Error(), Stack: traceOf(err), Cause: err}
}

// panicError frames a recovered handler panic.
func panicError(r any) *Error {
	return &Error{
		Kind:    KindHandlerFailure,
		Message: fmt.Sprintf("panic: %v", r),
		Stack:   string(debug.Stack()),
	}
}

func traceOf(err error) string {
	var st stackTracer
	if errors.As(err, &st) {
		return fmt.Sprintf("%+v", st.StackTrace())
	}
	return ""
}
