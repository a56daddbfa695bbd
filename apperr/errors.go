// Package apperr defines the error taxonomy shared across the hockey
// analytics backend: a small set of Kinds, each with an HTTP status and
// an indication of whether it demands a WWW-Authenticate challenge.
//
// It generalizes the teacher repo's services/errors.go call-site wrapping
// (WrapError, ErrorContext, caller-frame capture) to carry a Kind instead
// of a free-form operation string.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// Kind is one of the error kinds from the error-handling design.
type Kind string

const (
	Unauthorized        Kind = "unauthorized"
	Forbidden           Kind = "forbidden"
	NotFound            Kind = "not_found"
	BadRequest          Kind = "bad_request"
	Conflict            Kind = "conflict"
	GatewayTimeout      Kind = "gateway_timeout"
	BadGateway          Kind = "bad_gateway"
	Internal            Kind = "internal"
	ServiceUnavailable  Kind = "service_unavailable"
)

// httpStatus maps each Kind to its HTTP status code.
var httpStatus = map[Kind]int{
	Unauthorized:       http.StatusUnauthorized,
	Forbidden:          http.StatusForbidden,
	NotFound:           http.StatusNotFound,
	BadRequest:         http.StatusBadRequest,
	Conflict:           http.StatusConflict,
	GatewayTimeout:     http.StatusGatewayTimeout,
	BadGateway:         http.StatusBadGateway,
	Internal:           http.StatusInternalServerError,
	ServiceUnavailable: http.StatusServiceUnavailable,
}

// Context carries operation metadata attached to an Error, mirroring the
// teacher's ErrorContext (operation, team, game, caller file/line/func).
type Context struct {
	Operation      string
	TeamCode       string
	ClipID         string
	ConversationID string
	Function       string
	File           string
	Line           int
}

// Error is the application error type. All handler-facing failures should
// be (or wrap) an *Error so the HTTP layer can map Kind to a status code
// and an auth challenge.
type Error struct {
	Kind      Kind
	Code      string // optional machine-readable sub-code, e.g. "bad_format"
	Message   string
	Err       error
	Context   Context
	UpstreamStatus int // set for BadGateway carrying a remote status
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Context.Operation != "" {
		sb.WriteString(fmt.Sprintf("[%s] ", e.Context.Operation))
	}
	sb.WriteString(string(e.Kind))
	if e.Code != "" {
		sb.WriteString("(" + e.Code + ")")
	}
	if e.Message != "" {
		sb.WriteString(": " + e.Message)
	}
	if e.Err != nil {
		sb.WriteString(": " + e.Err.Error())
	}
	if e.Context.TeamCode != "" {
		sb.WriteString(fmt.Sprintf(" (team: %s)", e.Context.TeamCode))
	}
	if e.Context.File != "" {
		sb.WriteString(fmt.Sprintf(" at %s:%d", e.Context.File, e.Context.Line))
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for this error's Kind.
func (e *Error) Status() int {
	if s, ok := httpStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// RequiresChallenge reports whether the response should carry a
// WWW-Authenticate: Bearer header, per the auth failure policy.
func (e *Error) RequiresChallenge() bool {
	return e.Kind == Unauthorized
}

// New creates an *Error of the given kind with a caller-captured context.
func New(kind Kind, operation, message string) *Error {
	return withCaller(&Error{Kind: kind, Message: message, Context: Context{Operation: operation}})
}

// Wrap wraps an existing error as an *Error of the given kind. If err is
// nil, Wrap returns nil (matching the teacher's WrapError nil-passthrough).
func Wrap(err error, kind Kind, operation string) *Error {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*Error); ok {
		return ae
	}
	return withCaller(&Error{Kind: kind, Err: err, Context: Context{Operation: operation}})
}

// WithCode sets the machine-readable sub-code and returns the receiver.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// WithTeam attaches a team-code to the error context.
func (e *Error) WithTeam(team string) *Error {
	e.Context.TeamCode = team
	return e
}

// WithClip attaches a clip id to the error context.
func (e *Error) WithClip(clipID string) *Error {
	e.Context.ClipID = clipID
	return e
}

// WithConversation attaches a conversation id to the error context.
func (e *Error) WithConversation(id string) *Error {
	e.Context.ConversationID = id
	return e
}

// WithUpstreamStatus records the remote status code for a BadGateway error
// so it can be logged without being echoed back to the client verbatim.
func (e *Error) WithUpstreamStatus(status int) *Error {
	e.UpstreamStatus = status
	return e
}

func withCaller(e *Error) *Error {
	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		return e
	}
	fn := runtime.FuncForPC(pc)
	if fn != nil {
		e.Context.Function = fn.Name()
	}
	parts := strings.Split(file, "/")
	e.Context.File = parts[len(parts)-1]
	e.Context.Line = line
	return e
}

// Is reports whether err is an *Error of the given kind, unwrapping as
// needed. Mirrors the teacher's IsErrorType helper.
func Is(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

// KindOf extracts the Kind of err, defaulting to Internal when err is not
// an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// SafeExecute runs fn and converts any panic into an Internal *Error,
// preserving the teacher's SafeExecute panic-recovery idiom for use around
// tool invocations in the query orchestrator.
func SafeExecute(operation string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = New(Internal, operation, fmt.Sprintf("panic: %v", r))
		}
	}()
	return fn()
}

// SafeExecuteWithReturn is the generic form of SafeExecute for functions
// that also produce a value.
func SafeExecuteWithReturn[T any](operation string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			err = New(Internal, operation, fmt.Sprintf("panic: %v", r))
		}
	}()
	return fn()
}
