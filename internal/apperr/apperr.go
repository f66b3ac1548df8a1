// Package apperr defines the small set of error kinds the core distinguishes,
// and the propagation rules around them.
//
// Grounded in the teacher's plain sentinel errors (yada's gateway connect/shard
// errors are returned as-is from stdlib calls) generalized per spec.md §7 into
// a named-kind enum at module boundaries, and an opaque wrapped error at
// handler boundaries (spec.md §9 "Error plumbing").
package apperr

import "errors"

// Kind distinguishes the error categories named in spec.md §7.
type Kind int

const (
	// KindConfig covers missing env vars and unparseable addresses. Fatal at startup.
	KindConfig Kind = iota
	// KindTransport covers queue/KV/DB connection failures. Logged and retried with backoff; fatal after N.
	KindTransport
	// KindParse covers malformed envelopes, opcodes, or cron expressions.
	KindParse
	// KindRouteMiss covers an unknown command, custom_id, or interaction kind.
	KindRouteMiss
	// KindUpstream covers REST 4xx/5xx from the upstream chat service.
	KindUpstream
	// KindHandler wraps any error returned by a user-supplied handler.
	KindHandler
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	case KindRouteMiss:
		return "route_miss"
	case KindUpstream:
		return "upstream"
	case KindHandler:
		return "handler"
	default:
		return "unknown"
	}
}

// Error is an opaque wrapped error carrying a Kind, usable with errors.Is/As
// via the sentinel values below.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// New builds an Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, msg: msg}
}

// Wrap builds an Error of the given kind wrapping err.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, msg: msg, err: err}
}

// Sentinels usable with errors.Is for kind checks without allocating.
var (
	ErrConfig     = New(KindConfig, "config error")
	ErrTransport  = New(KindTransport, "transport error")
	ErrParse      = New(KindParse, "parse error")
	ErrRouteMiss  = New(KindRouteMiss, "route miss")
	ErrUpstream   = New(KindUpstream, "upstream error")
	ErrHandler    = New(KindHandler, "handler error")
	ErrNotImplemented = New(KindRouteMiss, "not implemented")
)

// Is implements the errors.Is contract by Kind rather than identity, so
// errors.Is(err, apperr.ErrRouteMiss) matches any *Error with KindRouteMiss.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
