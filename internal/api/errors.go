package api

import (
	"errors"
	"fmt"
)

// Kind classifies a client failure.
type Kind string

const (
	// KindIncompleteConfig is returned by Builder.Build when the URL or token is missing.
	KindIncompleteConfig Kind = "incomplete_config"

	// KindNoOpRejected is returned for mutating calls in dry-run mode when the
	// client was built to reject them.
	KindNoOpRejected Kind = "noop_rejected"

	// KindTaskCount is returned when a task status query does not match a record.
	KindTaskCount Kind = "task_count"

	// KindUnknownCorrespondent is returned when a name lookup finds nothing.
	KindUnknownCorrespondent Kind = "unknown_correspondent"

	// KindTransport covers connection failures, non-2xx responses and undecodable bodies.
	KindTransport Kind = "transport"

	// KindIO covers local file failures while preparing an upload.
	KindIO Kind = "io"

	// KindPageLimit is returned when a paginated walk exceeds the configured page cap.
	KindPageLimit Kind = "page_limit"
)

// Sentinels for errors.Is. Any *Error of the same Kind matches.
var (
	ErrIncompleteConfig     = &Error{Kind: KindIncompleteConfig}
	ErrNoOpRejected         = &Error{Kind: KindNoOpRejected}
	ErrTaskCount            = &Error{Kind: KindTaskCount}
	ErrUnknownCorrespondent = &Error{Kind: KindUnknownCorrespondent}
	ErrTransport            = &Error{Kind: KindTransport}
	ErrIO                   = &Error{Kind: KindIO}
	ErrPageLimit            = &Error{Kind: KindPageLimit}
)

// Error is the error type returned by the client.
type Error struct {
	Kind       Kind
	Method     string
	URL        string
	StatusCode int
	Body       string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = defaultMessage(e.Kind)
	}

	if e.URL != "" {
		if e.StatusCode != 0 {
			msg = fmt.Sprintf("%s: %s %s (status %d)", msg, e.Method, e.URL, e.StatusCode)
		} else {
			msg = fmt.Sprintf("%s: %s %s", msg, e.Method, e.URL)
		}
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func defaultMessage(kind Kind) string {
	switch kind {
	case KindIncompleteConfig:
		return "the configuration was incomplete"
	case KindNoOpRejected:
		return "refusing to modify the server in dry-run mode"
	case KindTaskCount:
		return "unexpected number of task status records"
	case KindUnknownCorrespondent:
		return "the correspondent is unknown"
	case KindTransport:
		return "API interaction error"
	case KindIO:
		return "I/O error"
	case KindPageLimit:
		return "page limit exceeded"
	default:
		return "paperless client error"
	}
}

// StatusCode returns the HTTP status carried by err, or 0 if there is none.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
