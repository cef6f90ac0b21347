package pipeline

import "errors"

// Kind categorizes pipeline failures so transport layers can choose status
// codes, and so the failover policy is explicit instead of hidden in
// try/catch-style control flow.
type Kind string

const (
	// KindBadRequest is a caller error: missing prompt with no list id.
	KindBadRequest Kind = "bad_request"
	// KindConfig means no provider credential could serve the request.
	KindConfig Kind = "configuration"
	// KindProvider is an upstream HTTP failure after all failover options
	// were exhausted.
	KindProvider Kind = "provider"
	// KindJobFailed means the provider declared the prospect list build dead.
	KindJobFailed Kind = "job_failed"
)

// Error is a categorized pipeline failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func wrapError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf extracts the failure category from an error chain. Unrecognized
// errors count as provider failures.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindProvider
}
