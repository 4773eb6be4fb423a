package lifecycle

import "errors"

// LaunchError signals a failed spawn attempt (missing executable, busy
// port). It is fatal to that attempt: the caller resolves the cause and
// retries explicitly, there is no internal retry or prompt.
type LaunchError struct {
	Reason string
	Err    error
}

func (e *LaunchError) Error() string {
	if e.Err != nil {
		return "launch: " + e.Reason + ": " + e.Err.Error()
	}
	return "launch: " + e.Reason
}

func (e *LaunchError) Unwrap() error { return e.Err }

// IsLaunchError reports whether err is a spawn failure.
func IsLaunchError(err error) bool {
	var le *LaunchError
	return errors.As(err, &le)
}

// RequestClass distinguishes smoke-test failures the operator can fix in
// configuration (4xx) from server-side problems (5xx, network).
type RequestClass string

const (
	ClassConfig RequestClass = "config"
	ClassServer RequestClass = "server"
)

// RequestError is a classified smoke-test failure.
type RequestError struct {
	Class  RequestClass
	Status int // HTTP status when available, 0 for network errors
	Err    error
}

func (e *RequestError) Error() string { return "request (" + string(e.Class) + "): " + e.Err.Error() }

func (e *RequestError) Unwrap() error { return e.Err }

// IsRequestError reports whether err is a classified request failure.
func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}
