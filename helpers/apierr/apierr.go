// Package apierr defines the error taxonomy surfaced to API callers.
// Every error carries the numeric code written into the response envelope;
// anything that is not an *Error is reported as a generic 400 so internal
// detail never leaks to clients.
package apierr

import "errors"

type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func BadRequest(message string) *Error {
	return &Error{Code: 400, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Code: 401, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Code: 404, Message: message}
}

// Expired marks tokens and invites past their validity window.
func Expired(message string) *Error {
	return &Error{Code: 410, Message: message}
}

// InvalidArgument marks values that parse but make no sense, such as a
// non-positive queue position.
func InvalidArgument(message string) *Error {
	return &Error{Code: 422, Message: message}
}

// From extracts the typed error, or nil if err is not one.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
