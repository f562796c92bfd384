package webdriver

import (
	"errors"
	"fmt"
)

// ErrNoSuchElement matches a remote "no such element" error.
var ErrNoSuchElement = errors.New("no such element")

// Error codes from the W3C WebDriver error table.
const (
	CodeNoSuchElement     = "no such element"
	CodeInvalidSessionID  = "invalid session id"
	CodeSessionNotCreated = "session not created"
	CodeUnknownError      = "unknown error"
)

// Error is an error reported by the WebDriver remote end.
type Error struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Code is the WebDriver error code, e.g. "no such element".
	Code string
	// Message is the human readable message sent by the driver.
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("webdriver: %s (HTTP %d)", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("webdriver: %s: %s", e.Code, e.Message)
}

// Is reports whether target is the sentinel matching this error's code.
func (e *Error) Is(target error) bool {
	return target == ErrNoSuchElement && e.Code == CodeNoSuchElement
}
