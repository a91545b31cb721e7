package http

import (
	"fmt"
	"net/http"
)

// Error codes carried in the response envelope.
const (
	CodeBadRequest  = "ERR_BAD_REQUEST"
	CodeBind        = "ERR_BIND"
	CodeNotFound    = "ERR_NOT_FOUND"
	CodeNotAllowed  = "ERR_METHOD_NOT_ALLOWED"
	CodeRateLimited = "ERR_RATE_LIMITED"
	CodeInternal    = "ERR_INTERNAL"
)

// AppError is an error a handler wants rendered with a specific status and code.
type AppError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
	Status  int            `json:"-"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// WithParam attaches a detail the client can act on, such as the ticker it sent.
func (e *AppError) WithParam(key string, value any) *AppError {
	if e.Params == nil {
		e.Params = make(map[string]any, 1)
	}
	e.Params[key] = value
	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

func newAppError(status int, code, format string, a ...any) *AppError {
	msg := format
	if len(a) > 0 {
		msg = fmt.Sprintf(format, a...)
	}
	return &AppError{Code: code, Message: msg, Status: status}
}

func NotFoundError(format string, a ...any) *AppError {
	return newAppError(http.StatusNotFound, CodeNotFound, format, a...)
}

func BadRequestError(format string, a ...any) *AppError {
	return newAppError(http.StatusBadRequest, CodeBadRequest, format, a...)
}

func InternalError(format string, a ...any) *AppError {
	return newAppError(http.StatusInternalServerError, CodeInternal, format, a...)
}

// StatusError builds the envelope error for a bare status raised by the router
// or by middleware.
func StatusError(status int) *AppError {
	return &AppError{Code: codeForStatus(status), Message: http.StatusText(status), Status: status}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusMethodNotAllowed:
		return CodeNotAllowed
	case http.StatusTooManyRequests:
		return CodeRateLimited
	case http.StatusBadRequest:
		return CodeBadRequest
	}
	return CodeInternal
}
