package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Codes cover every failure class the composer core can surface. Upstream
// codes are split so callers can distinguish a bad credential from a quota
// hit without parsing provider messages.
const (
	CodeValidation          = "validation"
	CodeNotFound            = "not_found"
	CodeUpstreamAuth        = "upstream_auth"
	CodeUpstreamRateLimited = "upstream_rate_limited"
	CodeUpstreamTransient   = "upstream_transient"
	CodeInvalidAudio        = "invalid_audio"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(err error) *Error {
	return New(http.StatusBadRequest, CodeValidation, err)
}

func Validationf(format string, args ...any) *Error {
	return Validation(fmt.Errorf(format, args...))
}

func NotFound(err error) *Error {
	return New(http.StatusNotFound, CodeNotFound, err)
}

func NotFoundf(format string, args ...any) *Error {
	return NotFound(fmt.Errorf(format, args...))
}

func UpstreamAuth(err error) *Error {
	return New(http.StatusBadGateway, CodeUpstreamAuth, err)
}

func UpstreamRateLimited(err error) *Error {
	return New(http.StatusBadGateway, CodeUpstreamRateLimited, err)
}

func UpstreamTransient(err error) *Error {
	return New(http.StatusBadGateway, CodeUpstreamTransient, err)
}

func InvalidAudio(err error) *Error {
	return New(http.StatusUnprocessableEntity, CodeInvalidAudio, err)
}

// From returns err as an *Error, wrapping unknown errors as an upstream
// transient failure so handlers always have a status and code to report.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return UpstreamTransient(err)
}

func IsCode(err error, code string) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}
