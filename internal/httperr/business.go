package httperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindExpired
	KindAuth
	KindUnavailable
	KindInternal
)

var kindStatus = map[Kind]int{
	KindValidation:   http.StatusBadRequest,
	KindUnauthorized: http.StatusUnauthorized,
	KindForbidden:    http.StatusForbidden,
	KindNotFound:     http.StatusNotFound,
	KindConflict:     http.StatusConflict,
	KindExpired:      http.StatusGone,
	KindAuth:         http.StatusUnprocessableEntity,
	KindUnavailable:  http.StatusServiceUnavailable,
	KindInternal:     http.StatusInternalServerError,
}

// Error is a failure the API knows how to present. Code is stable and
// machine readable, Message is shown to the user.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Status() int {
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func Validation(code, message string) error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func NotAuthenticated(code, message string) error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: message}
}

func NotAllowed(code, message string) error {
	return &Error{Kind: KindForbidden, Code: code, Message: message}
}

func Missing(code, message string) error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func Conflict(code, message string) error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func Expired(code, message string) error {
	return &Error{Kind: KindExpired, Code: code, Message: message}
}

func Auth(code, message string) error {
	return &Error{Kind: KindAuth, Code: code, Message: message}
}

func Unavailable(code, message string) error {
	return &Error{Kind: KindUnavailable, Code: code, Message: message}
}

// Wrap marks err as an internal failure. The cause is logged, never sent.
func Wrap(code string, err error) error {
	return Failure(code, "Erro interno do servidor.", err)
}

// Failure is Wrap with a message tailored to the operation that failed.
func Failure(code, message string, err error) error {
	return &Error{Kind: KindInternal, Code: code, Message: message, Err: err}
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func IsCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
