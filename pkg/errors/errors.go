package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels the storefront distinguishes. Match with errors.Is.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrGone         = errors.New("resource expired")
)

// kind ties a sentinel to its HTTP status and envelope code.
type kind struct {
	sentinel error
	status   int
	code     string
}

var kinds = []kind{
	{ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	{ErrConflict, http.StatusConflict, "CONFLICT"},
	{ErrGone, http.StatusGone, "GONE"},
}

// AppError is an error whose message is safe to show to the shopper.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(sentinel error, message string) *AppError {
	k := lookup(sentinel)
	return &AppError{Code: k.code, Message: message, Status: k.status, Err: sentinel}
}

// NotFound reports a missing product, list item or confirmation.
func NotFound(resource, id string) *AppError {
	return newAppError(ErrNotFound, fmt.Sprintf("%s with id %s not found", resource, id))
}

// InvalidInput reports a request the shopper can fix, such as an out-of-stock add.
func InvalidInput(message string) *AppError {
	return newAppError(ErrInvalidInput, message)
}

// Conflict reports an operation the current state does not allow.
func Conflict(message string) *AppError {
	return newAppError(ErrConflict, message)
}

// Gone reports a resource that existed but has expired.
func Gone(resource, id string) *AppError {
	return newAppError(ErrGone, fmt.Sprintf("%s with id %s has expired", resource, id))
}

func lookup(err error) kind {
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return k
		}
	}
	return kind{status: http.StatusInternalServerError, code: "INTERNAL_ERROR"}
}

// HTTPStatus maps err to a response status: the AppError's own status, else
// that of the wrapped sentinel, else 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return lookup(err).status
}

// Code maps err to its envelope code, following the same rules as HTTPStatus.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return lookup(err).code
}
