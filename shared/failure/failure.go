// Package failure carries errors that know which HTTP status they map to.
package failure

import (
	"errors"
	"net/http"
)

// Failure is an error with the HTTP status it should be reported as.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

func (e *Failure) Error() string {
	return e.Message
}

func newFailure(code int, message string) error {
	return &Failure{Code: code, Message: message}
}

func fromError(code int, err error) error {
	if err == nil {
		return nil
	}

	return newFailure(code, err.Error())
}

// BadRequest reports err as a 400. A nil err stays nil.
func BadRequest(err error) error {
	return fromError(http.StatusBadRequest, err)
}

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return newFailure(http.StatusForbidden, msg)
}

func NotFound(msg string) error {
	return newFailure(http.StatusNotFound, msg)
}

// Conflict is returned when a booking overlaps a confirmed reservation or loses a write race.
func Conflict(msg string) error {
	return newFailure(http.StatusConflict, msg)
}

// InvalidState rejects an operation the resource's status no longer allows.
func InvalidState(msg string) error {
	return newFailure(http.StatusConflict, msg)
}

// InternalError reports err as a 500. A nil err stays nil.
func InternalError(err error) error {
	return fromError(http.StatusInternalServerError, err)
}

// Unavailable marks a retryable infrastructure error such as a store timeout.
func Unavailable(msg string) error {
	return newFailure(http.StatusServiceUnavailable, msg)
}

// GetCode returns the status of the first Failure in err's chain, 500 when there is none.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
