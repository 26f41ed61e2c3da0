package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"facility/shared/failure"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{name: "bad request", err: failure.BadRequest(errors.New("end_time must be after start_time")), code: http.StatusBadRequest, message: "end_time must be after start_time"},
		{name: "bad request from string", err: failure.BadRequestFromString("invalid date"), code: http.StatusBadRequest, message: "invalid date"},
		{name: "unauthorized", err: failure.Unauthorized("authentication required"), code: http.StatusUnauthorized, message: "authentication required"},
		{name: "forbidden", err: failure.Forbidden("only admins can manage rooms"), code: http.StatusForbidden, message: "only admins can manage rooms"},
		{name: "forbidden default", err: failure.ForbiddenError, code: http.StatusForbidden, message: "You don't have the required permissions"},
		{name: "not found", err: failure.NotFound("room not found"), code: http.StatusNotFound, message: "room not found"},
		{name: "conflict", err: failure.Conflict("slot taken"), code: http.StatusConflict, message: "slot taken"},
		{name: "invalid state", err: failure.InvalidState("reservation is cancelled"), code: http.StatusConflict, message: "reservation is cancelled"},
		{name: "internal", err: failure.InternalError(errors.New("boom")), code: http.StatusInternalServerError, message: "boom"},
		{name: "unavailable", err: failure.Unavailable("store timeout"), code: http.StatusServiceUnavailable, message: "store timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fail *failure.Failure

			assert.ErrorAs(t, tt.err, &fail)
			assert.Equal(t, tt.code, fail.Code)
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestNilErrorsStayNil(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "failure", err: failure.NotFound("reservation not found"), want: http.StatusNotFound},
		{name: "wrapped failure", err: fmt.Errorf("create reservation: %w", failure.Conflict("overlap")), want: http.StatusConflict},
		{name: "plain error", err: errors.New("connection reset"), want: http.StatusInternalServerError},
		{name: "nil", err: nil, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failure.GetCode(tt.err))
		})
	}
}
