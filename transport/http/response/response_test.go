package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facility/shared/failure"
	"facility/transport/http/response"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		code       int
		message    string
		retryAfter string
	}{
		{
			name:    "domain failure keeps its message",
			err:     fmt.Errorf("create reservation: %w", failure.Conflict("time slot overlaps")),
			code:    http.StatusConflict,
			message: "time slot overlaps",
		},
		{
			name:    "wrapping context is dropped",
			err:     fmt.Errorf("failed to reschedule reservation: %w", failure.NotFound("reservation not found")),
			code:    http.StatusNotFound,
			message: "reservation not found",
		},
		{
			name:    "store error is hidden",
			err:     errors.New(`pq: relation "reservations" does not exist`),
			code:    http.StatusInternalServerError,
			message: "Internal Server Error",
		},
		{
			name:       "unavailable asks to retry",
			err:        failure.Unavailable("store did not respond in time"),
			code:       http.StatusServiceUnavailable,
			message:    "store did not respond in time",
			retryAfter: "1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			response.WithError(rec, tt.err)

			var body struct {
				Error string `json:"error"`
			}

			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.message, body.Error)
			assert.Equal(t, tt.retryAfter, rec.Header().Get("Retry-After"))
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestWithMessageAndJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WithMessageAndJSON(rec, http.StatusCreated, "Reservation created successfully", map[string]string{"id": "rsv-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Reservation created successfully","data":{"id":"rsv-1"}}`, rec.Body.String())
}
