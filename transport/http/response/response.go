package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"facility/shared/constant"
	"facility/shared/failure"
	"facility/shared/logger"
)

const retryAfterSeconds = 1

type Data[T any] struct {
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`
}

type Error struct {
	Error *string `json:"error,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithMessageAndJSON sends payload together with a human readable message.
func WithMessageAndJSON(writer http.ResponseWriter, code int, message string, payload any) {
	write(writer, code, Data[any]{Message: message, Data: &payload})
}

// WithError maps err to its status. Only the message of the wrapped failure.Failure is sent;
// wrapping context and errors without a Failure never reach the client.
func WithError(writer http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	message := http.StatusText(http.StatusInternalServerError)

	var fail *failure.Failure
	if errors.As(err, &fail) {
		code = fail.Code
		message = fail.Message
	}

	if code == http.StatusServiceUnavailable {
		writer.Header().Set(constant.ResponseHeaderRetryAfter, strconv.Itoa(retryAfterSeconds))
	}

	write(writer, code, Error{Error: &message})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
