package response

import (
	"context"
	"errors"
	"net/http"

	"storefront/entity"
	"storefront/lib/clock"
)

type Response struct {
	Data          interface{} `json:"data,omitempty"`
	Success       bool        `json:"success" validate:"required"`
	StatusMessage string      `json:"status_message"`
	Details       string      `json:"details,omitempty"`
	Timestamp     string      `json:"timestamp"`
}

func Ok(data interface{}) Response {
	return Response{
		Data:          data,
		Success:       true,
		StatusMessage: "Success",
		Timestamp:     clock.Now(),
	}
}

func Error(message string) Response {
	return Response{
		Success:       false,
		StatusMessage: message,
		Timestamp:     clock.Now(),
	}
}

// ErrorDetails carries the upstream error text next to a stable message
func ErrorDetails(message string, err error) Response {
	resp := Error(message)
	if err != nil {
		resp.Details = err.Error()
	}
	return resp
}

// StatusOf maps an error kind to the http status returned to the client
func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, entity.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrStatusConflict):
		return http.StatusConflict
	case errors.Is(err, entity.ErrNotConnected):
		return http.StatusServiceUnavailable
	case errors.Is(err, entity.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
