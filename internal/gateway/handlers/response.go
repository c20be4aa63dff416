package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"catering-backoffice/internal/logger"
	"catering-backoffice/internal/services/attendance"
	"catering-backoffice/internal/services/availability"
	"catering-backoffice/internal/services/reports"
	"catering-backoffice/internal/services/scheduling"
	"catering-backoffice/internal/services/worklogs"
	"catering-backoffice/internal/store"

	"github.com/gin-gonic/gin"
)

const requestTimeout = 10 * time.Second

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

func successWithMetaResponse(message string, data interface{}, meta interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}
}

// requestContext bounds a handler's store work by the request deadline.
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// statusFor maps service and store errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		importErr  *attendance.ValidationError
		availErr   *availability.ValidationError
		reportErr  *reports.ValidationError
		workLogErr *worklogs.ValidationError
		schedErr   *scheduling.ValidationError
	)
	switch {
	case errors.As(err, &importErr), errors.As(err, &availErr), errors.As(err, &reportErr),
		errors.As(err, &workLogErr), errors.As(err, &schedErr),
		errors.Is(err, attendance.ErrBatchRejected):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrStaffNotFound),
		errors.Is(err, store.ErrEventNotFound), errors.Is(err, store.ErrWorkLogNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrAlreadyAssigned):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the gateway envelope. Internal failures are logged
// and their detail withheld from the client.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		message = "Internal server error"
	}
	c.JSON(status, errorResponse(message))
}
