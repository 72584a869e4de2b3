// Package handlers implements the HTTP endpoints of the netmodel API server.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/netmodel/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/netmodel/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/netmodel/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// writeAppError maps application errors to HTTP status codes via their error
// code. Server-side failures are logged and masked.
func writeAppError(c *gin.Context, logger logging.Logger, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	if code == errors.CodeUnknown {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError && status != http.StatusBadGateway && status != http.StatusServiceUnavailable {
		logger.Error("request failed", logging.String("path", c.FullPath()), logging.Err(err))
		c.AbortWithStatusJSON(status, ErrorResponse{
			Code:    string(errors.ErrCodeInternal),
			Message: errors.DefaultMessageForCode(errors.ErrCodeInternal),
		})
		return
	}

	resp := ErrorResponse{Code: string(code), Message: err.Error()}
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		resp.Message = appErr.Message
		resp.Detail = appErr.Detail
		if resp.Detail == "" && appErr.Cause != nil {
			resp.Detail = appErr.Cause.Error()
		}
	}
	c.AbortWithStatusJSON(status, resp)
}

// bindJSON decodes the request body into req and writes a 400 on failure.
func bindJSON(c *gin.Context, logger logging.Logger, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeAppError(c, logger, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body"))
		return false
	}
	return true
}

// publishRun sends ev without failing the request; a publish error is only
// logged.
func publishRun(ctx context.Context, p kafka.RunPublisher, logger logging.Logger, ev *kafka.RunEvent) {
	if err := p.PublishRun(ctx, ev); err != nil {
		logger.Warn("Run event not published", logging.String("run_id", ev.RunID), logging.Err(err))
	}
}
