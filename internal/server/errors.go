package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	attributiondomain "github.com/smallbiznis/clipcart/internal/attribution/domain"
	deliverabledomain "github.com/smallbiznis/clipcart/internal/deliverable/domain"
	orderdomain "github.com/smallbiznis/clipcart/internal/order/domain"
	performancedomain "github.com/smallbiznis/clipcart/internal/performance/domain"
	syncerdomain "github.com/smallbiznis/clipcart/internal/syncer/domain"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict       = errors.New("conflict")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, deliverabledomain.ErrDuplicate):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, syncerdomain.ErrSyncFailed):
		return http.StatusBadGateway, errorPayload{
			Type:    "sync_failed",
			Message: "platform sync failed",
		}
	case errors.Is(err, syncerdomain.ErrNoProvider):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "sync provider not configured",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, videodomain.ErrInvalidID),
		errors.Is(err, videodomain.ErrInvalidCreator),
		errors.Is(err, videodomain.ErrInvalidVideo),
		errors.Is(err, videodomain.ErrInvalidCounters),
		errors.Is(err, orderdomain.ErrInvalidOrder),
		errors.Is(err, orderdomain.ErrInvalidAmount),
		errors.Is(err, attributiondomain.ErrInvalidScope),
		errors.Is(err, attributiondomain.ErrInvalidWindow),
		errors.Is(err, deliverabledomain.ErrInvalidDeliverable),
		errors.Is(err, deliverabledomain.ErrInvalidTransition),
		errors.Is(err, performancedomain.ErrInvalidCreator),
		errors.Is(err, performancedomain.ErrInvalidRange):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, videodomain.ErrNotFound),
		errors.Is(err, orderdomain.ErrNotFound),
		errors.Is(err, attributiondomain.ErrScopeNotFound),
		errors.Is(err, deliverabledomain.ErrNotFound),
		errors.Is(err, performancedomain.ErrNoSnapshots),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
