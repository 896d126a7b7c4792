package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/katapod/transcribe/internal/audio"
	billingdomain "github.com/katapod/transcribe/internal/billing/domain"
	customerdomain "github.com/katapod/transcribe/internal/customer/domain"
	transcriptiondomain "github.com/katapod/transcribe/internal/transcription/domain"
	"gorm.io/gorm"
)

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
	ErrInternal       = errors.New("internal_error")
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

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

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, billingdomain.ErrNoMeteredItem):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "no_metered_subscription",
			Message: "no metered subscription item for customer",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, transcriptiondomain.ErrNetwork):
		return http.StatusBadGateway, errorPayload{
			Type:    "upstream_unavailable",
			Message: "transcription backend unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, billingdomain.ErrInvalidTier),
		errors.Is(err, billingdomain.ErrInvalidPeriod),
		errors.Is(err, billingdomain.ErrInvalidPart),
		errors.Is(err, billingdomain.ErrInvalidUser),
		errors.Is(err, billingdomain.ErrInvalidIdempotencyKey),
		errors.Is(err, transcriptiondomain.ErrInvalidFile),
		errors.Is(err, audio.ErrDecode):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, customerdomain.ErrMappingNotFound),
		errors.Is(err, transcriptiondomain.ErrRecordNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
