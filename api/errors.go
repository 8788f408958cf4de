package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aouyang1/signage/api/models"
	"github.com/aouyang1/signage/assets"
	"github.com/aouyang1/signage/auth"
	"github.com/aouyang1/signage/membership"
	"github.com/aouyang1/signage/store"
)

var (
	errForbiddenGroup = errors.New("user not in groups admin or editor")
	errRateLimited    = errors.New("rate limit exceeded")
	errAssetsDisabled = errors.New("asset storage is not configured")
)

// statusFor maps a domain error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrQueueNotFound),
		errors.Is(err, store.ErrSlideNotFound),
		errors.Is(err, errAssetsDisabled):
		return http.StatusNotFound
	case errors.Is(err, membership.ErrNotAMember),
		errors.Is(err, membership.ErrAlreadyAMember),
		errors.Is(err, membership.ErrInvalidPosition),
		errors.Is(err, assets.ErrInvalidName),
		errors.Is(err, assets.ErrUnsupportedType):
		return http.StatusBadRequest
	case errors.Is(err, membership.ErrWouldOrphanSlide):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrUnauthorized),
		errors.Is(err, errForbiddenGroup):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrQueueExists),
		errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.AbortWithStatusJSON(status, models.ErrorResponse{Error: "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, models.ErrorResponse{Error: err.Error()})
}

func respondBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request: " + err.Error()})
}
