package api

import (
	"github.com/gin-gonic/gin"

	"github.com/aouyang1/signage/auth"
	"github.com/aouyang1/signage/ratelimit"
)

const requestContextKey = "signage.request"

// RequestContext is the per-request state assembled by the middleware chain.
type RequestContext struct {
	User      *auth.User
	RateLimit ratelimit.Decision
}

func setRequestContext(c *gin.Context, rc *RequestContext) {
	c.Set(requestContextKey, rc)
}

// GetRequestContext returns the request context, or an empty one on routes
// that skip authentication.
func GetRequestContext(c *gin.Context) *RequestContext {
	if v, ok := c.Get(requestContextKey); ok {
		if rc, ok := v.(*RequestContext); ok {
			return rc
		}
	}
	return &RequestContext{}
}
