package api

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aouyang1/signage/auth"
)

// requestLogger logs one line per request through slog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if user := GetRequestContext(c).User; user != nil {
			attrs = append(attrs, "user", user.Name)
		}

		switch {
		case c.Writer.Status() >= 500:
			slog.Error("request", attrs...)
		case c.Writer.Status() >= 400:
			slog.Warn("request", attrs...)
		default:
			slog.Info("request", attrs...)
		}
	}
}

func (ws *WebServer) authenticate(c *gin.Context) {
	token, ok := auth.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		respondError(c, fmt.Errorf("%w: missing bearer token", auth.ErrUnauthorized))
		return
	}

	user, err := ws.verifier.Verify(token)
	if err != nil {
		respondError(c, err)
		return
	}

	setRequestContext(c, &RequestContext{User: user})
	c.Next()
}

// rateLimit must run after authenticate; buckets are keyed by user name.
func (ws *WebServer) rateLimit(c *gin.Context) {
	rc := GetRequestContext(c)
	if rc.User == nil || !ws.limiter.Enabled() {
		c.Next()
		return
	}

	decision := ws.limiter.Allow(rc.User.Name)
	rc.RateLimit = decision

	c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	if !decision.Allowed {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(decision.RetryAfter.Seconds()))))
		respondError(c, errRateLimited)
		return
	}
	c.Next()
}

func requireGroups(groups ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetRequestContext(c).User.InGroup(groups...) {
			respondError(c, errForbiddenGroup)
			return
		}
		c.Next()
	}
}
