// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides BearerAuth, which resolves the Authorization header
// into an authenticated user via the auth guard and aborts with 401 when the
// credential is missing or invalid.
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/versaforge/go-agent-backend/internal/domain"
)

const (
	// currentUserKey is the Gin context key holding the *domain.User.
	currentUserKey = "currentUser"
)

// Authenticator is the guard contract BearerAuth depends on. The returned
// user row reflects current admin/active flags, not the token snapshot.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// BearerAuth returns a middleware that requires a valid "Bearer <token>"
// Authorization header. On success the resolved user is stored in the Gin
// context (CurrentUser) and "userID" is set for the rate limiter's keying.
// On failure the request is aborted with 401 and a WWW-Authenticate header.
func BearerAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			unauthorized(c, "missing bearer credential")
			return
		}
		user, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			unauthorized(c, "invalid or expired credential")
			return
		}
		c.Set(currentUserKey, user)
		c.Set("userID", strconv.FormatUint(uint64(user.ID), 10))
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by BearerAuth, or nil when
// the route is unauthenticated.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(currentUserKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

// bearerToken extracts the token from an "Authorization: Bearer x" header,
// returning "" when absent or malformed.
func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// unauthorized aborts with a 401 JSON envelope and the Bearer challenge.
func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get("X-Request-ID"),
		"code":       "unauthorized",
		"message":    msg,
	})
}
