// Package handlers – error codes and the service-error translation table.
//
// Every endpoint funnels service-layer failures through failErr(), which
// consults one exhaustive mapping from error kind to HTTP status and stable
// machine-readable code. Unmapped errors never leak detail: they are logged
// with full context and answered with a generic 500 envelope.
//
// Conventions:
//   - Codes are lowercase snake_case and mirror common HTTP semantics.
//   - Clients branch on codes, not messages.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/versaforge/go-agent-backend/internal/auth"
	"github.com/versaforge/go-agent-backend/internal/http/middleware"
	"github.com/versaforge/go-agent-backend/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeValidation       = "validation_failed"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeUpstream         = "upstream_error"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)

// mapping ties one service error to its boundary translation.
type mapping struct {
	status int
	code   string
}

// errorTable is the single source of truth for expected-failure translation.
// Authentication failures map to 401; every other permission failure to 403.
var errorTable = []struct {
	err error
	m   mapping
}{
	{services.ErrUserNotFound, mapping{http.StatusNotFound, ErrCodeNotFound}},
	{services.ErrCategoryNotFound, mapping{http.StatusNotFound, ErrCodeNotFound}},
	{services.ErrAgentNotFound, mapping{http.StatusNotFound, ErrCodeNotFound}},
	{services.ErrGroupNotFound, mapping{http.StatusNotFound, ErrCodeNotFound}},
	{services.ErrDuplicateUser, mapping{http.StatusBadRequest, ErrCodeConflict}},
	{services.ErrDuplicateCategory, mapping{http.StatusBadRequest, ErrCodeConflict}},
	{services.ErrDuplicateAgent, mapping{http.StatusBadRequest, ErrCodeConflict}},
	{services.ErrDuplicateFile, mapping{http.StatusBadRequest, ErrCodeConflict}},
	{services.ErrInvalidInput, mapping{http.StatusBadRequest, ErrCodeBadRequest}},
	{services.ErrUnsupportedFileType, mapping{http.StatusBadRequest, ErrCodeBadRequest}},
	{services.ErrUpstream, mapping{http.StatusBadGateway, ErrCodeUpstream}},
	{auth.ErrInvalidCredential, mapping{http.StatusUnauthorized, ErrCodeUnauthorized}},
	{auth.ErrExpiredCredential, mapping{http.StatusUnauthorized, ErrCodeUnauthorized}},
	{auth.ErrMalformedCredential, mapping{http.StatusUnauthorized, ErrCodeUnauthorized}},
	{auth.ErrPermissionDenied, mapping{http.StatusForbidden, ErrCodeForbidden}},
}

// failErr translates err through the error table and writes the envelope.
// Unknown errors are logged with the request-scoped logger and answered with
// a generic internal error, so internals can never reach the client.
func failErr(c *gin.Context, err error) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			fail(c, e.m.status, e.m.code, err.Error())
			return
		}
	}
	middleware.LoggerFrom(c).Error().Err(err).Msg("unhandled service error")
	fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal error")
}
