package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/versaforge/go-agent-backend/internal/services"
)

func TestFailErr_UnknownErrorIsOpaque500(t *testing.T) {
	r := gin.New()
	r.GET("/boom", func(c *gin.Context) {
		failErr(c, errors.New("dial tcp 10.0.0.1:5432: connect: connection refused"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	e := decodeErr(t, w)
	if e.Code != ErrCodeInternal {
		t.Fatalf("code = %q", e.Code)
	}
	if e.Message != "internal error" {
		t.Fatalf("internals leaked: %q", e.Message)
	}
}

func TestFailErr_MatchesWrappedErrors(t *testing.T) {
	r := gin.New()
	r.GET("/wrapped", func(c *gin.Context) {
		failErr(c, fmt.Errorf("loading agent 11: %w", services.ErrAgentNotFound))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wrapped", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if e := decodeErr(t, w); e.Code != ErrCodeNotFound {
		t.Fatalf("code = %q", e.Code)
	}
}
