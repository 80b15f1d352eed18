package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/versaforge/go-agent-backend/internal/config"
	"github.com/versaforge/go-agent-backend/internal/repo"
	"github.com/versaforge/go-agent-backend/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() config.Config {
	return config.Config{
		GinMode:     gin.TestMode,
		APIBasePath: "/api/v1",
		LLMDefault:  "openai",
		JWT: config.JWTConfig{
			Secret: "router-test-secret",
			TTL:    time.Hour,
		},
		RateRPS:   1000,
		RateBurst: 1000,
		OTEL: config.OTELConfig{
			ServiceName: "router-test",
		},
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	r := gin.New()
	RegisterRoutes(r, db, store, testConfig())
	return r
}

func do(r *gin.Engine, method, path, body, contentType, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	// Skip gzip so bodies can be read directly.
	req.Header.Set("Accept-Encoding", "identity")
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/health", "", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health: status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("health body = %s", w.Body.String())
	}

	w = do(r, http.MethodGet, "/metrics", "", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("metrics: status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Fatal("metrics body missing request counter")
	}
}

func TestRouter_Fallbacks(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/no/such/route", "", "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"code":"not_found"`) {
		t.Fatalf("body = %s", w.Body.String())
	}

	w = do(r, http.MethodDelete, "/health", "", "", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"code":"method_not_allowed"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestRouter_PublicAndProtectedSplit(t *testing.T) {
	r := newTestRouter(t)

	// Category browsing needs no token.
	w := do(r, http.MethodGet, "/api/v1/categories", "", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("public categories: status = %d, body %s", w.Code, w.Body.String())
	}

	// Everything else rejects anonymous callers.
	for _, path := range []string{
		"/api/v1/users/me",
		"/api/v1/agents",
		"/api/v1/agents/public",
	} {
		w = do(r, http.MethodGet, path, "", "", "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s: status = %d, want 401", path, w.Code)
		}
		if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
			t.Fatalf("GET %s: WWW-Authenticate = %q", path, got)
		}
	}
}

// TestRouter_AccountFlow drives a full register → login → authenticated
// request cycle through the real stack: handlers, services, GORM, sqlite.
func TestRouter_AccountFlow(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/users/register",
		`{"username":"alice","email":"alice@example.com","password":"hunter2hunter2"}`,
		"application/json", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, body %s", w.Code, w.Body.String())
	}

	form := url.Values{"username": {"alice"}, "password": {"hunter2hunter2"}}
	w = do(r, http.MethodPost, "/api/v1/users/login", form.Encode(),
		"application/x-www-form-urlencoded", "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body %s", w.Code, w.Body.String())
	}
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &tok); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if tok.TokenType != "bearer" || tok.AccessToken == "" {
		t.Fatalf("token = %+v", tok)
	}

	w = do(r, http.MethodGet, "/api/v1/users/me", "", "", tok.AccessToken)
	if w.Code != http.StatusOK {
		t.Fatalf("me: status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"username":"alice"`) {
		t.Fatalf("me body = %s", w.Body.String())
	}

	// Wrong password never yields a token.
	form.Set("password", "not-the-password")
	w = do(r, http.MethodPost, "/api/v1/users/login", form.Encode(),
		"application/x-www-form-urlencoded", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: status = %d", w.Code)
	}
}

// TestRouter_AgentLifecycle exercises agent CRUD and a chat turn end to end
// through the real stack.
func TestRouter_AgentLifecycle(t *testing.T) {
	r := newTestRouter(t)

	token := registerAndLogin(t, r, "bob", "bob@example.com")

	w := do(r, http.MethodPost, "/api/v1/agents",
		`{"name":"Echo","prompt":"You repeat things."}`,
		"application/json", token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create agent: status = %d, body %s", w.Code, w.Body.String())
	}
	var agent struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &agent); err != nil {
		t.Fatalf("decode agent: %v", err)
	}

	w = do(r, http.MethodGet, "/api/v1/agents", "", "", token)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"name":"Echo"`) {
		t.Fatalf("list mine: status = %d, body %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/v1/chat",
		fmt.Sprintf(`{"agent_id":%d,"message":"hello"}`, agent.ID),
		"application/json", token)
	if w.Code != http.StatusOK {
		t.Fatalf("chat: status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"response"`) {
		t.Fatalf("chat body = %s", w.Body.String())
	}

	w = do(r, http.MethodDelete, fmt.Sprintf("/api/v1/agents/%d", agent.ID), "", "", token)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", w.Code)
	}
	w = do(r, http.MethodGet, fmt.Sprintf("/api/v1/agents/%d", agent.ID), "", "", token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("after delete: status = %d, want 404", w.Code)
	}
}

func registerAndLogin(t *testing.T, r *gin.Engine, username, email string) string {
	t.Helper()

	w := do(r, http.MethodPost, "/api/v1/users/register",
		fmt.Sprintf(`{"username":%q,"email":%q,"password":"hunter2hunter2"}`, username, email),
		"application/json", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status = %d, body %s", username, w.Code, w.Body.String())
	}

	form := url.Values{"username": {username}, "password": {"hunter2hunter2"}}
	w = do(r, http.MethodPost, "/api/v1/users/login", form.Encode(),
		"application/x-www-form-urlencoded", "")
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status = %d, body %s", username, w.Code, w.Body.String())
	}
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &tok); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	return tok.AccessToken
}
