package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/versaforge/go-agent-backend/internal/auth"
	"github.com/versaforge/go-agent-backend/internal/domain"
	"github.com/versaforge/go-agent-backend/internal/services"
)

// ---------- stub services ----------
//
// Each stub delegates to an optional function field; unset fields return
// zero values so tests only wire what they assert on.

type stubUserSvc struct {
	register       func(context.Context, services.RegisterInput) (*domain.User, error)
	authenticate   func(context.Context, string, string) (*domain.User, error)
	get            func(context.Context, uint) (*domain.User, error)
	updateProfile  func(context.Context, uint, services.ProfileUpdate) (*domain.User, error)
	changePassword func(context.Context, uint, string, string) error
	assignToGroup  func(context.Context, uint, uint) error
	listGroups     func(context.Context, uint) ([]uint, error)
}

func (s stubUserSvc) Register(ctx context.Context, in services.RegisterInput) (*domain.User, error) {
	if s.register != nil {
		return s.register(ctx, in)
	}
	return &domain.User{ID: 1, Username: in.Username, Email: in.Email}, nil
}

func (s stubUserSvc) Authenticate(ctx context.Context, u, p string) (*domain.User, error) {
	if s.authenticate != nil {
		return s.authenticate(ctx, u, p)
	}
	return &domain.User{ID: 1, Username: u}, nil
}

func (s stubUserSvc) Get(ctx context.Context, id uint) (*domain.User, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return &domain.User{ID: id}, nil
}

func (s stubUserSvc) UpdateProfile(ctx context.Context, id uint, in services.ProfileUpdate) (*domain.User, error) {
	if s.updateProfile != nil {
		return s.updateProfile(ctx, id, in)
	}
	return &domain.User{ID: id}, nil
}

func (s stubUserSvc) ChangePassword(ctx context.Context, id uint, o, n string) error {
	if s.changePassword != nil {
		return s.changePassword(ctx, id, o, n)
	}
	return nil
}

func (s stubUserSvc) AssignToGroup(ctx context.Context, userID, groupID uint) error {
	if s.assignToGroup != nil {
		return s.assignToGroup(ctx, userID, groupID)
	}
	return nil
}

func (s stubUserSvc) ListGroups(ctx context.Context, userID uint) ([]uint, error) {
	if s.listGroups != nil {
		return s.listGroups(ctx, userID)
	}
	return []uint{}, nil
}

type stubCategorySvc struct {
	create func(context.Context, services.CategoryCreate) (*domain.Category, error)
	get    func(context.Context, uint) (*domain.Category, error)
	list   func(context.Context, int, int) ([]domain.Category, error)
	update func(context.Context, uint, services.CategoryUpdate) (*domain.Category, error)
	del    func(context.Context, uint, bool) error
}

func (s stubCategorySvc) Create(ctx context.Context, in services.CategoryCreate) (*domain.Category, error) {
	if s.create != nil {
		return s.create(ctx, in)
	}
	return &domain.Category{ID: 1, Name: in.Name}, nil
}

func (s stubCategorySvc) Get(ctx context.Context, id uint) (*domain.Category, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return &domain.Category{ID: id}, nil
}

func (s stubCategorySvc) List(ctx context.Context, limit, offset int) ([]domain.Category, error) {
	if s.list != nil {
		return s.list(ctx, limit, offset)
	}
	return []domain.Category{}, nil
}

func (s stubCategorySvc) Update(ctx context.Context, id uint, in services.CategoryUpdate) (*domain.Category, error) {
	if s.update != nil {
		return s.update(ctx, id, in)
	}
	return &domain.Category{ID: id}, nil
}

func (s stubCategorySvc) Delete(ctx context.Context, id uint, strict bool) error {
	if s.del != nil {
		return s.del(ctx, id, strict)
	}
	return nil
}

type stubAgentSvc struct {
	create        func(context.Context, *domain.User, services.AgentCreate) (*domain.Agent, error)
	get           func(context.Context, *domain.User, uint) (*domain.Agent, error)
	listMine      func(context.Context, *domain.User) ([]domain.Agent, error)
	listPublic    func(context.Context) ([]domain.Agent, error)
	listByUser    func(context.Context, uint) ([]domain.Agent, error)
	listByCat     func(context.Context, uint) ([]domain.Agent, error)
	update        func(context.Context, *domain.User, uint, services.AgentUpdate) (*domain.Agent, error)
	del           func(context.Context, *domain.User, uint) error
	assignToGroup func(context.Context, *domain.User, uint, uint) error
}

func (s stubAgentSvc) Create(ctx context.Context, u *domain.User, in services.AgentCreate) (*domain.Agent, error) {
	if s.create != nil {
		return s.create(ctx, u, in)
	}
	return &domain.Agent{ID: 1, Name: in.Name, OwnerID: u.ID}, nil
}

func (s stubAgentSvc) Get(ctx context.Context, u *domain.User, id uint) (*domain.Agent, error) {
	if s.get != nil {
		return s.get(ctx, u, id)
	}
	return &domain.Agent{ID: id}, nil
}

func (s stubAgentSvc) ListMine(ctx context.Context, u *domain.User) ([]domain.Agent, error) {
	if s.listMine != nil {
		return s.listMine(ctx, u)
	}
	return []domain.Agent{}, nil
}

func (s stubAgentSvc) ListPublic(ctx context.Context) ([]domain.Agent, error) {
	if s.listPublic != nil {
		return s.listPublic(ctx)
	}
	return []domain.Agent{}, nil
}

func (s stubAgentSvc) ListPublicByUser(ctx context.Context, ownerID uint) ([]domain.Agent, error) {
	if s.listByUser != nil {
		return s.listByUser(ctx, ownerID)
	}
	return []domain.Agent{}, nil
}

func (s stubAgentSvc) ListByCategory(ctx context.Context, categoryID uint) ([]domain.Agent, error) {
	if s.listByCat != nil {
		return s.listByCat(ctx, categoryID)
	}
	return []domain.Agent{}, nil
}

func (s stubAgentSvc) Update(ctx context.Context, u *domain.User, id uint, in services.AgentUpdate) (*domain.Agent, error) {
	if s.update != nil {
		return s.update(ctx, u, id, in)
	}
	return &domain.Agent{ID: id}, nil
}

func (s stubAgentSvc) Delete(ctx context.Context, u *domain.User, id uint) error {
	if s.del != nil {
		return s.del(ctx, u, id)
	}
	return nil
}

func (s stubAgentSvc) AssignToGroup(ctx context.Context, u *domain.User, agentID, groupID uint) error {
	if s.assignToGroup != nil {
		return s.assignToGroup(ctx, u, agentID, groupID)
	}
	return nil
}

type stubFileSvc struct {
	upload func(context.Context, *domain.User, uint, string, string, io.Reader) (*domain.AgentFile, error)
	list   func(context.Context, *domain.User, uint) ([]domain.AgentFile, error)
}

func (s stubFileSvc) Upload(ctx context.Context, u *domain.User, agentID uint, filename, contentType string, content io.Reader) (*domain.AgentFile, error) {
	if s.upload != nil {
		return s.upload(ctx, u, agentID, filename, contentType, content)
	}
	return &domain.AgentFile{ID: 1, AgentID: agentID, Filename: filename, ContentType: contentType}, nil
}

func (s stubFileSvc) List(ctx context.Context, u *domain.User, agentID uint) ([]domain.AgentFile, error) {
	if s.list != nil {
		return s.list(ctx, u, agentID)
	}
	return []domain.AgentFile{}, nil
}

type stubChatSvc struct {
	answer func(context.Context, *domain.User, uint, string) (string, error)
}

func (s stubChatSvc) Answer(ctx context.Context, u *domain.User, agentID uint, message string) (string, error) {
	if s.answer != nil {
		return s.answer(ctx, u, agentID, message)
	}
	return "stub answer", nil
}

// ---------- wiring helpers ----------

// stubDeps bundles one stub per service; zero value works for most tests.
type stubDeps struct {
	users  stubUserSvc
	cats   stubCategorySvc
	agents stubAgentSvc
	files  stubFileSvc
	chat   stubChatSvc
	issuer CredentialIssuer
}

func newStubHandlers(d stubDeps) *Handlers {
	issuer := d.issuer
	if issuer == nil {
		issuer = auth.NewCodec("test-secret", time.Hour)
	}
	return New(d.users, d.cats, d.agents, d.files, d.chat, issuer)
}

// asUser injects an authenticated user the way the auth middleware does.
func asUser(u *domain.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("currentUser", u)
		c.Next()
	}
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return e
}
