// Package handlers – handler wiring.
//
// Handlers groups the HTTP endpoints for users, categories, agents, files,
// and chat. It depends on abstract service interfaces to keep transport
// concerns separate from business logic; all implementations must be safe
// for concurrent use and honor the provided context.
package handlers

import (
	"context"
	"io"

	"github.com/versaforge/go-agent-backend/internal/auth"
	"github.com/versaforge/go-agent-backend/internal/domain"
	"github.com/versaforge/go-agent-backend/internal/services"
)

// UserService defines account lifecycle operations consumed by HTTP handlers.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	Get(ctx context.Context, id uint) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID uint, in services.ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	AssignToGroup(ctx context.Context, userID, groupID uint) error
	ListGroups(ctx context.Context, userID uint) ([]uint, error)
}

// CategoryService defines category CRUD operations.
type CategoryService interface {
	Create(ctx context.Context, in services.CategoryCreate) (*domain.Category, error)
	Get(ctx context.Context, id uint) (*domain.Category, error)
	List(ctx context.Context, limit, offset int) ([]domain.Category, error)
	Update(ctx context.Context, id uint, in services.CategoryUpdate) (*domain.Category, error)
	Delete(ctx context.Context, id uint, strict bool) error
}

// AgentService defines agent lifecycle operations.
type AgentService interface {
	Create(ctx context.Context, owner *domain.User, in services.AgentCreate) (*domain.Agent, error)
	Get(ctx context.Context, user *domain.User, id uint) (*domain.Agent, error)
	ListMine(ctx context.Context, user *domain.User) ([]domain.Agent, error)
	ListPublic(ctx context.Context) ([]domain.Agent, error)
	ListPublicByUser(ctx context.Context, ownerID uint) ([]domain.Agent, error)
	ListByCategory(ctx context.Context, categoryID uint) ([]domain.Agent, error)
	Update(ctx context.Context, user *domain.User, id uint, in services.AgentUpdate) (*domain.Agent, error)
	Delete(ctx context.Context, user *domain.User, id uint) error
	AssignToGroup(ctx context.Context, user *domain.User, agentID, groupID uint) error
}

// FileService defines the owner-gated file operations.
type FileService interface {
	Upload(ctx context.Context, user *domain.User, agentID uint, filename, contentType string, content io.Reader) (*domain.AgentFile, error)
	List(ctx context.Context, user *domain.User, agentID uint) ([]domain.AgentFile, error)
}

// ChatService defines the chat-turn operation.
type ChatService interface {
	Answer(ctx context.Context, user *domain.User, agentID uint, message string) (string, error)
}

// CredentialIssuer signs identity snapshots into bearer tokens.
type CredentialIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// Handlers groups HTTP endpoints for the public API.
type Handlers struct {
	userSvc  UserService
	catSvc   CategoryService
	agentSvc AgentService
	fileSvc  FileService
	chatSvc  ChatService
	issuer   CredentialIssuer
}

// New constructs a Handlers instance bound to the given services.
func New(userSvc UserService, catSvc CategoryService, agentSvc AgentService, fileSvc FileService, chatSvc ChatService, issuer CredentialIssuer) *Handlers {
	return &Handlers{
		userSvc:  userSvc,
		catSvc:   catSvc,
		agentSvc: agentSvc,
		fileSvc:  fileSvc,
		chatSvc:  chatSvc,
		issuer:   issuer,
	}
}
