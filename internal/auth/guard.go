package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/versaforge/go-agent-backend/internal/domain"
	"github.com/versaforge/go-agent-backend/internal/repo"
)

// Authorization errors.
var (
	// ErrInvalidCredential is returned when a token is malformed or expired,
	// or when it resolves to no active user.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrPermissionDenied is returned by the Require* predicates when the
	// caller lacks the necessary rights.
	ErrPermissionDenied = errors.New("permission denied")
)

// Guard resolves bearer credentials into authenticated users and enforces
// admin/ownership/visibility rules. The Require* methods are pure predicates
// with no side effects; every write path must call the relevant one before
// mutating state.
type Guard struct {
	DB    *gorm.DB
	Codec *Codec
}

// NewGuard constructs a Guard bound to db and codec.
func NewGuard(db *gorm.DB, codec *Codec) *Guard {
	return &Guard{DB: db, Codec: codec}
}

// Authenticate verifies token and loads the current user row by the embedded
// username. Unlike the token snapshot, the returned row reflects the user's
// *current* admin/active flags. It fails with ErrInvalidCredential when the
// token is bad or no matching active user exists.
func (g *Guard) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	id, err := g.Codec.Verify(token)
	if err != nil {
		return nil, ErrInvalidCredential
	}
	u, err := repo.GetUserByUsername(ctx, g.DB, id.Username)
	if err != nil {
		return nil, ErrInvalidCredential
	}
	if !u.IsActive {
		return nil, ErrInvalidCredential
	}
	return u, nil
}

// RequireAdmin fails with ErrPermissionDenied unless user is an admin.
func RequireAdmin(user *domain.User) error {
	if user == nil || !user.IsAdmin {
		return ErrPermissionDenied
	}
	return nil
}

// RequireOwner fails with ErrPermissionDenied unless user owns the agent.
func RequireOwner(agent *domain.Agent, user *domain.User) error {
	if agent == nil || user == nil || agent.OwnerID != user.ID {
		return ErrPermissionDenied
	}
	return nil
}

// RequireVisible fails with ErrPermissionDenied unless the agent is public
// or owned by user.
func RequireVisible(agent *domain.Agent, user *domain.User) error {
	if agent == nil || user == nil {
		return ErrPermissionDenied
	}
	if agent.IsPublic || agent.OwnerID == user.ID {
		return nil
	}
	return ErrPermissionDenied
}
