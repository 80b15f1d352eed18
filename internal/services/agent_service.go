// Package services – AgentService
//
// This file implements AgentService, which owns the agent lifecycle and its
// two invariants: a public agent carries at least one category at creation,
// and every mutation is scoped by (id, owner_id). Visibility on reads is
// decided by the auth predicates, never by the repository.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/versaforge/go-agent-backend/internal/auth"
	"github.com/versaforge/go-agent-backend/internal/domain"
	"github.com/versaforge/go-agent-backend/internal/repo"
)

// AgentCreate carries the fields for a new agent.
type AgentCreate struct {
	Name        string
	Description *string
	Prompt      string
	Provider    string
	IsPublic    bool
	CategoryIDs []uint
}

// AgentUpdate carries optional fields; nil means "leave unchanged"
// (exclude-unset semantics). A non-nil CategoryIDs replaces the whole
// category set.
type AgentUpdate struct {
	Name        *string
	Description *string
	Prompt      *string
	Provider    *string
	IsPublic    *bool
	CategoryIDs *[]uint
}

// AgentService provides agent CRUD gated by ownership and visibility.
type AgentService struct {
	DB *gorm.DB
}

// NewAgentService constructs an AgentService.
func NewAgentService(db *gorm.DB) *AgentService {
	return &AgentService{DB: db}
}

// Create inserts a new agent owned by owner. A public agent must name at
// least one category (ErrInvalidInput otherwise); the insert and the
// category assignment run in one transaction so a failed assignment rolls
// the agent row back too.
func (s *AgentService) Create(ctx context.Context, owner *domain.User, in AgentCreate) (*domain.Agent, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Prompt) == "" {
		return nil, ErrInvalidInput
	}
	if in.IsPublic && len(in.CategoryIDs) == 0 {
		return nil, ErrInvalidInput
	}

	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	a := &domain.Agent{
		Name:        name,
		Description: in.Description,
		Prompt:      in.Prompt,
		Provider:    provider,
		IsPublic:    in.IsPublic,
		OwnerID:     owner.ID,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, cid := range in.CategoryIDs {
			if _, err := repo.GetCategory(ctx, tx, cid); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return ErrCategoryNotFound
				}
				return err
			}
		}
		if err := repo.CreateAgent(ctx, tx, a); err != nil {
			if repo.IsUniqueViolation(err) {
				return ErrDuplicateAgent
			}
			return err
		}
		return repo.AssignAgentCategories(ctx, tx, a.ID, in.CategoryIDs)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Get returns the agent with the given id if it is visible to user: public,
// or owned by them. A hidden agent fails with auth.ErrPermissionDenied, an
// absent one with ErrAgentNotFound.
func (s *AgentService) Get(ctx context.Context, user *domain.User, id uint) (*domain.Agent, error) {
	a, err := repo.GetAgent(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	if err := auth.RequireVisible(a, user); err != nil {
		return nil, err
	}
	return a, nil
}

// ListMine returns all agents owned by user, public and private.
func (s *AgentService) ListMine(ctx context.Context, user *domain.User) ([]domain.Agent, error) {
	return nonNil(repo.ListAgentsByOwner(ctx, s.DB, user.ID))
}

// ListPublic returns all public agents system-wide.
func (s *AgentService) ListPublic(ctx context.Context) ([]domain.Agent, error) {
	return nonNil(repo.ListPublicAgents(ctx, s.DB))
}

// ListPublicByUser returns the public agents owned by ownerID.
func (s *AgentService) ListPublicByUser(ctx context.Context, ownerID uint) ([]domain.Agent, error) {
	return nonNil(repo.ListPublicAgentsByOwner(ctx, s.DB, ownerID))
}

// ListByCategory returns the public agents associated with categoryID.
func (s *AgentService) ListByCategory(ctx context.Context, categoryID uint) ([]domain.Agent, error) {
	return nonNil(repo.ListPublicAgentsByCategory(ctx, s.DB, categoryID))
}

// Update applies the non-nil fields of in to an agent owned by user. The
// ownership check happens before any mutation; a non-owner sees the same
// ErrAgentNotFound as a missing id, so private agents are not enumerable.
// Replacing the category set clears all existing associations and inserts
// the new set. Setting IsPublic true requires the resulting category set to
// be non-empty.
func (s *AgentService) Update(ctx context.Context, user *domain.User, id uint, in AgentUpdate) (*domain.Agent, error) {
	var out *domain.Agent
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := repo.GetAgentOwned(ctx, tx, id, user.ID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrAgentNotFound
			}
			return err
		}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return ErrInvalidInput
			}
			a.Name = name
		}
		if in.Description != nil {
			a.Description = in.Description
		}
		if in.Prompt != nil {
			if strings.TrimSpace(*in.Prompt) == "" {
				return ErrInvalidInput
			}
			a.Prompt = *in.Prompt
		}
		if in.Provider != nil {
			a.Provider = strings.ToLower(strings.TrimSpace(*in.Provider))
		}
		if in.IsPublic != nil {
			a.IsPublic = *in.IsPublic
		}

		if in.CategoryIDs != nil {
			for _, cid := range *in.CategoryIDs {
				if _, err := repo.GetCategory(ctx, tx, cid); err != nil {
					if errors.Is(err, repo.ErrNotFound) {
						return ErrCategoryNotFound
					}
					return err
				}
			}
			if err := repo.ReplaceAgentCategories(ctx, tx, a.ID, *in.CategoryIDs); err != nil {
				return err
			}
		}

		if a.IsPublic {
			ids, err := repo.ListAgentCategoryIDs(ctx, tx, a.ID)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				return ErrInvalidInput
			}
		}

		if err := repo.SaveAgent(ctx, tx, a); err != nil {
			if repo.IsUniqueViolation(err) {
				return ErrDuplicateAgent
			}
			return err
		}
		out = a
		return nil
	})
	return out, err
}

// Delete removes an agent owned by user together with its files' metadata
// and associations. The (id, owner_id) scope makes an unauthorized delete
// indistinguishable from a missing agent.
func (s *AgentService) Delete(ctx context.Context, user *domain.User, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetAgentOwned(ctx, tx, id, user.ID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrAgentNotFound
			}
			return err
		}
		if err := repo.DeleteAgentChildren(ctx, tx, id); err != nil {
			return err
		}
		existed, err := repo.DeleteAgentOwned(ctx, tx, id, user.ID)
		if err != nil {
			return err
		}
		if !existed {
			return ErrAgentNotFound
		}
		return nil
	})
}

// AssignToGroup shares an agent with a group. Only the owner may share;
// duplicate assignment is a no-op success.
func (s *AgentService) AssignToGroup(ctx context.Context, user *domain.User, agentID, groupID uint) error {
	a, err := repo.GetAgent(ctx, s.DB, agentID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAgentNotFound
		}
		return err
	}
	if err := auth.RequireOwner(a, user); err != nil {
		return err
	}
	if _, err := repo.GetGroup(ctx, s.DB, groupID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	if err := repo.AddAgentToGroup(ctx, s.DB, agentID, groupID); err != nil {
		if repo.IsUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}

// nonNil normalizes an empty gorm result to an empty slice.
func nonNil(items []domain.Agent, err error) ([]domain.Agent, error) {
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Agent{}
	}
	return items, nil
}
