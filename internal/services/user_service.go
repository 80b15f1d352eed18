// Package services – UserService
//
// This file implements UserService, which owns the account lifecycle:
// registration, authentication, profile and password updates, group
// assignment, and account deletion with its explicit cascade. Each multi-step
// write runs inside one transaction with commit-on-success and
// rollback-on-error.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/versaforge/go-agent-backend/internal/auth"
	"github.com/versaforge/go-agent-backend/internal/domain"
	"github.com/versaforge/go-agent-backend/internal/repo"
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Username string
	Email    string
	FullName *string
	Password string
}

// ProfileUpdate carries optional profile fields; nil means "leave unchanged".
type ProfileUpdate struct {
	FullName *string
	Email    *string
}

// UserService provides account-level operations.
type UserService struct {
	DB *gorm.DB

	// FailureDelay is slept on every failed authentication attempt to
	// flatten the timing difference between "no such user" and "wrong
	// password", reducing the username-enumeration signal.
	FailureDelay time.Duration
}

// NewUserService constructs a UserService with the default failure delay.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db, FailureDelay: 250 * time.Millisecond}
}

// Register creates a new account after checking username/email uniqueness.
// The duplicate check and the insert share one transaction; the unique
// indexes back the check against races.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: hash,
		IsActive:     true,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := repo.FindUserByUsernameOrEmail(ctx, tx, in.Username, in.Email)
		if err == nil {
			return ErrDuplicateUser
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return err
		}
		if err := repo.CreateUser(ctx, tx, u); err != nil {
			if repo.IsUniqueViolation(err) {
				return ErrDuplicateUser
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies username/password. An absent user, an inactive
// account, and a wrong password all fail identically with
// auth.ErrInvalidCredential after the configured delay.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := repo.GetUserByUsername(ctx, s.DB, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, s.failSlow(ctx)
		}
		return nil, err
	}
	if !u.IsActive || !auth.CheckPassword(password, u.PasswordHash) {
		return nil, s.failSlow(ctx)
	}
	return u, nil
}

// failSlow sleeps the failure delay (honoring ctx) and returns the uniform
// credential error.
func (s *UserService) failSlow(ctx context.Context) error {
	if s.FailureDelay > 0 {
		t := time.NewTimer(s.FailureDelay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return auth.ErrInvalidCredential
}

// Get returns the user with the given id, or ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// UpdateProfile applies the non-nil fields of in to the user. A new email
// must not belong to another account.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*domain.User, error) {
	var out *domain.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := repo.GetUser(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if in.Email != nil && *in.Email != u.Email {
			taken, err := repo.EmailTaken(ctx, tx, *in.Email, userID)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateUser
			}
			u.Email = *in.Email
		}
		if in.FullName != nil {
			u.FullName = in.FullName
		}
		if err := repo.SaveUser(ctx, tx, u); err != nil {
			if repo.IsUniqueViolation(err) {
				return ErrDuplicateUser
			}
			return err
		}
		out = u
		return nil
	})
	return out, err
}

// ChangePassword verifies the old password and sets the new one. A wrong old
// password fails with auth.ErrPermissionDenied.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := repo.GetUser(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if !auth.CheckPassword(oldPassword, u.PasswordHash) {
			return auth.ErrPermissionDenied
		}
		hash, err := auth.HashPassword(newPassword)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
		return repo.SaveUser(ctx, tx, u)
	})
}

// AssignToGroup adds the user to a group. Assignment is idempotent: a
// duplicate membership is a no-op success, translated from the composite-key
// constraint violation rather than surfaced as a raw database error.
func (s *UserService) AssignToGroup(ctx context.Context, userID, groupID uint) error {
	if _, err := repo.GetGroup(ctx, s.DB, groupID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	if err := repo.AddUserToGroup(ctx, s.DB, userID, groupID); err != nil {
		if repo.IsUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}

// ListGroups returns the IDs of all groups the user belongs to.
func (s *UserService) ListGroups(ctx context.Context, userID uint) ([]uint, error) {
	ids, err := repo.ListUserGroupIDs(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}

// Delete removes the account. The cascade is explicit and transactional:
// owned agents (with their files and associations), then group memberships,
// then the user row.
func (s *UserService) Delete(ctx context.Context, userID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.DeleteAgentsByOwner(ctx, tx, userID); err != nil {
			return err
		}
		if err := repo.DeleteUserGroups(ctx, tx, userID); err != nil {
			return err
		}
		if err := repo.DeleteUser(ctx, tx, userID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		return nil
	})
}
