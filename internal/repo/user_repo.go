// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model
// and its group memberships.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a user is not found, functions return gorm.ErrRecordNotFound
//     (also exported in this package as ErrNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/versaforge/go-agent-backend/internal/domain"
)

// CreateUser inserts a new User row. CreatedAt is set to UTC.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(u).Error
}

// GetUser fetches a user by primary key, or ErrNotFound if missing.
func GetUser(ctx context.Context, db *gorm.DB, id uint) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername fetches a user by username, or ErrNotFound if missing.
func GetUserByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Where("username = ?", username).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindUserByUsernameOrEmail returns a user whose username or email matches,
// or ErrNotFound when neither is taken. Used for duplicate checks during
// registration.
func FindUserByUsernameOrEmail(ctx context.Context, db *gorm.DB, username, email string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Where("username = ? OR email = ?", username, email).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// EmailTaken reports whether email is used by a user other than excludeID.
func EmailTaken(ctx context.Context, db *gorm.DB, email string, excludeID uint) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&n).Error
	return n > 0, err
}

// SaveUser persists all fields of an already-loaded user row.
func SaveUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	return db.WithContext(ctx).Save(u).Error
}

// DeleteUser removes a user row by id. Group memberships and owned agents
// are deleted by the caller in the same transaction; the FK constraints only
// back that up.
func DeleteUser(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddUserToGroup inserts a membership row. A duplicate assignment surfaces
// as a unique-constraint violation from the composite primary key.
func AddUserToGroup(ctx context.Context, db *gorm.DB, userID, groupID uint) error {
	return db.WithContext(ctx).
		Create(&domain.UserGroup{UserID: userID, GroupID: groupID}).Error
}

// ListUserGroupIDs returns the IDs of all groups userID belongs to.
func ListUserGroupIDs(ctx context.Context, db *gorm.DB, userID uint) ([]uint, error) {
	var ids []uint
	err := db.WithContext(ctx).
		Model(&domain.UserGroup{}).
		Where("user_id = ?", userID).
		Pluck("group_id", &ids).Error
	return ids, err
}

// DeleteUserGroups removes all group memberships for userID.
func DeleteUserGroups(ctx context.Context, db *gorm.DB, userID uint) error {
	return db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.UserGroup{}).Error
}
