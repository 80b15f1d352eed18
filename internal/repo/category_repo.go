// Package repo – category repository.
//
// Category name uniqueness is case-insensitive. FindCategoryByName compares
// with LOWER(name) so the in-transaction duplicate check in the service layer
// sees "DuplicateCase" and "duplicatecase" as the same row; the NOCASE unique
// index on categories.name backs the check against concurrent inserts.
package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/versaforge/go-agent-backend/internal/domain"
)

// CreateCategory inserts a new Category row.
func CreateCategory(ctx context.Context, db *gorm.DB, c *domain.Category) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(c).Error
}

// GetCategory fetches a category by primary key, or ErrNotFound if missing.
func GetCategory(ctx context.Context, db *gorm.DB, id uint) (*domain.Category, error) {
	var c domain.Category
	if err := db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindCategoryByName fetches a category whose name equals name
// case-insensitively, optionally excluding excludeID (for updates).
// Returns ErrNotFound when no such category exists.
func FindCategoryByName(ctx context.Context, db *gorm.DB, name string, excludeID uint) (*domain.Category, error) {
	q := db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(name))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var c domain.Category
	if err := q.First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCategories returns a page of categories ordered by id.
func ListCategories(ctx context.Context, db *gorm.DB, limit, offset int) ([]domain.Category, error) {
	var out []domain.Category
	err := db.WithContext(ctx).
		Order("id asc").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	return out, err
}

// SaveCategory persists all fields of an already-loaded category row.
func SaveCategory(ctx context.Context, db *gorm.DB, c *domain.Category) error {
	return db.WithContext(ctx).Save(c).Error
}

// DeleteCategory removes a category row and reports whether a row existed.
// Association rows in agent_categories are removed by the caller in the same
// transaction; agents themselves are never touched.
func DeleteCategory(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	res := db.WithContext(ctx).Delete(&domain.Category{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteCategoryAssociations removes all agent associations for categoryID.
func DeleteCategoryAssociations(ctx context.Context, db *gorm.DB, categoryID uint) error {
	return db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Delete(&domain.AgentCategory{}).Error
}
