package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/versaforge/go-agent-backend/internal/domain"
)

// CreateGroup inserts a new Group row.
func CreateGroup(ctx context.Context, db *gorm.DB, g *domain.Group) error {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(g).Error
}

// GetGroup fetches a group by primary key, or ErrNotFound if missing.
func GetGroup(ctx context.Context, db *gorm.DB, id uint) (*domain.Group, error) {
	var g domain.Group
	if err := db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGroups returns all groups ordered by creation time.
func ListGroups(ctx context.Context, db *gorm.DB) ([]domain.Group, error) {
	var out []domain.Group
	err := db.WithContext(ctx).Order("created_at asc").Find(&out).Error
	return out, err
}
