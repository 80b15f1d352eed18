package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/versaforge/go-agent-backend/internal/domain"
)

// CreateAgentFile inserts a metadata row for an uploaded document.
// A (agent_id, filename) collision surfaces as a unique-constraint
// violation; callers translate it via IsUniqueViolation.
func CreateAgentFile(ctx context.Context, db *gorm.DB, f *domain.AgentFile) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(f).Error
}

// ListAgentFiles returns all file metadata rows for agentID, oldest first.
// The result is an empty slice, not an error, when none exist.
func ListAgentFiles(ctx context.Context, db *gorm.DB, agentID uint) ([]domain.AgentFile, error) {
	var out []domain.AgentFile
	err := db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// GetAgentFile fetches one metadata row scoped by (agent_id, id).
func GetAgentFile(ctx context.Context, db *gorm.DB, agentID, fileID uint) (*domain.AgentFile, error) {
	var f domain.AgentFile
	err := db.WithContext(ctx).
		Where("agent_id = ? AND id = ?", agentID, fileID).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}
