// Package repo – agent repository.
//
// Mutating queries are always scoped by (id, owner_id), never by id alone,
// so an unauthorized mutation cannot be expressed by omission. Read paths
// that serve visibility rules fetch by id and leave the decision to the
// caller's guard predicates.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/versaforge/go-agent-backend/internal/domain"
)

// CreateAgent inserts a new Agent row.
func CreateAgent(ctx context.Context, db *gorm.DB, a *domain.Agent) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(a).Error
}

// GetAgent fetches an agent by primary key, or ErrNotFound if missing.
// Callers must apply visibility/ownership checks on the result.
func GetAgent(ctx context.Context, db *gorm.DB, id uint) (*domain.Agent, error) {
	var a domain.Agent
	if err := db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAgentOwned fetches an agent scoped by (id, owner_id), or ErrNotFound.
func GetAgentOwned(ctx context.Context, db *gorm.DB, id, ownerID uint) (*domain.Agent, error) {
	var a domain.Agent
	err := db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAgentsByOwner returns all agents (public and private) owned by ownerID.
func ListAgentsByOwner(ctx context.Context, db *gorm.DB, ownerID uint) ([]domain.Agent, error) {
	var out []domain.Agent
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListPublicAgents returns all public agents system-wide.
func ListPublicAgents(ctx context.Context, db *gorm.DB) ([]domain.Agent, error) {
	var out []domain.Agent
	err := db.WithContext(ctx).
		Where("is_public = ?", true).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListPublicAgentsByOwner returns the public agents owned by ownerID.
func ListPublicAgentsByOwner(ctx context.Context, db *gorm.DB, ownerID uint) ([]domain.Agent, error) {
	var out []domain.Agent
	err := db.WithContext(ctx).
		Where("owner_id = ? AND is_public = ?", ownerID, true).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListPublicAgentsByCategory returns public agents associated with categoryID.
func ListPublicAgentsByCategory(ctx context.Context, db *gorm.DB, categoryID uint) ([]domain.Agent, error) {
	var out []domain.Agent
	err := db.WithContext(ctx).
		Joins("JOIN agent_categories ac ON ac.agent_id = agents.id").
		Where("ac.category_id = ? AND agents.is_public = ?", categoryID, true).
		Order("agents.created_at desc").
		Find(&out).Error
	return out, err
}

// SaveAgent persists all fields of an already-loaded agent row.
func SaveAgent(ctx context.Context, db *gorm.DB, a *domain.Agent) error {
	return db.WithContext(ctx).Save(a).Error
}

// DeleteAgentOwned removes an agent scoped by (id, owner_id) and reports
// whether a row was deleted. Child rows (files, category and group
// associations) are removed by the caller in the same transaction.
func DeleteAgentOwned(ctx context.Context, db *gorm.DB, id, ownerID uint) (bool, error) {
	res := db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&domain.Agent{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReplaceAgentCategories clears all category associations for agentID and
// inserts the new set. Ownership must already be verified by the caller.
func ReplaceAgentCategories(ctx context.Context, db *gorm.DB, agentID uint, categoryIDs []uint) error {
	if err := db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Delete(&domain.AgentCategory{}).Error; err != nil {
		return err
	}
	return AssignAgentCategories(ctx, db, agentID, categoryIDs)
}

// AssignAgentCategories inserts association rows for each category ID.
func AssignAgentCategories(ctx context.Context, db *gorm.DB, agentID uint, categoryIDs []uint) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	rows := make([]domain.AgentCategory, 0, len(categoryIDs))
	for _, cid := range categoryIDs {
		rows = append(rows, domain.AgentCategory{AgentID: agentID, CategoryID: cid})
	}
	return db.WithContext(ctx).Create(&rows).Error
}

// ListAgentCategoryIDs returns the category IDs associated with agentID.
func ListAgentCategoryIDs(ctx context.Context, db *gorm.DB, agentID uint) ([]uint, error) {
	var ids []uint
	err := db.WithContext(ctx).
		Model(&domain.AgentCategory{}).
		Where("agent_id = ?", agentID).
		Pluck("category_id", &ids).Error
	return ids, err
}

// AddAgentToGroup inserts a group association row. A duplicate assignment
// surfaces as a unique-constraint violation from the composite primary key.
func AddAgentToGroup(ctx context.Context, db *gorm.DB, agentID, groupID uint) error {
	return db.WithContext(ctx).
		Create(&domain.AgentGroup{AgentID: agentID, GroupID: groupID}).Error
}

// DeleteAgentChildren removes file metadata and category/group associations
// for agentID. Called inside the agent-delete transaction before the parent
// row goes away.
func DeleteAgentChildren(ctx context.Context, db *gorm.DB, agentID uint) error {
	if err := db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Delete(&domain.AgentFile{}).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Delete(&domain.AgentCategory{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Delete(&domain.AgentGroup{}).Error
}

// DeleteAgentsByOwner removes all agents owned by ownerID together with
// their children. Part of the user-delete cascade.
func DeleteAgentsByOwner(ctx context.Context, db *gorm.DB, ownerID uint) error {
	agents, err := ListAgentsByOwner(ctx, db, ownerID)
	if err != nil {
		return err
	}
	for _, a := range agents {
		if err := DeleteAgentChildren(ctx, db, a.ID); err != nil {
			return err
		}
	}
	return db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&domain.Agent{}).Error
}
