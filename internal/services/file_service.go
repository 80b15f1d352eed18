// Package services – FileService
//
// This file implements FileService, the authorized upload path for agent
// documents. Uploads follow a write-then-record policy: the blob is written
// to the file store first, then the metadata row is inserted, and the blob is
// deleted again if the insert fails. The reverse ordering would risk metadata
// referencing a missing file, which is worse for a RAG consumer than a
// briefly orphaned blob.
package services

import (
	"context"
	"errors"
	"io"

	"gorm.io/gorm"

	"github.com/versaforge/go-agent-backend/internal/domain"
	"github.com/versaforge/go-agent-backend/internal/repo"
)

// allowedContentTypes is the fixed upload allow-list: PDF and DOCX.
var allowedContentTypes = map[string]struct{}{
	"application/pdf": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// BlobStore is the storage contract FileService needs. Remove must be
// idempotent; it is the compensation step after a failed metadata insert.
type BlobStore interface {
	Save(agentID uint, filename string, r io.Reader) (string, error)
	Remove(agentID uint, filename string) error
}

// FileService provides owner-gated upload and listing of agent documents.
// Files are never exposed for public agents to non-owners.
type FileService struct {
	DB    *gorm.DB
	Store BlobStore
}

// NewFileService constructs a FileService.
func NewFileService(db *gorm.DB, store BlobStore) *FileService {
	return &FileService{DB: db, Store: store}
}

// Upload stores content for an agent owned by user. The content type must be
// on the PDF/DOCX allow-list; nothing is written and no row is created
// otherwise. A (agent_id, filename) collision fails with ErrDuplicateFile
// and removes the just-written blob.
func (s *FileService) Upload(ctx context.Context, user *domain.User, agentID uint, filename, contentType string, content io.Reader) (*domain.AgentFile, error) {
	if _, err := repo.GetAgentOwned(ctx, s.DB, agentID, user.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	if filename == "" {
		return nil, ErrInvalidInput
	}
	if _, ok := allowedContentTypes[contentType]; !ok {
		return nil, ErrUnsupportedFileType
	}

	// Duplicate names fail fast before any disk write; the unique index
	// still catches the concurrent case below.
	if _, err := s.find(ctx, agentID, filename); err == nil {
		return nil, ErrDuplicateFile
	}

	if _, err := s.Store.Save(agentID, filename, content); err != nil {
		return nil, err
	}

	f := &domain.AgentFile{AgentID: agentID, Filename: filename, ContentType: contentType}
	if err := repo.CreateAgentFile(ctx, s.DB, f); err != nil {
		// Compensate: the blob must not outlive a failed metadata insert.
		_ = s.Store.Remove(agentID, filename)
		if repo.IsUniqueViolation(err) {
			return nil, ErrDuplicateFile
		}
		return nil, err
	}
	return f, nil
}

// List returns metadata for all files attached to an agent owned by user.
// An agent with no files yields an empty slice, not an error.
func (s *FileService) List(ctx context.Context, user *domain.User, agentID uint) ([]domain.AgentFile, error) {
	if _, err := repo.GetAgentOwned(ctx, s.DB, agentID, user.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	files, err := repo.ListAgentFiles(ctx, s.DB, agentID)
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []domain.AgentFile{}
	}
	return files, nil
}

// find looks up an existing metadata row by (agentID, filename).
func (s *FileService) find(ctx context.Context, agentID uint, filename string) (*domain.AgentFile, error) {
	var f domain.AgentFile
	err := s.DB.WithContext(ctx).
		Where("agent_id = ? AND filename = ?", agentID, filename).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}
