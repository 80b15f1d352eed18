// Package services – CategoryService
//
// This file implements CategoryService, which manages the admin-curated
// category labels. Name validation and the case-insensitive duplicate check
// run inside the same transaction as the insert or update, so two concurrent
// creates of "DuplicateCase" and "duplicatecase" cannot both succeed; the
// NOCASE unique index is the database-level backstop.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/versaforge/go-agent-backend/internal/domain"
	"github.com/versaforge/go-agent-backend/internal/repo"
)

const (
	categoryNameMinLen = 2
	categoryNameMaxLen = 100
)

// categoryNameRE restricts names to letters, digits, spaces, hyphens, and
// apostrophes.
var categoryNameRE = regexp.MustCompile(`^[a-zA-Z0-9 '\-]+$`)

// CategoryCreate carries the fields for a new category.
type CategoryCreate struct {
	Name        string
	Description *string
}

// CategoryUpdate carries optional fields; nil means "leave unchanged".
type CategoryUpdate struct {
	Name        *string
	Description *string
}

// CategoryService provides category CRUD with the uniqueness invariant.
type CategoryService struct {
	DB *gorm.DB
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{DB: db}
}

// Create validates the name and inserts the category. Fails with
// ErrDuplicateCategory when an equal name (case-insensitive) exists, and
// ErrInvalidInput when the name is blank, out of bounds, or contains
// disallowed characters.
func (s *CategoryService) Create(ctx context.Context, in CategoryCreate) (*domain.Category, error) {
	name, err := normalizeCategoryName(in.Name)
	if err != nil {
		return nil, err
	}

	c := &domain.Category{Name: name, Description: in.Description}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.FindCategoryByName(ctx, tx, name, 0); err == nil {
			return ErrDuplicateCategory
		} else if !errors.Is(err, repo.ErrNotFound) {
			return err
		}
		if err := repo.CreateCategory(ctx, tx, c); err != nil {
			if repo.IsUniqueViolation(err) {
				return ErrDuplicateCategory
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the category with the given id, or ErrCategoryNotFound.
func (s *CategoryService) Get(ctx context.Context, id uint) (*domain.Category, error) {
	c, err := repo.GetCategory(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrCategoryNotFound
	}
	return c, err
}

// List returns a page of categories. Limit and offset are assumed to be
// validated at the boundary (limit in [1,100], offset >= 0); out-of-range
// values are still rejected here as defense-in-depth.
func (s *CategoryService) List(ctx context.Context, limit, offset int) ([]domain.Category, error) {
	if limit < 1 || limit > 100 || offset < 0 {
		return nil, ErrInvalidInput
	}
	out, err := repo.ListCategories(ctx, s.DB, limit, offset)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Category{}
	}
	return out, nil
}

// Update applies the non-nil fields of in, re-running name validation and
// the case-insensitive duplicate check (excluding the row itself) in the
// update transaction.
func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryUpdate) (*domain.Category, error) {
	var out *domain.Category
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := repo.GetCategory(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
		if in.Name != nil {
			name, err := normalizeCategoryName(*in.Name)
			if err != nil {
				return err
			}
			if _, err := repo.FindCategoryByName(ctx, tx, name, id); err == nil {
				return ErrDuplicateCategory
			} else if !errors.Is(err, repo.ErrNotFound) {
				return err
			}
			c.Name = name
		}
		if in.Description != nil {
			c.Description = in.Description
		}
		if err := repo.SaveCategory(ctx, tx, c); err != nil {
			if repo.IsUniqueViolation(err) {
				return ErrDuplicateCategory
			}
			return err
		}
		out = c
		return nil
	})
	return out, err
}

// Delete removes a category and its agent associations. In strict mode an
// absent category fails with ErrCategoryNotFound; otherwise deletion of a
// missing row silently succeeds. Agents referencing the category are never
// deleted, only the association rows.
func (s *CategoryService) Delete(ctx context.Context, id uint, strict bool) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.DeleteCategoryAssociations(ctx, tx, id); err != nil {
			return err
		}
		existed, err := repo.DeleteCategory(ctx, tx, id)
		if err != nil {
			return err
		}
		if !existed && strict {
			return ErrCategoryNotFound
		}
		return nil
	})
}

// normalizeCategoryName trims the name and enforces the character set and
// length bounds.
func normalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidInput
	}
	if n := utf8.RuneCountInString(name); n < categoryNameMinLen || n > categoryNameMaxLen {
		return "", ErrInvalidInput
	}
	if !categoryNameRE.MatchString(name) {
		return "", ErrInvalidInput
	}
	return name, nil
}
