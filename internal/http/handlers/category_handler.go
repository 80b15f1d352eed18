package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/versaforge/go-agent-backend/internal/auth"
	"github.com/versaforge/go-agent-backend/internal/http/middleware"
	"github.com/versaforge/go-agent-backend/internal/services"
	"github.com/versaforge/go-agent-backend/internal/utils"
)

// CategoryCreateRequest is the payload accepted by POST /categories.
type CategoryCreateRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// CategoryUpdateRequest is the payload accepted by PUT /categories/:id.
// Absent fields are left unchanged.
type CategoryUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// ListCategories handles GET /categories. Pagination is bounded: limit must
// fall in [1,100] and offset must be non-negative.
func (h *Handlers) ListCategories(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 10)
	offset := utils.AtoiDefault(c.Query("offset"), 0)

	cats, err := h.catSvc.List(c.Request.Context(), limit, offset)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "limit must be in [1,100] and offset must be >= 0")
			return
		}
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, cats)
}

// GetCategory handles GET /categories/:id.
func (h *Handlers) GetCategory(c *gin.Context) {
	id, okParam := pathID(c, "id")
	if !okParam {
		return
	}

	cat, err := h.catSvc.Get(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, cat)
}

// CreateCategory handles POST /categories. Admin only.
func (h *Handlers) CreateCategory(c *gin.Context) {
	if err := auth.RequireAdmin(middleware.CurrentUser(c)); err != nil {
		failErr(c, err)
		return
	}

	var req CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "invalid category payload")
		return
	}

	cat, err := h.catSvc.Create(c.Request.Context(), services.CategoryCreate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, cat)
}

// UpdateCategory handles PUT /categories/:id. Admin only; absent fields are
// left unchanged.
func (h *Handlers) UpdateCategory(c *gin.Context) {
	if err := auth.RequireAdmin(middleware.CurrentUser(c)); err != nil {
		failErr(c, err)
		return
	}

	id, okParam := pathID(c, "id")
	if !okParam {
		return
	}

	var req CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "invalid category payload")
		return
	}

	cat, err := h.catSvc.Update(c.Request.Context(), id, services.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, cat)
}

// DeleteCategory handles DELETE /categories/:id. Admin only. The delete is
// lenient by default: a missing category is treated as success. With
// ?strict=true absence is a 404 instead.
func (h *Handlers) DeleteCategory(c *gin.Context) {
	if err := auth.RequireAdmin(middleware.CurrentUser(c)); err != nil {
		failErr(c, err)
		return
	}

	id, okParam := pathID(c, "id")
	if !okParam {
		return
	}

	strict := false
	if raw, present := c.GetQuery("strict"); present {
		strict = utils.IsTruthy(raw)
	}

	if err := h.catSvc.Delete(c.Request.Context(), id, strict); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
