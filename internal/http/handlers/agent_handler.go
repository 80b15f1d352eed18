package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/versaforge/go-agent-backend/internal/http/middleware"
	"github.com/versaforge/go-agent-backend/internal/services"
)

// AgentCreateRequest is the payload accepted by POST /agents.
type AgentCreateRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Prompt      string  `json:"prompt" binding:"required"`
	Provider    string  `json:"provider" binding:"omitempty,max=32"`
	IsPublic    bool    `json:"is_public"`
	CategoryIDs []uint  `json:"category_ids"`
}

// AgentUpdateRequest is the payload accepted by PUT /agents/:id. Absent
// fields are left unchanged; a present category_ids replaces the whole set.
type AgentUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Prompt      *string `json:"prompt" binding:"omitempty"`
	Provider    *string `json:"provider" binding:"omitempty,max=32"`
	IsPublic    *bool   `json:"is_public"`
	CategoryIDs *[]uint `json:"category_ids"`
}

// CreateAgent handles POST /agents.
func (h *Handlers) CreateAgent(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req AgentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "invalid agent payload")
		return
	}

	agent, err := h.agentSvc.Create(c.Request.Context(), user, services.AgentCreate{
		Name:        req.Name,
		Description: req.Description,
		Prompt:      req.Prompt,
		Provider:    req.Provider,
		IsPublic:    req.IsPublic,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, agent)
}

// GetAgent handles GET /agents/:id. Owners see their own agents; everyone
// else only sees public ones.
func (h *Handlers) GetAgent(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, okParam := pathID(c, "id")
	if !okParam {
		return
	}

	agent, err := h.agentSvc.Get(c.Request.Context(), user, id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, agent)
}

// ListMyAgents handles GET /agents.
func (h *Handlers) ListMyAgents(c *gin.Context) {
	user := middleware.CurrentUser(c)

	agents, err := h.agentSvc.ListMine(c.Request.Context(), user)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, agents)
}

// ListPublicAgents handles GET /agents/public.
func (h *Handlers) ListPublicAgents(c *gin.Context) {
	agents, err := h.agentSvc.ListPublic(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, agents)
}

// ListUserPublicAgents handles GET /agents/public/users/:user_id.
func (h *Handlers) ListUserPublicAgents(c *gin.Context) {
	ownerID, okParam := pathID(c, "user_id")
	if !okParam {
		return
	}

	agents, err := h.agentSvc.ListPublicByUser(c.Request.Context(), ownerID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, agents)
}

// ListCategoryAgents handles GET /agents/public/categories/:category_id.
func (h *Handlers) ListCategoryAgents(c *gin.Context) {
	categoryID, okParam := pathID(c, "category_id")
	if !okParam {
		return
	}

	agents, err := h.agentSvc.ListByCategory(c.Request.Context(), categoryID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, agents)
}

// UpdateAgent handles PUT /agents/:id. Owner only; a non-owner gets the same
// 404 as a missing agent.
func (h *Handlers) UpdateAgent(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, okParam := pathID(c, "id")
	if !okParam {
		return
	}

	var req AgentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "invalid agent payload")
		return
	}

	agent, err := h.agentSvc.Update(c.Request.Context(), user, id, services.AgentUpdate{
		Name:        req.Name,
		Description: req.Description,
		Prompt:      req.Prompt,
		Provider:    req.Provider,
		IsPublic:    req.IsPublic,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, agent)
}

// DeleteAgent handles DELETE /agents/:id. Owner only.
func (h *Handlers) DeleteAgent(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, okParam := pathID(c, "id")
	if !okParam {
		return
	}

	if err := h.agentSvc.Delete(c.Request.Context(), user, id); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// ShareAgentWithGroup handles POST /agents/:id/groups/:group_id. Owner only
// and idempotent.
func (h *Handlers) ShareAgentWithGroup(c *gin.Context) {
	user := middleware.CurrentUser(c)

	agentID, okParam := pathID(c, "id")
	if !okParam {
		return
	}
	groupID, okParam := pathID(c, "group_id")
	if !okParam {
		return
	}

	if err := h.agentSvc.AssignToGroup(c.Request.Context(), user, agentID, groupID); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
