package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/versaforge/go-agent-backend/internal/auth"
	"github.com/versaforge/go-agent-backend/internal/http/middleware"
	"github.com/versaforge/go-agent-backend/internal/services"
)

// RegisterRequest is the payload accepted by POST /users/register.
type RegisterRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=50"`
	Email    string  `json:"email"    binding:"required,email,max=100"`
	FullName *string `json:"full_name" binding:"omitempty,max=100"`
	Password string  `json:"password" binding:"required,min=8,max=128"`
}

// LoginForm is the form-encoded payload accepted by POST /users/login.
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ProfileUpdateRequest is the payload accepted by PUT /users/me. Absent
// fields are left unchanged.
type ProfileUpdateRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,max=100"`
	Email    *string `json:"email"    binding:"omitempty,email,max=100"`
}

// PasswordChangeRequest is the payload accepted by PUT /users/me/password.
type PasswordChangeRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// GroupsResponse lists the group IDs a user belongs to.
type GroupsResponse struct {
	GroupIDs []uint `json:"group_ids"`
}

// Register handles POST /users/register.
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "invalid registration payload")
		return
	}

	user, err := h.userSvc.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, user)
}

// Login handles POST /users/login. Credentials arrive form-encoded and a
// successful exchange yields a signed bearer token carrying a snapshot of
// the user's identity.
func (h *Handlers) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "username and password are required")
		return
	}

	user, err := h.userSvc.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		failErr(c, err)
		return
	}

	token, err := h.issuer.Issue(auth.Identity{
		UserID:   user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Email:    user.Email,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me handles GET /users/me.
func (h *Handlers) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	ok(c, http.StatusOK, user)
}

// UpdateMe handles PUT /users/me. Only the fields present in the payload
// are changed.
func (h *Handlers) UpdateMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "invalid profile payload")
		return
	}

	updated, err := h.userSvc.UpdateProfile(c.Request.Context(), user.ID, services.ProfileUpdate{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, updated)
}

// ChangePassword handles PUT /users/me/password.
func (h *Handlers) ChangePassword(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "old and new passwords are required")
		return
	}

	if err := h.userSvc.ChangePassword(c.Request.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// MyGroups handles GET /users/me/groups.
func (h *Handlers) MyGroups(c *gin.Context) {
	user := middleware.CurrentUser(c)

	ids, err := h.userSvc.ListGroups(c.Request.Context(), user.ID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, GroupsResponse{GroupIDs: ids})
}

// JoinGroup handles POST /users/me/groups/:group_id. Assignment is
// idempotent; joining a group twice succeeds quietly.
func (h *Handlers) JoinGroup(c *gin.Context) {
	user := middleware.CurrentUser(c)

	groupID, okParam := pathID(c, "group_id")
	if !okParam {
		return
	}

	if err := h.userSvc.AssignToGroup(c.Request.Context(), user.ID, groupID); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
