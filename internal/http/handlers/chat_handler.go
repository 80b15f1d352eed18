package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/versaforge/go-agent-backend/internal/http/middleware"
)

// ChatRequest is the payload accepted by POST /chat.
type ChatRequest struct {
	AgentID uint   `json:"agent_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// ChatResponse carries the model's reply for one chat turn.
type ChatResponse struct {
	AgentID  uint   `json:"agent_id"`
	Response string `json:"response"`
}

// Chat handles POST /chat. The caller must be able to see the agent; the
// agent's prompt and the user message are combined into a single completion
// request against the agent's configured provider.
func (h *Handlers) Chat(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "agent_id and message are required")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "message must not be blank")
		return
	}

	answer, err := h.chatSvc.Answer(c.Request.Context(), user, req.AgentID, req.Message)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ChatResponse{AgentID: req.AgentID, Response: answer})
}
