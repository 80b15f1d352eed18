package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/versaforge/go-agent-backend/internal/http/middleware"
)

// UploadAgentFile handles POST /agents/:id/files. The document arrives as a
// multipart form field named "file"; only PDF and DOCX uploads are accepted.
func (h *Handlers) UploadAgentFile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	agentID, okParam := pathID(c, "id")
	if !okParam {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "multipart field 'file' is required")
		return
	}
	if header.Filename == "" {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "uploaded file must have a name")
		return
	}

	src, err := header.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "could not read uploaded file")
		return
	}
	defer src.Close()

	contentType := header.Header.Get("Content-Type")
	rec, err := h.fileSvc.Upload(c.Request.Context(), user, agentID, header.Filename, contentType, src)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, rec)
}

// ListAgentFiles handles GET /agents/:id/files. Owner only.
func (h *Handlers) ListAgentFiles(c *gin.Context) {
	user := middleware.CurrentUser(c)

	agentID, okParam := pathID(c, "id")
	if !okParam {
		return
	}

	files, err := h.fileSvc.List(c.Request.Context(), user, agentID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, files)
}
