package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// pathID parses a positive integer path parameter. The second return value
// is false when the parameter is missing or not a positive integer; callers
// are expected to return immediately in that case because a 422 has already
// been written.
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, name+" must be a positive integer")
		return 0, false
	}
	return uint(v), true
}
