package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carelink/hospital-api/internal/service/rbac"
)

// Handler serves the small identity surface the UI needs for rendering.
type Handler struct {
	gate rbac.Gate
}

func NewHandler(gate rbac.Gate) *Handler {
	return &Handler{gate: gate}
}

// Me returns the caller's display role. This feeds menu and section
// visibility only; every privileged operation is re-checked server-side.
func (h *Handler) Me(c *gin.Context) {
	v, _ := c.Get("userID")
	userID, ok := v.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized"))
		return
	}

	display, err := h.gate.DisplayRole(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}

	roles, err := h.gate.Roles(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSuccessResponse(gin.H{
		"user_id":      userID,
		"display_role": display,
		"roles":        roles,
	}))
}
