package doctor

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carelink/hospital-api/internal/handler"
	"github.com/carelink/hospital-api/internal/middleware"
	"github.com/carelink/hospital-api/internal/service/doctor"
)

type Handler struct {
	service *doctor.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *doctor.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	doctors := rg.Group("/doctors", h.auth.Authenticate())
	doctors.PUT("/:id/schedule", h.UpdateSchedule)
}

type updateScheduleRequest struct {
	Schedule json.RawMessage `json:"schedule" binding:"required"`
}

// UpdateSchedule is a restricted mutation. Constrained staff roles do not
// get an error: their attempt is recorded as an escalation for an
// administrator and the schedule is left untouched.
func (h *Handler) UpdateSchedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	var req updateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.UpdateSchedule(c.Request.Context(), middleware.UserID(c), id, req.Schedule)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if !result.Applied {
		c.JSON(http.StatusAccepted, handler.NewSuccessResponse(gin.H{
			"message":       "request submitted for administrator approval",
			"escalation_id": result.EscalationID,
		}))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"updated": true}))
}
