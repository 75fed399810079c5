package escalation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carelink/hospital-api/internal/handler"
	"github.com/carelink/hospital-api/internal/middleware"
	"github.com/carelink/hospital-api/internal/service/escalation"
)

type Handler struct {
	service *escalation.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *escalation.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	escalations := rg.Group("/escalations", h.auth.Authenticate())
	escalations.GET("", h.ListPending)
	escalations.POST("/:id/resolve", h.Resolve)
}

func (h *Handler) ListPending(c *gin.Context) {
	escalations, err := h.service.ListPending(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(escalations))
}

func (h *Handler) Resolve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid escalation ID"))
		return
	}

	if err := h.service.Resolve(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"resolved": true}))
}
