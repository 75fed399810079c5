package call

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carelink/hospital-api/internal/handler"
	"github.com/carelink/hospital-api/internal/middleware"
	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/service/call"
)

// WebhookSecretHeader authenticates the provider's confirmation callback.
const WebhookSecretHeader = "X-Webhook-Secret"

type Handler struct {
	service       *call.Service
	auth          *middleware.AuthMiddleware
	webhookSecret string
}

func NewHandler(service *call.Service, auth *middleware.AuthMiddleware, webhookSecret string) *Handler {
	return &Handler{service: service, auth: auth, webhookSecret: webhookSecret}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	calls := rg.Group("/calls")
	calls.POST("/appointment", h.auth.Authenticate(), h.DispatchAppointmentCall)
	// Callback intake is the one public dispatch path: anonymous leads can
	// be captured and called in a single request.
	calls.POST("/callback", h.auth.OptionalAuthenticate(), h.DispatchCallbackCall)
	calls.POST("/confirmations", h.ConfirmCall)
}

func (h *Handler) DispatchAppointmentCall(c *gin.Context) {
	var req model.DispatchAppointmentCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.DispatchAppointmentCall(c.Request.Context(), middleware.UserID(c), req.AppointmentID, req.Action)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) DispatchCallbackCall(c *gin.Context) {
	var req model.DispatchCallbackCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.DispatchCallbackCall(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

// ConfirmCall is invoked by the voice provider's tool-call webhook once the
// patient verbally confirms. Idempotent.
func (h *Handler) ConfirmCall(c *gin.Context) {
	secret := c.GetHeader(WebhookSecretHeader)
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.webhookSecret)) != 1 {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	var req model.ConfirmCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.Confirm(c.Request.Context(), req.RecordID); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"confirmed": true}))
}
