package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carelink/hospital-api/internal/handler"
	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/service/rbac"
	"github.com/carelink/hospital-api/pkg/auth"
)

// Context keys set by Authenticate.
const (
	CtxUserID    = "userID"
	CtxUserEmail = "userEmail"
)

type AuthMiddleware struct {
	gate   rbac.Gate
	jwtSvc auth.JWTService
}

func NewAuthMiddleware(gate rbac.Gate, jwtSvc auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{gate: gate, jwtSvc: jwtSvc}
}

// Authenticate verifies the bearer token and sets the caller identity in the
// request context. Roles are never taken from the token.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.parseBearer(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
			c.Abort()
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserEmail, claims.Email)
		c.Next()
	}
}

// OptionalAuthenticate sets identity when a valid token is present and lets
// anonymous requests through. Used only by the public callback intake path.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := m.parseBearer(c); ok {
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxUserEmail, claims.Email)
		}
		c.Next()
	}
}

// RequireStaff rejects callers the gate does not recognize as staff. Runs
// after Authenticate.
func (m *AuthMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)
		if userID == uuid.Nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
			c.Abort()
			return
		}

		isStaff, err := m.gate.IsStaff(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to check role"))
			c.Abort()
			return
		}
		if !isStaff {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("staff role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole rejects callers lacking the given role. Runs after Authenticate.
func (m *AuthMiddleware) RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)
		if userID == uuid.Nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
			c.Abort()
			return
		}

		hasRole, err := m.gate.HasRole(c.Request.Context(), userID, role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to check role"))
			c.Abort()
			return
		}
		if !hasRole {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("permission denied"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller's id, or uuid.Nil for anonymous.
func UserID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return uuid.Nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

func (m *AuthMiddleware) parseBearer(c *gin.Context) (*auth.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}
	claims, err := m.jwtSvc.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}
