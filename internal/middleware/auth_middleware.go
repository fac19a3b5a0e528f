package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	appAuth "github.com/skillkhoj/backend/internal/app/auth"
	"github.com/skillkhoj/backend/internal/app/models"
	"github.com/skillkhoj/backend/internal/app/models/dto"
	"github.com/skillkhoj/backend/internal/pkg/auth"
)

// Context keys set by Authenticate
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// Messages returned by the access checks
const (
	MsgNoToken          = "No token, authorization denied"
	MsgTokenNotValid    = "Token not valid"
	MsgPermissionDenied = "You do not have permission to access this resource."
)

// TokenVerifier decodes a session token
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	verifier TokenVerifier
	policy   appAuth.Policy
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier, policy appAuth.Policy) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		policy:   policy,
	}
}

// Authenticate requires "Authorization: Bearer <token>" and stores the decoded
// identity and role in the context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrorCodeUnauthorized, MsgNoToken))
			return
		}

		claims, err := m.verifier.Verify(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrorCodeExpiredToken
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, MsgTokenNotValid))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, models.RoleType(claims.Role))
		c.Next()
	}
}

// RequireRoles rejects callers whose role is not in roles. It must run after Authenticate.
func (m *AuthMiddleware) RequireRoles(roles ...models.RoleType) gin.HandlerFunc {
	allowed := make(map[models.RoleType]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, ok := CurrentRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrorCodeUnauthorized, MsgNoToken))
			return
		}
		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrorCodeForbidden, MsgPermissionDenied))
			return
		}
		c.Next()
	}
}

// Allow applies the allow-list the policy table declares for route.
func (m *AuthMiddleware) Allow(route string) gin.HandlerFunc {
	return m.RequireRoles(m.policy.Roles(route)...)
}

// RequireSelfOrAdmin lets non-admin callers address only their own id in the path parameter param.
func (m *AuthMiddleware) RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := CurrentRole(c)
		userID, _ := CurrentUserID(c)
		if role != models.RoleAdmin && c.Param(param) != userID {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrorCodeForbidden, MsgPermissionDenied))
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the identity stored by Authenticate
func CurrentUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// CurrentRole returns the role stored by Authenticate
func CurrentRole(c *gin.Context) (models.RoleType, bool) {
	v, ok := c.Get(ContextRole)
	if !ok {
		return "", false
	}
	role, ok := v.(models.RoleType)
	return role, ok
}
