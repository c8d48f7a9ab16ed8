package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"court-booking/internal/domain/user"
	"court-booking/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// IdentityVerifier resolves a bearer token issued by the identity provider.
type IdentityVerifier interface {
	Verify(token string) (user.Identity, error)
}

type AuthMiddleware struct {
	verifier IdentityVerifier
}

const (
	ctxIdentityKey = "identity"
	ctxUserIDKey   = "user_id"
	ctxUserRoleKey = "user_role"
)

var (
	errMissingToken      = errors.New("missing bearer token")
	errInvalidToken      = errors.New("invalid bearer token")
	errMissingIdentity   = errors.New("identity not set on context")
	errInsufficientRoles = errors.New("insufficient role")
)

func NewAuthMiddleware(verifier IdentityVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errMissingToken, "Access token required", nil)
			return
		}

		identity, err := m.verifier.Verify(token)
		if err != nil {
			slog.Warn("Token verification failed in auth middleware", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, errInvalidToken, "Invalid or expired token", nil)
			return
		}

		SetIdentity(c, identity)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal server error", nil)
			return
		}

		if !slices.Contains(roles, identity.Role) {
			httperr.AbortWithError(c, http.StatusForbidden, errInsufficientRoles, "Insufficient permissions", nil)
			return
		}

		c.Next()
	}
}

// SetIdentity is exported so tests can stand in for RequireAuth.
func SetIdentity(c *gin.Context, identity user.Identity) {
	c.Set(ctxIdentityKey, identity)
	c.Set(ctxUserIDKey, identity.ID)
	c.Set(ctxUserRoleKey, identity.Role)
}

func GetIdentity(c *gin.Context) (user.Identity, bool) {
	v, exists := c.Get(ctxIdentityKey)
	if !exists {
		return user.Identity{}, false
	}

	identity, ok := v.(user.Identity)
	return identity, ok
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}
