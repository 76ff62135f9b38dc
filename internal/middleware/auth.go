package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/security"
)

const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextUserRole  = "userRole"
)

type TokenParser interface {
	Parse(raw string) (*security.Claims, error)
}

func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Autenticação necessária.")
			c.Abort()
			return
		}

		if !authenticate(c, tokens) {
			return
		}
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through. A token that is present
// must still be valid.
func OptionalAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" && !authenticate(c, tokens) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, tokens TokenParser) bool {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		httperr.Unauthorized(c, "invalid_authorization_header", "Cabeçalho de autorização inválido.")
		c.Abort()
		return false
	}

	claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
	if err != nil {
		httperr.Unauthorized(c, "invalid_token", "Sessão inválida ou expirada.")
		c.Abort()
		return false
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUserEmail, claims.Email)
	c.Set(ContextUserRole, claims.Role)

	// Later log lines of this request carry the caller.
	ctx := c.Request.Context()
	l := zerolog.Ctx(ctx).With().Uint("user_id", claims.UserID).Logger()
	c.Request = c.Request.WithContext(l.WithContext(ctx))

	return true
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		if !allowed[c.GetString(ContextUserRole)] {
			httperr.Forbidden(c, "forbidden", "Você não tem permissão para esta ação.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller, 0 on public routes.
func UserID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}

func Role(c *gin.Context) string {
	return c.GetString(ContextUserRole)
}
