package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/visitorpass/internal/domain/visitor"
	"github.com/orris-inc/visitorpass/internal/infrastructure/auth"
	"github.com/orris-inc/visitorpass/internal/shared/constants"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
	"github.com/orris-inc/visitorpass/internal/shared/utils"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     logger,
	}
}

// RequireAuth resolves the bearer token into user_id and user_role on the
// context, rejecting the request when it is missing or invalid.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		actor, err := m.jwtService.Actor(parts[1])
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err, "client_ip", c.ClientIP())
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, actor.UserID)
		c.Set(constants.ContextKeyUserRole, actor.Role)

		c.Next()
	}
}

// CurrentActor returns the identity RequireAuth stored on the context.
func CurrentActor(c *gin.Context) visitor.Actor {
	return visitor.Actor{
		UserID: c.GetString(constants.ContextKeyUserID),
		Role:   c.GetString(constants.ContextKeyUserRole),
	}
}
