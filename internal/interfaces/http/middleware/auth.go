package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/infrastructure/auth"
	"github.com/schoolhub/backend/internal/infrastructure/persistence"
	"github.com/schoolhub/backend/internal/interfaces/http/dto"
)

// ContextKeyActor is the gin context key for the authenticated actor
const ContextKeyActor = "actor"

// GetActor returns the actor stored by Authenticate
func GetActor(c *gin.Context) (identity.Actor, bool) {
	value, ok := c.Get(ContextKeyActor)
	if !ok {
		return identity.Actor{}, false
	}
	actor, ok := value.(identity.Actor)
	return actor, ok
}

// Authenticate validates the bearer token, rejects revoked sessions and
// installs the actor plus its data access scope on the request context.
// Every repository call downstream reads tenant isolation from that scope.
func Authenticate(jwtService *auth.JWTService, blacklist auth.TokenBlacklist, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c, "Missing authorization token")
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		revoked, err := blacklist.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			log.Error("Token blacklist lookup failed", zap.Error(err))
			abortUnauthorized(c, "Could not verify token")
			return
		}
		if !revoked && claims.IssuedAt != nil {
			revoked, err = blacklist.IsUserRevoked(c.Request.Context(), claims.UserID, claims.IssuedAt.Time)
			if err != nil {
				log.Error("Token blacklist lookup failed", zap.Error(err))
				abortUnauthorized(c, "Could not verify token")
				return
			}
		}
		if revoked {
			abortUnauthorized(c, "Token has been revoked")
			return
		}

		actor, err := claims.Actor()
		if err != nil {
			abortUnauthorized(c, "Invalid token claims")
			return
		}

		c.Set(ContextKeyActor, actor)
		ctx := persistence.WithScope(c.Request.Context(), identity.ResolveScope(actor))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRoles rejects actors whose role is not in the allow list. It
// must run after Authenticate.
func RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[identity.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			abortUnauthorized(c, "Missing authorization token")
			return
		}
		if _, ok := allowed[actor.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Insufficient permissions", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}
