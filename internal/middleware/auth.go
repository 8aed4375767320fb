package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/logger"
)

// PrincipalResolver resolves the Authorization header of a request.
type PrincipalResolver interface {
	Resolve(ctx context.Context, authorizationHeader string) (auth.Principal, error)
}

// RequireAuth resolves the bearer token of every request and rejects it with
// 401 when no principal can be produced.
func RequireAuth(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		principal, err := resolver.Resolve(ctx, c.GetHeader(constants.HeaderAuthorization))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				apierrors.Unauthorized(c, apierrors.ErrCodeMissingToken, "Missing bearer token")
			case errors.Is(err, auth.ErrTokenExpired):
				apierrors.Unauthorized(c, apierrors.ErrCodeTokenExpired, "Token expired")
			case errors.Is(err, auth.ErrTokenInvalid):
				apierrors.Unauthorized(c, apierrors.ErrCodeTokenInvalid, "Invalid token")
			case errors.Is(err, auth.ErrUnknownSubject):
				apierrors.Unauthorized(c, apierrors.ErrCodeUnknownSubject, "Token subject no longer exists")
			default:
				logger.ErrorContext(ctx, "failed to resolve principal", "error", err)
				apierrors.InternalError(c, "")
			}
			return
		}

		c.Set(constants.ContextKeyPrincipal, principal)
		c.Next()
	}
}

// GetPrincipal retrieves the principal stored by RequireAuth
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return auth.Principal{}, false
	}

	principal, ok := value.(auth.Principal)
	if !ok || principal.IsZero() {
		return auth.Principal{}, false
	}
	return principal, true
}
