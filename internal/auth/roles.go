package auth

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling-engine/internal/app"
	svcErr "github.com/kindlingapp/kindling-engine/internal/errors"
	"github.com/kindlingapp/kindling-engine/internal/repository"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleGuest = "guest"
)

// ValidRole reports whether s is an assignable role name.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleUser || s == RoleGuest
}

// rank orders roles by privilege for the single authorization gate.
func rank(role string) int {
	switch role {
	case RoleAdmin:
		return 2
	case RoleUser:
		return 1
	}
	return 0
}

// ResolveRole maps a verified identity to its role. The bootstrap admin
// from config is always admin so a fresh database has an elevation point;
// any other identity without an explicit assignment is a plain user.
func ResolveRole(ctx context.Context, appCtx *app.AppContext, callerID string) (string, error) {
	if callerID == "" {
		return RoleGuest, nil
	}
	if appCtx.Cfg.Auth.BootstrapAdmin != "" && callerID == appCtx.Cfg.Auth.BootstrapAdmin {
		return RoleAdmin, nil
	}
	return repository.NewRoleRepository(appCtx.DB).Get(ctx, callerID)
}

// RequireRole is the one authorization gate applied in front of every
// operation; handlers never check roles themselves.
func RequireRole(appCtx *app.AppContext, minimum string) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID := CallerID(c)
		if callerID == "" {
			svcErr.Respond(c, svcErr.NotAuthenticated("no verified caller identity"))
			c.Abort()
			return
		}

		role, err := ResolveRole(c.Request.Context(), appCtx, callerID)
		if err != nil {
			svcErr.Respond(c, err)
			c.Abort()
			return
		}

		if rank(role) < rank(minimum) {
			svcErr.Respond(c, svcErr.NotAuthorized("insufficient role"))
			c.Abort()
			return
		}
		c.Next()
	}
}
