package profile

import (
	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling-engine/internal/app"
	"github.com/kindlingapp/kindling-engine/internal/auth"
)

// Registrar ties the profile service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the profile service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the profile routes. Reading the caller's own profile
// is open to any authenticated caller (it drives onboarding routing);
// everything else needs the base user role.
func (r *Registrar) Register(rg *gin.RouterGroup) {
	s := NewProfileService(r.appCtx)
	rg.GET("/profile", s.GetCallerProfile)
	rg.POST("/profile", auth.RequireRole(r.appCtx, auth.RoleUser), s.SaveCallerProfile)
	rg.GET("/profiles/:id", auth.RequireRole(r.appCtx, auth.RoleUser), s.GetUserProfile)
}
