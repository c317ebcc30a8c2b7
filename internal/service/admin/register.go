package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling-engine/internal/app"
	"github.com/kindlingapp/kindling-engine/internal/auth"
)

// Registrar ties the admin service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the admin service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the role and moderation routes. Role introspection is
// open to any authenticated caller; the rest is admin-only.
func (r *Registrar) Register(rg *gin.RouterGroup) {
	s := NewAdminService(r.appCtx)
	adminOnly := auth.RequireRole(r.appCtx, auth.RoleAdmin)
	rg.GET("/admin/reports", adminOnly, s.GetReports)
	rg.POST("/admin/roles", adminOnly, s.AssignRole)
	rg.GET("/role", s.GetCallerRole)
	rg.GET("/role/admin", s.IsCallerAdmin)
}
