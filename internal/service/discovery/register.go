package discovery

import (
	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling-engine/internal/app"
	"github.com/kindlingapp/kindling-engine/internal/auth"
)

// Registrar ties the discovery service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the discovery service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the discovery routes to the router group
func (r *Registrar) Register(rg *gin.RouterGroup) {
	s := NewDiscoveryService(r.appCtx)
	rg.GET("/recommendations", auth.RequireRole(r.appCtx, auth.RoleUser), s.GetRecommendedProfiles)
}
