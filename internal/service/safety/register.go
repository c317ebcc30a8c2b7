package safety

import (
	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling-engine/internal/app"
	"github.com/kindlingapp/kindling-engine/internal/auth"
)

// Registrar ties the safety service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the safety service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the block/report routes to the router group
func (r *Registrar) Register(rg *gin.RouterGroup) {
	s := NewSafetyService(r.appCtx)
	user := auth.RequireRole(r.appCtx, auth.RoleUser)
	rg.POST("/profiles/:id/block", user, s.BlockUser)
	rg.GET("/blocked", user, s.GetBlockedUsers)
	rg.POST("/profiles/:id/report", user, s.ReportUser)
}
