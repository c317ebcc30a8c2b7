package match

import (
	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling-engine/internal/app"
	"github.com/kindlingapp/kindling-engine/internal/auth"
)

// Registrar ties the match service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the match service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the match engine routes to the router group
func (r *Registrar) Register(rg *gin.RouterGroup) {
	s := NewMatchService(r.appCtx)
	user := auth.RequireRole(r.appCtx, auth.RoleUser)
	rg.POST("/profiles/:id/like", user, s.LikeProfile)
	rg.POST("/profiles/:id/pass", user, s.PassProfile)
	rg.GET("/matches", user, s.GetMatches)
}
