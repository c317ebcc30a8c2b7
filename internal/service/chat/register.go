package chat

import (
	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling-engine/internal/app"
	"github.com/kindlingapp/kindling-engine/internal/auth"
)

// Registrar ties the chat service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the chat service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the conversation routes to the router group
func (r *Registrar) Register(rg *gin.RouterGroup) {
	s := NewChatService(r.appCtx)
	user := auth.RequireRole(r.appCtx, auth.RoleUser)
	rg.POST("/conversations/:peer/messages", user, s.SendMessage)
	rg.GET("/conversations/:peer", user, s.GetConversation)
	rg.POST("/conversations/:peer/read", user, s.MarkConversationAsRead)
}
