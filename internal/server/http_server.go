package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling-engine/internal/app"
	"github.com/kindlingapp/kindling-engine/internal/auth"
)

// NewRouter builds the engine's HTTP surface: /health plus every service
// registered under /api/v1 behind the identity middleware.
func NewRouter(appCtx *app.AppContext, registrars ...Registrar) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(appCtx.Logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	api := router.Group("/api/v1")
	api.Use(auth.Authenticate(appCtx.Cfg))

	// register all services
	for _, r := range registrars {
		r.Register(api)
	}

	return router
}

// StartHTTPServer boots the HTTP server with all provided services.
func StartHTTPServer(appCtx *app.AppContext, registrars ...Registrar) error {
	cfg := appCtx.Cfg

	if cfg.App.ENV == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := NewRouter(appCtx, registrars...)

	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	return router.Run(addr)
}

// requestLogger emits one structured line per request.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
