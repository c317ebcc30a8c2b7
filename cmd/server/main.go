package main

import (
	"context"

	"github.com/kindlingapp/kindling-engine/internal/app"
	"github.com/kindlingapp/kindling-engine/internal/cache"
	"github.com/kindlingapp/kindling-engine/internal/config"
	"github.com/kindlingapp/kindling-engine/internal/db"
	"github.com/kindlingapp/kindling-engine/internal/logger"
	"github.com/kindlingapp/kindling-engine/internal/server"
	"github.com/kindlingapp/kindling-engine/internal/service/admin"
	"github.com/kindlingapp/kindling-engine/internal/service/chat"
	"github.com/kindlingapp/kindling-engine/internal/service/discovery"
	"github.com/kindlingapp/kindling-engine/internal/service/match"
	"github.com/kindlingapp/kindling-engine/internal/service/profile"
	"github.com/kindlingapp/kindling-engine/internal/service/safety"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(cfg, database, redisCache, log)

	registrars := []server.Registrar{
		profile.NewRegistrar(appCtx),
		discovery.NewRegistrar(appCtx),
		match.NewRegistrar(appCtx),
		chat.NewRegistrar(appCtx),
		safety.NewRegistrar(appCtx),
		admin.NewRegistrar(appCtx),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(appCtx, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
