package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/agenthands/matchbox/internal/cache"
	"github.com/agenthands/matchbox/internal/config"
	"github.com/agenthands/matchbox/internal/core"
	"github.com/agenthands/matchbox/internal/core/solver"
	"github.com/agenthands/matchbox/internal/driver"
	"github.com/agenthands/matchbox/internal/logging"
	"github.com/agenthands/matchbox/internal/server"
)

const memoryCacheEntries = 1024

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	var store driver.SeasonStore
	if cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, logger)
		if err != nil {
			logger.Warn("memgraph unavailable, stored seasons disabled", zap.Error(err))
		} else {
			defer func() { _ = d.Close(ctx) }()
			_ = d.BuildIndices(ctx)
			store = driver.NewGraphSeasonStore(d)
		}
	}

	var resultCache cache.ResultCache = cache.NewMemoryCache(memoryCacheEntries)
	if cfg.Redis.URL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Redis.URL, cfg.Redis.TTL.Std())
		if err != nil {
			logger.Warn("redis unavailable, using in-process cache", zap.Error(err))
		} else {
			defer func() { _ = rc.Close() }()
			resultCache = rc
		}
	}

	s := solver.New(
		solver.WithLogger(logger.Named("solver")),
		solver.WithMaxAssignments(cfg.Solver.MaxAssignments),
	)
	engine := core.NewEngine(store, resultCache, s, cfg.Solver.Timeout.Std(), logger.Named("engine"))

	gin.SetMode(cfg.Server.Mode)
	r := server.NewServer(engine, logger.Named("http")).SetupRouter()

	logger.Info("starting server", zap.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
