package main

import (
	"log"

	"github.com/arnavshah/student-rota/pkg/auth"
	"github.com/arnavshah/student-rota/pkg/config"
	"github.com/arnavshah/student-rota/pkg/database"
	"github.com/arnavshah/student-rota/pkg/handlers"
	"github.com/arnavshah/student-rota/pkg/logging"
	"github.com/arnavshah/student-rota/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	if err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword, logger); err != nil {
		logger.Error("ensure admin", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		logger.Fatal("metrics", zap.Error(err))
	}

	h := &handlers.Handler{
		DB:      db,
		Auth:    auth.New(cfg.JWTSecret, cfg.APIMasterSecret),
		Config:  cfg,
		Logger:  logger,
		Metrics: collector,
	}
	r := handlers.NewRouter(h, reg)

	logger.Info("server starting", zap.String("port", cfg.AppPort))
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logger.Fatal("could not run server", zap.Error(err))
	}
}
