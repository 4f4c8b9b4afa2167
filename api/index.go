package handler

import (
	"log"
	"net/http"

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

var router http.Handler

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New(true)
	if err != nil {
		log.Fatalf("init logger: %v", err)
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

	gin.SetMode(gin.ReleaseMode)
	router = handlers.NewRouter(&handlers.Handler{
		DB:      db,
		Auth:    auth.New(cfg.JWTSecret, cfg.APIMasterSecret),
		Config:  cfg,
		Logger:  logger,
		Metrics: collector,
	}, reg)
}

// Handler is the entry point for the Vercel Go runtime
func Handler(w http.ResponseWriter, r *http.Request) {
	router.ServeHTTP(w, r)
}
