// Package main provides the API server entry point for the wealth analytics service.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/wealth-analytics/internal/api"
	"github.com/wealth-analytics/internal/config"
	"github.com/wealth-analytics/internal/logging"
	"github.com/wealth-analytics/internal/policy"
	"github.com/wealth-analytics/internal/service"
	"github.com/wealth-analytics/internal/storage"
)

func main() {
	fmt.Println("Wealth Analytics API Server")
	log.Println("Server starting...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logging.Init(cfg.Logging.Level, cfg.Logging.Format)

	logger := logrus.StandardLogger()
	logger.WithFields(logrus.Fields{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	// Initialize database connections
	logger.Info("Connecting to databases...")

	// Connect to the ClickHouse warehouse
	warehouse, err := storage.NewWarehouseDB(&cfg.Database.Warehouse)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to warehouse")
	}
	defer warehouse.Close()

	// Connect to Redis
	redis, err := storage.NewRedisCache(&cfg.Database.Redis)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redis.Close()

	logger.Info("Database connections established")

	// Load classification policy, applying policy-store overrides when a
	// Postgres policy store is configured.
	analyticsPolicy := policy.Default()
	if cfg.Database.Policy.Enabled() {
		policyDB, err := storage.NewPolicyDB(&cfg.Database.Policy)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to policy store")
		}
		defer policyDB.Close()

		policyRepo := storage.NewPolicyRepository(policyDB)
		if err := policyRepo.ApplyOverrides(context.Background(), analyticsPolicy); err != nil {
			logger.WithError(err).Fatal("Failed to load policy overrides")
		}
		logger.Info("Policy-store overrides applied")
	} else {
		logger.Info("No policy store configured, using default policy")
	}

	// Initialize repositories
	executor := storage.NewExecutor(warehouse, &cfg.Query)
	kpiRepo := storage.NewKPIRepository(executor)
	clientRepo := storage.NewClientRepository(executor)
	portfolioRepo := storage.NewPortfolioRepository(executor)
	txRepo := storage.NewTransactionRepository(executor)
	interactionRepo := storage.NewInteractionRepository(executor)
	geoRepo := storage.NewGeoRepository(executor)
	advisorRepo := storage.NewAdvisorRepository(executor)

	// Initialize result cache
	cacheService := storage.NewCacheService(redis, cfg.Cache.ResultTTL)

	// Initialize services
	logger.Info("Initializing services...")

	resultTTL := cfg.Cache.ResultTTL
	kpiService := service.NewKPIService(kpiRepo, cacheService, cfg.Cache.KPITTL)
	segmentationService := service.NewSegmentationService(clientRepo, cacheService, resultTTL, analyticsPolicy)
	suitabilityService := service.NewSuitabilityService(portfolioRepo, cacheService, resultTTL, analyticsPolicy)
	driftService := service.NewDriftService(portfolioRepo, cacheService, resultTTL, analyticsPolicy)
	cashSweepService := service.NewCashSweepService(portfolioRepo, cacheService, resultTTL, analyticsPolicy)
	anomalyService := service.NewAnomalyService(txRepo, cacheService, resultTTL, analyticsPolicy)
	churnService := service.NewChurnService(clientRepo, cacheService, resultTTL, analyticsPolicy)
	outreachService := service.NewOutreachService(clientRepo, cacheService, resultTTL, analyticsPolicy)
	sentimentService := service.NewSentimentService(interactionRepo, cacheService, resultTTL, analyticsPolicy)
	geoService := service.NewGeoService(geoRepo, cacheService, resultTTL, analyticsPolicy)
	advisorService := service.NewAdvisorService(advisorRepo, cacheService, resultTTL, analyticsPolicy)
	actionService := service.NewActionService(clientRepo, cacheService, resultTTL, analyticsPolicy)
	complianceService := service.NewComplianceService(clientRepo, cacheService, resultTTL, analyticsPolicy)
	briefingService := service.NewBriefingService(clientRepo, cacheService, resultTTL)

	logger.Info("Services initialized")

	// Schedule the KPI cache warmer so dashboards never hit a cold snapshot
	if cfg.Refresh.Enabled {
		scheduler := cron.New()
		spec := fmt.Sprintf("@every %s", cfg.Refresh.Interval)
		_, err := scheduler.AddFunc(spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Query.Timeout)
			defer cancel()
			if err := kpiService.Refresh(ctx); err != nil {
				logger.WithError(err).Warn("KPI cache refresh failed")
			}
		})
		if err != nil {
			logger.WithError(err).Fatal("Failed to schedule KPI refresh")
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.WithFields(logrus.Fields{
			"interval": cfg.Refresh.Interval.String(),
		}).Info("KPI cache warmer scheduled")
	}

	// Create server configuration
	serverConfig := &api.ServerConfig{
		Host:              cfg.Server.Host,
		Port:              cfg.Server.Port,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	}

	server := api.NewServer(serverConfig, &api.Services{
		KPI:        kpiService,
		Clients:    segmentationService,
		Portfolios: suitabilityService,
		Drift:      driftService,
		CashSweep:  cashSweepService,
		Anomaly:    anomalyService,
		Churn:      churnService,
		Outreach:   outreachService,
		Sentiment:  sentimentService,
		Geo:        geoService,
		Advisors:   advisorService,
		Actions:    actionService,
		Compliance: complianceService,
		Briefing:   briefingService,
	})

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(logrus.Fields{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
