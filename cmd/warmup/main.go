// Package main provides a one-shot KPI cache warmer.
// Run it after deploys or warehouse reloads so the first dashboard request
// does not pay for the full KPI aggregation.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/sirupsen/logrus"

	"github.com/wealth-analytics/internal/config"
	"github.com/wealth-analytics/internal/logging"
	"github.com/wealth-analytics/internal/service"
	"github.com/wealth-analytics/internal/storage"
)

func main() {
	fmt.Println("KPI Cache Warmer")
	log.Println("Warmer starting...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger := logrus.StandardLogger()

	logger.Info("Connecting to databases...")

	warehouse, err := storage.NewWarehouseDB(&cfg.Database.Warehouse)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to warehouse")
	}
	defer warehouse.Close()

	redis, err := storage.NewRedisCache(&cfg.Database.Redis)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redis.Close()

	logger.Info("Database connections established")

	executor := storage.NewExecutor(warehouse, &cfg.Query)
	kpiRepo := storage.NewKPIRepository(executor)
	cacheService := storage.NewCacheService(redis, cfg.Cache.ResultTTL)
	kpiService := service.NewKPIService(kpiRepo, cacheService, cfg.Cache.KPITTL)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Query.Timeout)
	defer cancel()

	if err := kpiService.Refresh(ctx); err != nil {
		logger.WithError(err).Fatal("KPI cache refresh failed")
	}

	logger.Info("KPI cache warmed")
}
