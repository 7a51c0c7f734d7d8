// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storecoach-kr/storecoach-backend/internal/api"
	"github.com/storecoach-kr/storecoach-backend/internal/cache"
	"github.com/storecoach-kr/storecoach-backend/internal/config"
	"github.com/storecoach-kr/storecoach-backend/internal/engine/breakeven"
	"github.com/storecoach-kr/storecoach-backend/internal/engine/cost"
	"github.com/storecoach-kr/storecoach-backend/internal/engine/inventory"
	"github.com/storecoach-kr/storecoach-backend/internal/engine/target"
	"github.com/storecoach-kr/storecoach-backend/internal/repository/postgres"
	"github.com/storecoach-kr/storecoach-backend/internal/service"
	"github.com/storecoach-kr/storecoach-backend/internal/storage"
	"github.com/storecoach-kr/storecoach-backend/pkg/logger"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	memo, err := cache.NewMemoizer(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to cache")
	}

	masterRepo := postgres.NewMasterRepository(db.DB)
	salesRepo := postgres.NewSalesRepository(db.DB)
	inventoryRepo := postgres.NewInventoryRepository(db.DB)
	financeRepo := postgres.NewFinanceRepository(db.DB)
	healthRepo := postgres.NewHealthRepository(db.DB)
	missionRepo := postgres.NewMissionRepository(db.DB)

	clock := timeutil.SystemClock{}

	costCalc := cost.NewCalculator(
		cfg.Analytics.CostRateWarningThreshold,
		cfg.Analytics.LowContributionKRW,
		cfg.Analytics.ABCThresholdA,
		cfg.Analytics.ABCThresholdB,
	)
	inventoryCalc := inventory.NewCalculator(
		cfg.Analytics.ReorderDaysForAvg,
		cfg.Analytics.ReorderForecastDays,
		cfg.Analytics.TurnoverPeriodDays,
	)
	breakevenCalc := breakeven.NewCalculator()
	targetCalc := target.NewCalculator(clock)

	analyticsService := service.NewAnalyticsService(masterRepo, salesRepo, costCalc, memo)
	financeService := service.NewFinanceService(financeRepo, salesRepo, breakevenCalc, memo)
	services := &api.Services{
		Analytics: analyticsService,
		Inventory: service.NewInventoryService(masterRepo, inventoryRepo, analyticsService, inventoryCalc, cfg.Analytics, clock, memo),
		Finance:   financeService,
		Target:    service.NewTargetService(salesRepo, financeService, analyticsService, targetCalc),
		Health:    service.NewHealthService(healthRepo, memo),
		Strategy:  service.NewStrategyService(salesRepo, masterRepo, missionRepo, analyticsService, financeService, cfg.Analytics, clock, memo),
		Design:    service.NewDesignService(masterRepo, analyticsService, financeService, clock, memo),
		Sales:     service.NewSalesService(salesRepo, memo),
		Master:    service.NewMasterService(masterRepo, memo),
	}

	if cfg.Backup.Enabled {
		store, err := storage.NewMinioClient(cfg.Backup)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize backup storage")
		}
		services.Backup = service.NewBackupService(masterRepo, salesRepo, inventoryRepo, store, clock)
	}

	router := api.NewRouter(services, clock, cfg.Server.AllowedOrigins)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
