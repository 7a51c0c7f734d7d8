// cmd/analytics/main.go
//
// Batch recompute CLI. Runs the heavy analytics for one store and, when the
// cache is enabled, leaves the results warm so the first dashboard load of
// the day is served from Redis.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/storecoach-kr/storecoach-backend/internal/cache"
	"github.com/storecoach-kr/storecoach-backend/internal/config"
	"github.com/storecoach-kr/storecoach-backend/internal/engine/breakeven"
	"github.com/storecoach-kr/storecoach-backend/internal/engine/cost"
	"github.com/storecoach-kr/storecoach-backend/internal/repository/postgres"
	"github.com/storecoach-kr/storecoach-backend/internal/service"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

func main() {
	dbURL := flag.String("db-url", "", "Database connection string")
	storeID := flag.Int64("store-id", 0, "Store to recompute")
	flag.Parse()

	if *dbURL == "" {
		log.Fatal("Database URL is required (use -db-url flag)")
	}
	if *storeID <= 0 {
		log.Fatal("Store ID is required (use -store-id flag)")
	}

	cfg := config.Load()

	db, err := sqlx.Connect("pgx", *dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	memo, err := cache.NewMemoizer(cfg.Cache)
	if err != nil {
		log.Fatalf("Failed to connect to cache: %v", err)
	}

	masterRepo := postgres.NewMasterRepository(db)
	salesRepo := postgres.NewSalesRepository(db)
	financeRepo := postgres.NewFinanceRepository(db)

	clock := timeutil.SystemClock{}
	costCalc := cost.NewCalculator(
		cfg.Analytics.CostRateWarningThreshold,
		cfg.Analytics.LowContributionKRW,
		cfg.Analytics.ABCThresholdA,
		cfg.Analytics.ABCThresholdB,
	)

	analyticsService := service.NewAnalyticsService(masterRepo, salesRepo, costCalc, memo)
	financeService := service.NewFinanceService(financeRepo, salesRepo, breakeven.NewCalculator(), memo)
	designService := service.NewDesignService(masterRepo, analyticsService, financeService, clock, memo)

	ctx := context.Background()
	now := clock.NowKST()
	start := time.Now()

	menus, err := analyticsService.MenuCosts(ctx, *storeID)
	if err != nil {
		log.Fatalf("Menu cost recompute failed: %v", err)
	}
	log.Printf("Recomputed costs for %d menus", len(menus))

	end := timeutil.DateOf(now)
	ingredients, err := analyticsService.IngredientCosts(ctx, *storeID, end.AddDate(0, 0, -29), end)
	if err != nil {
		log.Fatalf("Ingredient cost recompute failed: %v", err)
	}
	log.Printf("Recomputed costs for %d ingredients", len(ingredients))

	if _, err := financeService.BreakEven(ctx, *storeID, now.Year(), int(now.Month())); err != nil {
		log.Fatalf("Break-even recompute failed: %v", err)
	}

	if _, err := designService.Summary(ctx, *storeID); err != nil {
		log.Fatalf("Design summary recompute failed: %v", err)
	}

	log.Printf("Store %d recomputed in %v", *storeID, time.Since(start))
}
