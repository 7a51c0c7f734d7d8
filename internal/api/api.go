// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/storecoach-kr/storecoach-backend/internal/api/handlers"
	"github.com/storecoach-kr/storecoach-backend/internal/api/middleware"
	"github.com/storecoach-kr/storecoach-backend/internal/service"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

// Services bundles everything the router serves. Nil entries skip their
// route group; the backup service is nil when no object storage is
// configured.
type Services struct {
	Analytics *service.AnalyticsService
	Inventory *service.InventoryService
	Finance   *service.FinanceService
	Target    *service.TargetService
	Health    *service.HealthService
	Strategy  *service.StrategyService
	Design    *service.DesignService
	Sales     *service.SalesService
	Master    *service.MasterService
	Backup    *service.BackupService
}

func NewRouter(services *Services, clock timeutil.Clock, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")
	if services == nil {
		return router
	}

	if services.Analytics != nil {
		h := handlers.NewAnalyticsHandler(services.Analytics, clock)
		group := apiGroup.Group("/analytics")
		{
			group.GET("/menu_costs", h.GetMenuCosts)
			group.GET("/abc", h.GetABC)
			group.GET("/ingredient_usage", h.GetIngredientUsage)
			group.GET("/ingredient_costs", h.GetIngredientCosts)
		}
	}

	if services.Inventory != nil {
		h := handlers.NewInventoryHandler(services.Inventory)
		group := apiGroup.Group("/inventory")
		{
			group.GET("/safety_gap", h.GetSafetyGap)
			group.GET("/reorder", h.GetReorder)
			group.GET("/supplier_optimization", h.GetSupplierOptimization)
			group.GET("/turnover", h.GetTurnover)
			group.POST("/simulate_safety", h.SimulateSafetyChange)
			group.PUT("/stock", h.UpsertInventory)
		}
	}

	if services.Finance != nil {
		h := handlers.NewFinanceHandler(services.Finance, clock)
		group := apiGroup.Group("/finance")
		{
			group.GET("/five_core", h.GetFiveCore)
			group.GET("/break_even", h.GetBreakEven)
			group.GET("/sales_level", h.GetCostsAtSalesLevel)
			group.GET("/scorecard", h.GetScorecard)
			group.PUT("/expense_structure", h.SaveExpenseStructure)
			group.PUT("/settlements", h.SaveSettlementItems)
			group.GET("/target", h.GetTarget)
			group.PUT("/target", h.SaveTarget)
		}
	}

	if services.Target != nil {
		h := handlers.NewTargetHandler(services.Target, clock)
		apiGroup.GET("/target/analysis", h.GetAnalysis)
	}

	if services.Health != nil {
		h := handlers.NewHealthHandler(services.Health)
		group := apiGroup.Group("/health_check")
		{
			group.POST("/sessions", h.StartSession)
			group.POST("/sessions/:session_id/answers", h.Answer)
			group.POST("/sessions/:session_id/finalize", h.Finalize)
			group.GET("/sessions/:session_id", h.GetReport)
		}
	}

	if services.Strategy != nil {
		h := handlers.NewStrategyHandler(services.Strategy, clock)
		group := apiGroup.Group("/strategy")
		{
			group.GET("/signals", h.GetSignals)
			group.GET("/today_card", h.GetTodayCard)
			group.POST("/missions", h.CreateMission)
			group.GET("/missions", h.ListMissions)
			group.GET("/missions/:mission_id", h.GetMission)
			group.POST("/missions/:mission_id/complete", h.CompleteMission)
			group.POST("/missions/:mission_id/abandon", h.AbandonMission)
			group.PATCH("/missions/:mission_id/tasks/:task_id", h.SetTaskDone)
			group.GET("/missions/:mission_id/effect", h.GetMissionEffect)
		}
	}

	if services.Design != nil {
		h := handlers.NewDesignHandler(services.Design)
		group := apiGroup.Group("/design")
		{
			group.GET("/summary", h.GetSummary)
			group.PUT("/menu_role", h.SaveMenuRoleTag)
			group.PUT("/ingredient_state", h.SaveIngredientState)
		}
	}

	if services.Sales != nil {
		h := handlers.NewSalesHandler(services.Sales)
		group := apiGroup.Group("/sales")
		{
			group.POST("/daily", h.SaveDailySales)
			group.POST("/close", h.SaveDailyClose)
			group.PUT("/items", h.SaveDailySalesItems)
			group.GET("/daily", h.GetDailySales)
		}
	}

	if services.Master != nil {
		h := handlers.NewMasterHandler(services.Master)
		group := apiGroup.Group("/master")
		{
			group.GET("/menus", h.ListMenus)
			group.POST("/menus", h.SaveMenu)
			group.DELETE("/menus/:menu_id", h.DeleteMenu)
			group.GET("/ingredients", h.ListIngredients)
			group.POST("/ingredients", h.SaveIngredient)
			group.DELETE("/ingredients/:ingredient_id", h.DeleteIngredient)
			group.GET("/menus/:menu_id/recipe", h.GetRecipe)
			group.PUT("/menus/:menu_id/recipe", h.SaveRecipe)
			group.GET("/suppliers", h.ListSuppliers)
			group.POST("/suppliers", h.SaveSupplier)
			group.PUT("/ingredient_suppliers", h.SaveIngredientSupplier)
		}
	}

	if services.Backup != nil {
		h := handlers.NewBackupHandler(services.Backup)
		apiGroup.POST("/backup/export", h.Export)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
