// internal/api/handlers/analytics_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storecoach-kr/storecoach-backend/internal/service"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

type AnalyticsHandler struct {
	service *service.AnalyticsService
	clock   timeutil.Clock
}

func NewAnalyticsHandler(service *service.AnalyticsService, clock timeutil.Clock) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, clock: clock}
}

func (h *AnalyticsHandler) GetMenuCosts(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	rows, err := h.service.MenuCosts(c.Request.Context(), storeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menus": rows})
}

func (h *AnalyticsHandler) GetABC(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	rows, err := h.service.ABC(c.Request.Context(), storeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menus": rows})
}

// GetIngredientUsage defaults to the trailing 30 days ending today.
func (h *AnalyticsHandler) GetIngredientUsage(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	end, ok := parseDate(c, "end", timeutil.DateOf(h.clock.NowKST()))
	if !ok {
		return
	}
	start, ok := parseDate(c, "start", end.AddDate(0, 0, -29))
	if !ok {
		return
	}

	rows, err := h.service.IngredientUsage(c.Request.Context(), storeID, start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": rows})
}

func (h *AnalyticsHandler) GetIngredientCosts(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	end, ok := parseDate(c, "end", timeutil.DateOf(h.clock.NowKST()))
	if !ok {
		return
	}
	start, ok := parseDate(c, "start", end.AddDate(0, 0, -29))
	if !ok {
		return
	}

	rows, err := h.service.IngredientCosts(c.Request.Context(), storeID, start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": rows})
}
