// internal/api/handlers/finance_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/service"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

type FinanceHandler struct {
	service *service.FinanceService
	clock   timeutil.Clock
}

func NewFinanceHandler(service *service.FinanceService, clock timeutil.Clock) *FinanceHandler {
	return &FinanceHandler{service: service, clock: clock}
}

func (h *FinanceHandler) GetFiveCore(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	year, month, ok := parseYearMonth(c, h.clock)
	if !ok {
		return
	}
	five, err := h.service.FiveCore(c.Request.Context(), storeID, year, month)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, five)
}

func (h *FinanceHandler) GetBreakEven(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	year, month, ok := parseYearMonth(c, h.clock)
	if !ok {
		return
	}
	analysis, err := h.service.BreakEven(c.Request.Context(), storeID, year, month)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (h *FinanceHandler) GetCostsAtSalesLevel(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	year, month, ok := parseYearMonth(c, h.clock)
	if !ok {
		return
	}
	sales, err := strconv.ParseInt(c.Query("sales"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sales is required"})
		return
	}
	result, err := h.service.CostsAtSalesLevel(c.Request.Context(), storeID, year, month, sales)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FinanceHandler) GetScorecard(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	year, month, ok := parseYearMonth(c, h.clock)
	if !ok {
		return
	}
	card, err := h.service.Scorecard(c.Request.Context(), storeID, year, month)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

type expenseStructureRequest struct {
	StoreID int64                     `json:"store_id" binding:"required"`
	Year    int                       `json:"year" binding:"required"`
	Month   int                       `json:"month" binding:"required"`
	Rows    []domain.ExpenseStructure `json:"rows"`
}

func (h *FinanceHandler) SaveExpenseStructure(c *gin.Context) {
	var req expenseStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.SaveExpenseStructure(c.Request.Context(), req.StoreID, req.Year, req.Month, req.Rows); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type settlementRequest struct {
	StoreID int64                         `json:"store_id" binding:"required"`
	Year    int                           `json:"year" binding:"required"`
	Month   int                           `json:"month" binding:"required"`
	Rows    []domain.ActualSettlementItem `json:"rows"`
}

func (h *FinanceHandler) SaveSettlementItems(c *gin.Context) {
	var req settlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.SaveSettlementItems(c.Request.Context(), req.StoreID, req.Year, req.Month, req.Rows); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *FinanceHandler) GetTarget(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	year, month, ok := parseYearMonth(c, h.clock)
	if !ok {
		return
	}
	target, err := h.service.GetTarget(c.Request.Context(), storeID, year, month)
	if err != nil {
		writeError(c, err)
		return
	}
	if target == nil {
		c.JSON(http.StatusOK, gin.H{"target": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"target": target})
}

func (h *FinanceHandler) SaveTarget(c *gin.Context) {
	var target domain.Target
	if err := c.ShouldBindJSON(&target); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rateWarning, err := h.service.SaveTarget(c.Request.Context(), target)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "rate_warning": rateWarning})
}
