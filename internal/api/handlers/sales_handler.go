// internal/api/handlers/sales_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/service"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

type SalesHandler struct {
	service *service.SalesService
}

func NewSalesHandler(service *service.SalesService) *SalesHandler {
	return &SalesHandler{service: service}
}

type dailySalesRequest struct {
	StoreID   int64  `json:"store_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StoreName string `json:"store_name"`
	Card      int64  `json:"card"`
	Cash      int64  `json:"cash"`
	Total     int64  `json:"total"`
}

func (h *SalesHandler) SaveDailySales(c *gin.Context) {
	var req dailySalesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.ParseInLocation(time.DateOnly, req.Date, timeutil.KST)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	row := domain.DailySales{
		StoreID:   req.StoreID,
		Date:      date,
		StoreName: req.StoreName,
		Card:      req.Card,
		Cash:      req.Cash,
		Total:     req.Total,
	}
	if err := h.service.SaveDailySales(c.Request.Context(), row); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type dailyCloseRequest struct {
	dailySalesRequest
	Visitors int64  `json:"visitors"`
	Issues   string `json:"issues"`
	Memo     string `json:"memo"`
}

func (h *SalesHandler) SaveDailyClose(c *gin.Context) {
	var req dailyCloseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.ParseInLocation(time.DateOnly, req.Date, timeutil.KST)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	row := domain.DailyClose{
		StoreID:   req.StoreID,
		Date:      date,
		StoreName: req.StoreName,
		Card:      req.Card,
		Cash:      req.Cash,
		Total:     req.Total,
		Visitors:  req.Visitors,
		Issues:    req.Issues,
		Memo:      req.Memo,
	}
	if err := h.service.SaveDailyClose(c.Request.Context(), row); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type salesItemsRequest struct {
	StoreID int64  `json:"store_id" binding:"required"`
	Date    string `json:"date" binding:"required"`
	Items   []struct {
		MenuID int64   `json:"menu_id" binding:"required"`
		Qty    float64 `json:"qty"`
	} `json:"items"`
}

func (h *SalesHandler) SaveDailySalesItems(c *gin.Context) {
	var req salesItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.ParseInLocation(time.DateOnly, req.Date, timeutil.KST)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	items := make([]domain.DailySalesItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.DailySalesItem{
			StoreID: req.StoreID,
			Date:    date,
			MenuID:  item.MenuID,
			Qty:     item.Qty,
		})
	}
	if err := h.service.SaveDailySalesItems(c.Request.Context(), req.StoreID, date, items); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetDailySales serves the best-available daily view over an optional range.
func (h *SalesHandler) GetDailySales(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}

	var start, end *time.Time
	if t, ok := parseDate(c, "start", time.Time{}); !ok {
		return
	} else if !t.IsZero() {
		start = &t
	}
	if t, ok := parseDate(c, "end", time.Time{}); !ok {
		return
	} else if !t.IsZero() {
		end = &t
	}

	rows, err := h.service.BestDailySales(c.Request.Context(), storeID, start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": rows})
}
