// internal/api/handlers/inventory_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/service"
)

type InventoryHandler struct {
	service *service.InventoryService
}

func NewInventoryHandler(service *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func (h *InventoryHandler) GetSafetyGap(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	rows, err := h.service.SafetyGap(c.Request.Context(), storeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows})
}

func (h *InventoryHandler) GetReorder(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	rows, err := h.service.Reorder(c.Request.Context(), storeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows})
}

func (h *InventoryHandler) GetSupplierOptimization(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	result, err := h.service.SupplierOptimization(c.Request.Context(), storeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *InventoryHandler) GetTurnover(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	rows, err := h.service.Turnover(c.Request.Context(), storeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows})
}

type simulateSafetyRequest struct {
	StoreID      int64   `json:"store_id" binding:"required"`
	IngredientID int64   `json:"ingredient_id" binding:"required"`
	PctDelta     float64 `json:"pct_delta"`
}

func (h *InventoryHandler) SimulateSafetyChange(c *gin.Context) {
	var req simulateSafetyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.service.SimulateSafetyChange(c.Request.Context(), req.StoreID, req.IngredientID, req.PctDelta)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *InventoryHandler) UpsertInventory(c *gin.Context) {
	var row domain.Inventory
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.UpsertInventory(c.Request.Context(), row); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
