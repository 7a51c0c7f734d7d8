// internal/api/handlers/design_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/service"
)

type DesignHandler struct {
	service *service.DesignService
}

func NewDesignHandler(service *service.DesignService) *DesignHandler {
	return &DesignHandler{service: service}
}

// GetSummary serves the four-area design scorecard.
func (h *DesignHandler) GetSummary(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	summary, err := h.service.Summary(c.Request.Context(), storeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DesignHandler) SaveMenuRoleTag(c *gin.Context) {
	var tag domain.MenuRoleTag
	if err := c.ShouldBindJSON(&tag); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.SaveMenuRoleTag(c.Request.Context(), tag); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *DesignHandler) SaveIngredientState(c *gin.Context) {
	var state domain.IngredientStructureState
	if err := c.ShouldBindJSON(&state); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.SaveIngredientState(c.Request.Context(), state); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
