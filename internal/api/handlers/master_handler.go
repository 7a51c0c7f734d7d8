// internal/api/handlers/master_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/service"
)

type MasterHandler struct {
	service *service.MasterService
}

func NewMasterHandler(service *service.MasterService) *MasterHandler {
	return &MasterHandler{service: service}
}

func (h *MasterHandler) ListMenus(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	menus, err := h.service.ListMenus(c.Request.Context(), storeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menus": menus})
}

func (h *MasterHandler) SaveMenu(c *gin.Context) {
	var menu domain.Menu
	if err := c.ShouldBindJSON(&menu); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.service.SaveMenu(c.Request.Context(), menu)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *MasterHandler) DeleteMenu(c *gin.Context) {
	menuID, ok := parseIDParam(c, "menu_id")
	if !ok {
		return
	}
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteMenu(c.Request.Context(), storeID, menuID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *MasterHandler) ListIngredients(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	ingredients, err := h.service.ListIngredients(c.Request.Context(), storeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}

func (h *MasterHandler) SaveIngredient(c *gin.Context) {
	var ing domain.Ingredient
	if err := c.ShouldBindJSON(&ing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.service.SaveIngredient(c.Request.Context(), ing)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *MasterHandler) DeleteIngredient(c *gin.Context) {
	ingredientID, ok := parseIDParam(c, "ingredient_id")
	if !ok {
		return
	}
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteIngredient(c.Request.Context(), storeID, ingredientID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *MasterHandler) GetRecipe(c *gin.Context) {
	menuID, ok := parseIDParam(c, "menu_id")
	if !ok {
		return
	}
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	lines, err := h.service.ListRecipeLines(c.Request.Context(), storeID, menuID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

type recipeRequest struct {
	StoreID int64               `json:"store_id" binding:"required"`
	Lines   []domain.RecipeLine `json:"lines"`
}

// SaveRecipe replaces one menu's recipe lines.
func (h *MasterHandler) SaveRecipe(c *gin.Context) {
	menuID, ok := parseIDParam(c, "menu_id")
	if !ok {
		return
	}
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.SaveRecipeLines(c.Request.Context(), req.StoreID, menuID, req.Lines); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *MasterHandler) ListSuppliers(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	suppliers, err := h.service.ListSuppliers(c.Request.Context(), storeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

func (h *MasterHandler) SaveSupplier(c *gin.Context) {
	var sup domain.Supplier
	if err := c.ShouldBindJSON(&sup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.service.SaveSupplier(c.Request.Context(), sup)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *MasterHandler) SaveIngredientSupplier(c *gin.Context) {
	var link domain.IngredientSupplier
	if err := c.ShouldBindJSON(&link); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.SaveIngredientSupplier(c.Request.Context(), link); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
