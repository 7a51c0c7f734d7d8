// internal/api/handlers/health_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storecoach-kr/storecoach-backend/internal/service"
)

type HealthHandler struct {
	service *service.HealthService
}

func NewHealthHandler(service *service.HealthService) *HealthHandler {
	return &HealthHandler{service: service}
}

type startSessionRequest struct {
	StoreID int64 `json:"store_id" binding:"required"`
}

// StartSession returns the open session, creating one when none exists.
func (h *HealthHandler) StartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session, err := h.service.StartSession(c.Request.Context(), req.StoreID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

type answerRequest struct {
	StoreID      int64  `json:"store_id" binding:"required"`
	Category     string `json:"category" binding:"required"`
	QuestionCode string `json:"question_code" binding:"required"`
	Raw          string `json:"raw" binding:"required"`
	Memo         string `json:"memo"`
}

func (h *HealthHandler) Answer(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "session_id")
	if !ok {
		return
	}
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Answer(c.Request.Context(), req.StoreID, sessionID, req.Category, req.QuestionCode, req.Raw, req.Memo); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Finalize(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "session_id")
	if !ok {
		return
	}
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := h.service.Finalize(c.Request.Context(), req.StoreID, sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *HealthHandler) GetReport(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "session_id")
	if !ok {
		return
	}
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	report, err := h.service.Report(c.Request.Context(), storeID, sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
