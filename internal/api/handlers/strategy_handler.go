// internal/api/handlers/strategy_handler.go
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/storecoach-kr/storecoach-backend/internal/service"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

type StrategyHandler struct {
	service *service.StrategyService
	clock   timeutil.Clock
}

func NewStrategyHandler(service *service.StrategyService, clock timeutil.Clock) *StrategyHandler {
	return &StrategyHandler{service: service, clock: clock}
}

// GetSignals serves the raw drop-signal bundle for a window ending at
// ref_date (default today).
func (h *StrategyHandler) GetSignals(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	refDate, ok := parseDate(c, "ref_date", timeutil.DateOf(h.clock.NowKST()))
	if !ok {
		return
	}
	windowDays, _ := strconv.Atoi(c.DefaultQuery("window_days", "0"))

	signals, hasData, err := h.service.Signals(c.Request.Context(), storeID, refDate, windowDays)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_data": hasData, "signals": signals})
}

// GetTodayCard serves the daily strategy card.
func (h *StrategyHandler) GetTodayCard(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	card, err := h.service.TodayCard(c.Request.Context(), storeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

type missionRequest struct {
	StoreID int64 `json:"store_id" binding:"required"`
}

// CreateMission materializes today's card into an active mission.
func (h *StrategyHandler) CreateMission(c *gin.Context) {
	var req missionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	detail, err := h.service.CreateTodayMission(c.Request.Context(), req.StoreID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *StrategyHandler) ListMissions(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))

	missions, err := h.service.ListMissions(c.Request.Context(), storeID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"missions": missions})
}

func (h *StrategyHandler) GetMission(c *gin.Context) {
	missionID, ok := parseIDParam(c, "mission_id")
	if !ok {
		return
	}
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	detail, err := h.service.GetMission(c.Request.Context(), storeID, missionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *StrategyHandler) CompleteMission(c *gin.Context) {
	h.closeMission(c, h.service.CompleteMission)
}

func (h *StrategyHandler) AbandonMission(c *gin.Context) {
	h.closeMission(c, h.service.AbandonMission)
}

func (h *StrategyHandler) closeMission(c *gin.Context, close func(ctx context.Context, storeID, missionID int64) error) {
	missionID, ok := parseIDParam(c, "mission_id")
	if !ok {
		return
	}
	var req missionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := close(c.Request.Context(), req.StoreID, missionID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type taskDoneRequest struct {
	StoreID int64 `json:"store_id" binding:"required"`
	Done    *bool `json:"done" binding:"required"`
}

func (h *StrategyHandler) SetTaskDone(c *gin.Context) {
	missionID, ok := parseIDParam(c, "mission_id")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "task_id")
	if !ok {
		return
	}
	var req taskDoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.SetTaskDone(c.Request.Context(), req.StoreID, missionID, taskID, *req.Done); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetMissionEffect compares sales around a completed mission. Serves null
// until enough after-days have passed.
func (h *StrategyHandler) GetMissionEffect(c *gin.Context) {
	missionID, ok := parseIDParam(c, "mission_id")
	if !ok {
		return
	}
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	effect, err := h.service.MissionEffect(c.Request.Context(), storeID, missionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"effect": effect})
}
