// internal/api/handlers/target_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storecoach-kr/storecoach-backend/internal/service"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

type TargetHandler struct {
	service *service.TargetService
	clock   timeutil.Clock
}

func NewTargetHandler(service *service.TargetService, clock timeutil.Clock) *TargetHandler {
	return &TargetHandler{service: service, clock: clock}
}

// GetAnalysis serves the month's target-vs-actual dashboard.
func (h *TargetHandler) GetAnalysis(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	year, month, ok := parseYearMonth(c, h.clock)
	if !ok {
		return
	}
	analysis, err := h.service.Analyze(c.Request.Context(), storeID, year, month)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}
