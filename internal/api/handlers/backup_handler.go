// internal/api/handlers/backup_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storecoach-kr/storecoach-backend/internal/service"
)

type BackupHandler struct {
	service *service.BackupService
}

func NewBackupHandler(service *service.BackupService) *BackupHandler {
	return &BackupHandler{service: service}
}

type backupRequest struct {
	StoreID int64 `json:"store_id" binding:"required"`
}

// Export uploads a store snapshot to object storage.
func (h *BackupHandler) Export(c *gin.Context) {
	var req backupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	key, err := h.service.Export(c.Request.Context(), req.StoreID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key})
}
