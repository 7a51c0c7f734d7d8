// internal/api/handlers/common.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/repository"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

// parseStoreID reads the store_id query parameter. Zero means missing.
func parseStoreID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Query("store_id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "store_id is required"})
		return 0, false
	}
	return id, true
}

// parseYearMonth reads year/month query parameters, defaulting to the
// current KST month.
func parseYearMonth(c *gin.Context, clock timeutil.Clock) (int, int, bool) {
	now := clock.NowKST()
	year, month := now.Year(), int(now.Month())

	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 2000 || v > 2100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return 0, 0, false
		}
		year = v
	}
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return 0, 0, false
		}
		month = v
	}
	return year, month, true
}

// parseDate reads a YYYY-MM-DD query parameter, falling back to def when
// absent.
func parseDate(c *gin.Context, param string, def time.Time) (time.Time, bool) {
	raw := c.Query(param)
	if raw == "" {
		return def, true
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, timeutil.KST)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param + ", expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return t, true
}

// parseIDParam reads a positive int64 path parameter.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// writeError maps domain errors onto HTTP statuses: validation 400,
// invariant 409, not found 404, anything else 500.
func writeError(c *gin.Context, err error) {
	var validation *domain.ValidationError
	var invariant *domain.InvariantViolation
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &invariant):
		c.JSON(http.StatusConflict, gin.H{"error": invariant.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
