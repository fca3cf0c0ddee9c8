package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vitaltrack/backend/internal/middleware"
	"github.com/vitaltrack/backend/internal/models"
	"github.com/vitaltrack/backend/internal/service"
)

const dateLayout = "2006-01-02"

// timeNow is swapped out in tests that pin the clock.
var timeNow = time.Now

// mustUser returns the authenticated user or writes a 401. Handlers behind the
// auth middleware use it as their first line.
func mustUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	return user, true
}

// pathID parses the :id path segment.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// queryDate parses an optional YYYY-MM-DD query parameter, defaulting to now.
func queryDate(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return t, true
}

// queryInt parses an optional integer query parameter.
func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// parseBodyDate parses an optional YYYY-MM-DD string from a request body
// field.
func parseBodyDate(c *gin.Context, raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return nil, false
	}
	return &t, true
}

// listFilter builds the common start_date/end_date/skip/limit window.
func listFilter(c *gin.Context) (service.ListFilter, bool) {
	var f service.ListFilter
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, expected YYYY-MM-DD"})
			return f, false
		}
		f.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date, expected YYYY-MM-DD"})
			return f, false
		}
		f.EndDate = &t
	}
	f.Skip = queryInt(c, "skip", 0)
	f.Limit = queryInt(c, "limit", 100)
	return f, true
}

// writeRecordError maps a lookup failure to 404 or 500.
func writeRecordError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
