package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitaltrack/backend/internal/service"
)

// AnalyticsHandler exposes the aggregation endpoints. All of them are scoped
// to the authenticated user; the admin console has its own all-user views.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	analytics := router.Group("/analytics")
	{
		analytics.GET("/dashboard", h.Dashboard)
		analytics.GET("/dashboard/summary", h.DashboardSummary)
		analytics.GET("/workouts/weekly", h.WeeklyWorkouts)
		analytics.GET("/calories/daily", h.DailyCalories)
		analytics.GET("/macros", h.Macros)
		analytics.GET("/weight/trend", h.WeightTrend)
		analytics.GET("/stats/weekly", h.Weekly)
		analytics.GET("/stats/monthly", h.Monthly)
	}

	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/today-progress", h.TodayProgress)
		dashboard.GET("/weekly-overview", h.WeeklyOverview)
		dashboard.GET("/charts/workouts", h.WorkoutsChart)
	}
}

func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	data, err := h.analytics.Dashboard(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard"})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *AnalyticsHandler) DashboardSummary(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	summary, err := h.analytics.DashboardSummary(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *AnalyticsHandler) WeeklyWorkouts(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	data, err := h.analytics.WeeklyWorkoutMinutes(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build workout summary"})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *AnalyticsHandler) DailyCalories(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	days := queryInt(c, "days", 7)
	if days <= 0 || days > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 365"})
		return
	}

	data, err := h.analytics.DailyCalorieTotals(user.ID, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build calorie totals"})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *AnalyticsHandler) Macros(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	date, ok := queryDate(c, "date", timeNow())
	if !ok {
		return
	}

	data, err := h.analytics.MacronutrientTotals(user.ID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build macro totals"})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *AnalyticsHandler) WeightTrend(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	days := queryInt(c, "days", 30)
	if days <= 0 || days > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 365"})
		return
	}

	data, err := h.analytics.WeightTrendData(user.ID, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build weight trend"})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *AnalyticsHandler) Weekly(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	data, err := h.analytics.Weekly(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build weekly stats"})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *AnalyticsHandler) Monthly(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	data, err := h.analytics.Monthly(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build monthly stats"})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *AnalyticsHandler) TodayProgress(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	data, err := h.analytics.TodayProgress(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build today progress"})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *AnalyticsHandler) WeeklyOverview(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	data, err := h.analytics.WeeklyOverview(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build weekly overview"})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *AnalyticsHandler) WorkoutsChart(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	data, err := h.analytics.WorkoutsChart(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build chart"})
		return
	}
	c.JSON(http.StatusOK, data)
}
