package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitaltrack/backend/internal/service"
)

// AdminHandler serves the admin console: user management, system stats, user
// search and the audit log. Every route here sits behind the admin role check.
type AdminHandler struct {
	users     *service.UserService
	admin     *service.AdminService
	search    *service.SearchService
	activity  *service.ActivityService
	analytics *service.AnalyticsService
}

func NewAdminHandler(
	users *service.UserService,
	admin *service.AdminService,
	search *service.SearchService,
	activity *service.ActivityService,
	analytics *service.AnalyticsService,
) *AdminHandler {
	return &AdminHandler{
		users:     users,
		admin:     admin,
		search:    search,
		activity:  activity,
		analytics: analytics,
	}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		admin.GET("/stats", h.SystemStats)
		admin.GET("/overview", h.Overview)

		admin.GET("/users", h.ListUsers)
		admin.GET("/users/search", h.SearchUsers)
		admin.GET("/users/:id", h.UserDetails)
		admin.GET("/users/:id/data", h.UserData)
		admin.GET("/users/:id/activity", h.UserActivity)
		admin.GET("/users/:id/dashboard", h.UserDashboard)
		admin.PUT("/users/:id/role", h.SetRole)
		admin.PUT("/users/:id/blacklist", h.SetBlacklist)
		admin.DELETE("/users/:id", h.DeleteUser)

		admin.GET("/activity", h.ActivityLog)
		admin.POST("/activity", h.RecordActivity)
		admin.GET("/activity/recent", h.RecentActivity)
		admin.GET("/activity/stats", h.ActivityStats)
		admin.DELETE("/activity/clear", h.ClearActivity)
	}
}

func (h *AdminHandler) SystemStats(c *gin.Context) {
	stats, err := h.admin.SystemStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build system stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) Overview(c *gin.Context) {
	overview, err := h.admin.Overview()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build overview"})
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	skip := queryInt(c, "skip", 0)
	limit := queryInt(c, "limit", 100)

	users, err := h.users.List(skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) SearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}

	users, err := h.search.SearchUsers(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) UserDetails(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	details, err := h.admin.UserDetails(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *AdminHandler) UserData(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	end, ok := queryDate(c, "end_date", timeNow())
	if !ok {
		return
	}
	start, ok := queryDate(c, "start_date", end.AddDate(0, 0, -30))
	if !ok {
		return
	}

	bundle, err := h.search.UserData(id, start, end)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user data"})
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// UserDashboard renders the same dashboard payload a user sees themselves,
// so support staff can view exactly what the user is looking at.
func (h *AdminHandler) UserDashboard(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.users.Get(id); err != nil {
		writeAdminError(c, err)
		return
	}

	dashboard, err := h.analytics.Dashboard(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard"})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *AdminHandler) UserActivity(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	limit := queryInt(c, "limit", 50)

	logs, err := h.admin.UserActivity(id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load activity"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *AdminHandler) SetRole(c *gin.Context) {
	actor, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.SetRole(actor, id, req.Role)
	if err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type setBlacklistRequest struct {
	Blacklisted bool   `json:"blacklisted"`
	Reason      string `json:"reason"`
}

func (h *AdminHandler) SetBlacklist(c *gin.Context) {
	actor, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req setBlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.SetBlacklist(actor, id, req.Blacklisted, req.Reason)
	if err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(actor, id); err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func (h *AdminHandler) ActivityLog(c *gin.Context) {
	filter := service.ActivityFilter{
		ActionType: c.Query("action_type"),
		EntityType: c.Query("entity_type"),
		UserID:     uint(queryInt(c, "user_id", 0)),
		Hours:      queryInt(c, "hours", 0),
		Skip:       queryInt(c, "skip", 0),
		Limit:      queryInt(c, "limit", 100),
	}

	logs, err := h.activity.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load activity log"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *AdminHandler) RecentActivity(c *gin.Context) {
	logs, err := h.activity.Recent(queryInt(c, "limit", 20))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recent activity"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

type recordActivityRequest struct {
	ActionType  string `json:"action_type" binding:"required"`
	EntityType  string `json:"entity_type" binding:"required"`
	EntityID    *uint  `json:"entity_id"`
	Description string `json:"description"`
	Details     string `json:"details"`
}

// RecordActivity writes a manual audit entry attributed to the caller. Used by
// operators to annotate the log alongside the automatic entries.
func (h *AdminHandler) RecordActivity(c *gin.Context) {
	actor, ok := mustUser(c)
	if !ok {
		return
	}

	var req recordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entry, err := h.activity.Record(&actor.ID, actor.Username,
		req.ActionType, req.EntityType, req.EntityID, req.Description, req.Details)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record activity"})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ClearActivity trims audit entries older than the requested retention window.
func (h *AdminHandler) ClearActivity(c *gin.Context) {
	days := queryInt(c, "days", 30)
	if days < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be at least 1"})
		return
	}

	removed, err := h.activity.Trim(days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear activity log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": removed, "days": days})
}

func (h *AdminHandler) ActivityStats(c *gin.Context) {
	stats, err := h.activity.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build activity stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// writeAdminError maps the admin-management sentinels onto status codes.
func writeAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, service.ErrAdminProtected):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
