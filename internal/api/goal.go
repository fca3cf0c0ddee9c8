package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitaltrack/backend/internal/service"
)

type GoalHandler struct {
	goals *service.GoalService
}

func NewGoalHandler(goals *service.GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

func (h *GoalHandler) RegisterRoutes(router *gin.RouterGroup) {
	goals := router.Group("/goals")
	{
		goals.POST("", h.Create)
		goals.GET("", h.List)
		goals.GET("/:id", h.Get)
		goals.GET("/:id/progress", h.Progress)
		goals.PUT("/:id", h.Update)
		goals.DELETE("/:id", h.Delete)
	}
}

type createGoalRequest struct {
	service.GoalInput
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (h *GoalHandler) Create(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	start, ok := parseBodyDate(c, req.StartDate)
	if !ok {
		return
	}
	end, ok := parseBodyDate(c, req.EndDate)
	if !ok {
		return
	}
	req.GoalInput.StartDate = start
	req.GoalInput.EndDate = end

	goal, err := h.goals.Create(user, req.GoalInput)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create goal"})
		return
	}
	c.JSON(http.StatusCreated, goal)
}

func (h *GoalHandler) List(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	activeOnly := c.Query("active_only") == "true"

	goals, err := h.goals.List(user.ID, activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list goals"})
		return
	}
	c.JSON(http.StatusOK, goals)
}

func (h *GoalHandler) Get(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	goal, err := h.goals.Get(user.ID, id)
	if err != nil {
		writeRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

type updateGoalRequest struct {
	service.GoalUpdate
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (h *GoalHandler) Update(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	start, ok := parseBodyDate(c, req.StartDate)
	if !ok {
		return
	}
	end, ok := parseBodyDate(c, req.EndDate)
	if !ok {
		return
	}
	req.GoalUpdate.StartDate = start
	req.GoalUpdate.EndDate = end

	goal, err := h.goals.Update(user, id, req.GoalUpdate)
	if err != nil {
		writeRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

func (h *GoalHandler) Delete(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.goals.Delete(user, id); err != nil {
		writeRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "goal deleted"})
}

func (h *GoalHandler) Progress(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	report, err := h.goals.Progress(user.ID, id)
	if err != nil {
		writeRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
