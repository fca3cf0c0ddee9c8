package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitaltrack/backend/internal/service"
)

type WorkoutHandler struct {
	workouts *service.WorkoutService
}

func NewWorkoutHandler(workouts *service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workouts: workouts}
}

func (h *WorkoutHandler) RegisterRoutes(router *gin.RouterGroup) {
	workouts := router.Group("/workouts")
	{
		workouts.POST("", h.Create)
		workouts.GET("", h.List)
		workouts.GET("/summary/weekly", h.WeeklySummary)
		workouts.GET("/summary/daily", h.DailySummary)
		workouts.GET("/series/weekly", h.WeeklySeries)
		workouts.GET("/:id", h.Get)
		workouts.PUT("/:id", h.Update)
		workouts.DELETE("/:id", h.Delete)
	}
}

type createWorkoutRequest struct {
	service.WorkoutInput
	WorkoutDate string `json:"workout_date"`
}

func (h *WorkoutHandler) Create(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var req createWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, ok := parseBodyDate(c, req.WorkoutDate)
	if !ok {
		return
	}
	req.WorkoutInput.WorkoutDate = date

	workout, err := h.workouts.Create(user, req.WorkoutInput)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create workout"})
		return
	}
	c.JSON(http.StatusCreated, workout)
}

func (h *WorkoutHandler) List(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	workouts, err := h.workouts.List(user.ID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list workouts"})
		return
	}
	c.JSON(http.StatusOK, workouts)
}

func (h *WorkoutHandler) Get(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	workout, err := h.workouts.Get(user.ID, id)
	if err != nil {
		writeRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

type updateWorkoutRequest struct {
	service.WorkoutUpdate
	WorkoutDate string `json:"workout_date"`
}

func (h *WorkoutHandler) Update(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, ok := parseBodyDate(c, req.WorkoutDate)
	if !ok {
		return
	}
	req.WorkoutUpdate.WorkoutDate = date

	workout, err := h.workouts.Update(user, id, req.WorkoutUpdate)
	if err != nil {
		writeRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

func (h *WorkoutHandler) Delete(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.workouts.Delete(user, id); err != nil {
		writeRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "workout deleted"})
}

func (h *WorkoutHandler) WeeklySummary(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	summary, err := h.workouts.WeeklySummary(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *WorkoutHandler) DailySummary(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	date, ok := queryDate(c, "date", timeNow())
	if !ok {
		return
	}

	summary, err := h.workouts.DailySummary(user.ID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *WorkoutHandler) WeeklySeries(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	series, err := h.workouts.WeeklySeries(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build series"})
		return
	}
	c.JSON(http.StatusOK, series)
}
