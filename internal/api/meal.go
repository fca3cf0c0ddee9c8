package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitaltrack/backend/internal/service"
)

type MealHandler struct {
	meals *service.MealService
}

func NewMealHandler(meals *service.MealService) *MealHandler {
	return &MealHandler{meals: meals}
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/meals")
	{
		meals.POST("", h.Create)
		meals.GET("", h.List)
		meals.GET("/summary/daily", h.DailySummary)
		meals.GET("/series/weekly", h.WeeklySeries)
		meals.GET("/:id", h.Get)
		meals.PUT("/:id", h.Update)
		meals.DELETE("/:id", h.Delete)
	}
}

type createMealRequest struct {
	service.MealInput
	MealDate string `json:"meal_date"`
}

func (h *MealHandler) Create(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var req createMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, ok := parseBodyDate(c, req.MealDate)
	if !ok {
		return
	}
	req.MealInput.MealDate = date

	meal, err := h.meals.Create(user, req.MealInput)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create meal"})
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (h *MealHandler) List(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	meals, err := h.meals.List(user.ID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list meals"})
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (h *MealHandler) Get(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	meal, err := h.meals.Get(user.ID, id)
	if err != nil {
		writeRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

type updateMealRequest struct {
	service.MealUpdate
	MealDate string `json:"meal_date"`
}

func (h *MealHandler) Update(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, ok := parseBodyDate(c, req.MealDate)
	if !ok {
		return
	}
	req.MealUpdate.MealDate = date

	meal, err := h.meals.Update(user, id, req.MealUpdate)
	if err != nil {
		writeRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) Delete(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.meals.Delete(user, id); err != nil {
		writeRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meal deleted"})
}

func (h *MealHandler) DailySummary(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	date, ok := queryDate(c, "date", timeNow())
	if !ok {
		return
	}

	summary, err := h.meals.DailySummary(user.ID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *MealHandler) WeeklySeries(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	series, err := h.meals.WeeklySeries(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build series"})
		return
	}
	c.JSON(http.StatusOK, series)
}
