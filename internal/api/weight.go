package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitaltrack/backend/internal/service"
)

type WeightHandler struct {
	weight *service.WeightService
}

func NewWeightHandler(weight *service.WeightService) *WeightHandler {
	return &WeightHandler{weight: weight}
}

func (h *WeightHandler) RegisterRoutes(router *gin.RouterGroup) {
	weight := router.Group("/weight")
	{
		weight.POST("", h.Create)
		weight.GET("", h.List)
		weight.GET("/trend", h.Trend)
		weight.GET("/:id", h.Get)
		weight.PUT("/:id", h.Update)
		weight.DELETE("/:id", h.Delete)
	}
}

type createWeightRequest struct {
	service.WeightInput
	LogDate string `json:"log_date"`
}

func (h *WeightHandler) Create(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var req createWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, ok := parseBodyDate(c, req.LogDate)
	if !ok {
		return
	}
	req.WeightInput.LogDate = date

	log, err := h.weight.Create(user, req.WeightInput)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log weight"})
		return
	}
	c.JSON(http.StatusCreated, log)
}

func (h *WeightHandler) List(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	logs, err := h.weight.List(user.ID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list weight logs"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *WeightHandler) Get(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	log, err := h.weight.Get(user.ID, id)
	if err != nil {
		writeRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

type updateWeightRequest struct {
	service.WeightUpdate
	LogDate string `json:"log_date"`
}

func (h *WeightHandler) Update(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, ok := parseBodyDate(c, req.LogDate)
	if !ok {
		return
	}
	req.WeightUpdate.LogDate = date

	log, err := h.weight.Update(user, id, req.WeightUpdate)
	if err != nil {
		writeRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *WeightHandler) Delete(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.weight.Delete(user, id); err != nil {
		writeRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "weight log deleted"})
}

func (h *WeightHandler) Trend(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	days := queryInt(c, "days", 30)
	if days <= 0 || days > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 365"})
		return
	}

	trend, err := h.weight.Trend(user.ID, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build trend"})
		return
	}
	c.JSON(http.StatusOK, trend)
}
