package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitaltrack/backend/internal/service"
)

type SleepHandler struct {
	sleep *service.SleepService
}

func NewSleepHandler(sleep *service.SleepService) *SleepHandler {
	return &SleepHandler{sleep: sleep}
}

func (h *SleepHandler) RegisterRoutes(router *gin.RouterGroup) {
	sleep := router.Group("/sleep")
	{
		sleep.POST("", h.Create)
		sleep.GET("", h.List)
		sleep.GET("/series/weekly", h.WeeklySeries)
		sleep.GET("/average", h.Average)
		sleep.GET("/:id", h.Get)
		sleep.PUT("/:id", h.Update)
		sleep.DELETE("/:id", h.Delete)
	}
}

type createSleepRequest struct {
	service.SleepInput
	SleepDate string `json:"sleep_date"`
}

func (h *SleepHandler) Create(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var req createSleepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, ok := parseBodyDate(c, req.SleepDate)
	if !ok {
		return
	}
	req.SleepInput.SleepDate = date

	record, err := h.sleep.Create(user, req.SleepInput)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create sleep record"})
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *SleepHandler) List(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	records, err := h.sleep.List(user.ID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sleep records"})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *SleepHandler) Get(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	record, err := h.sleep.Get(user.ID, id)
	if err != nil {
		writeRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

type updateSleepRequest struct {
	service.SleepUpdate
	SleepDate string `json:"sleep_date"`
}

func (h *SleepHandler) Update(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateSleepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, ok := parseBodyDate(c, req.SleepDate)
	if !ok {
		return
	}
	req.SleepUpdate.SleepDate = date

	record, err := h.sleep.Update(user, id, req.SleepUpdate)
	if err != nil {
		writeRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *SleepHandler) Delete(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.sleep.Delete(user, id); err != nil {
		writeRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sleep record deleted"})
}

func (h *SleepHandler) WeeklySeries(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	series, err := h.sleep.WeeklySeries(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build series"})
		return
	}
	c.JSON(http.StatusOK, series)
}

func (h *SleepHandler) Average(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	days := queryInt(c, "days", 7)
	if days <= 0 || days > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 365"})
		return
	}

	avg, err := h.sleep.Average(user.ID, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute average"})
		return
	}
	c.JSON(http.StatusOK, avg)
}
