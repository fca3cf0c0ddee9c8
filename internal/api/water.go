package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitaltrack/backend/internal/service"
)

type WaterHandler struct {
	water *service.WaterService
}

func NewWaterHandler(water *service.WaterService) *WaterHandler {
	return &WaterHandler{water: water}
}

func (h *WaterHandler) RegisterRoutes(router *gin.RouterGroup) {
	water := router.Group("/water")
	{
		water.POST("", h.Create)
		water.GET("", h.List)
		water.GET("/summary/daily", h.DailyTotal)
		water.GET("/series/weekly", h.WeeklySeries)
		water.GET("/:id", h.Get)
		water.PUT("/:id", h.Update)
		water.DELETE("/:id", h.Delete)
	}
}

type createWaterRequest struct {
	service.WaterInput
	IntakeDate string `json:"intake_date"`
}

func (h *WaterHandler) Create(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var req createWaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, ok := parseBodyDate(c, req.IntakeDate)
	if !ok {
		return
	}
	req.WaterInput.IntakeDate = date

	intake, err := h.water.Create(user, req.WaterInput)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log water intake"})
		return
	}
	c.JSON(http.StatusCreated, intake)
}

func (h *WaterHandler) List(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	intakes, err := h.water.List(user.ID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list water intake"})
		return
	}
	c.JSON(http.StatusOK, intakes)
}

func (h *WaterHandler) Get(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	intake, err := h.water.Get(user.ID, id)
	if err != nil {
		writeRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, intake)
}

type updateWaterRequest struct {
	service.WaterUpdate
	IntakeDate string `json:"intake_date"`
}

func (h *WaterHandler) Update(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateWaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, ok := parseBodyDate(c, req.IntakeDate)
	if !ok {
		return
	}
	req.WaterUpdate.IntakeDate = date

	intake, err := h.water.Update(user, id, req.WaterUpdate)
	if err != nil {
		writeRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, intake)
}

func (h *WaterHandler) Delete(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.water.Delete(user, id); err != nil {
		writeRecordError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "water intake deleted"})
}

func (h *WaterHandler) DailyTotal(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	date, ok := queryDate(c, "date", timeNow())
	if !ok {
		return
	}

	total, err := h.water.DailyTotal(user.ID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}
	c.JSON(http.StatusOK, total)
}

func (h *WaterHandler) WeeklySeries(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	series, err := h.water.WeeklySeries(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build series"})
		return
	}
	c.JSON(http.StatusOK, series)
}
