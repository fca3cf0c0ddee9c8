package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitaltrack/backend/internal/service"
)

// Profile pictures are capped well below typical body limits; anything larger
// is rejected before touching S3.
const maxProfilePictureBytes = 5 << 20

// ProfileHandler serves the self-service profile endpoints.
type ProfileHandler struct {
	users   *service.UserService
	storage *service.StorageService
}

func NewProfileHandler(users *service.UserService, storage *service.StorageService) *ProfileHandler {
	return &ProfileHandler{users: users, storage: storage}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.Get)
		profile.PUT("", h.Update)
		profile.POST("/picture", h.UploadPicture)
	}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "bmi": user.BMI()})
}

type updateProfileRequest struct {
	service.ProfileUpdate
	DateOfBirth string `json:"date_of_birth"`
}

func (h *ProfileHandler) Update(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	dob, ok := parseBodyDate(c, req.DateOfBirth)
	if !ok {
		return
	}
	req.ProfileUpdate.DateOfBirth = dob

	updated, err := h.users.UpdateProfile(user, user.ID, req.ProfileUpdate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ProfileHandler) UploadPicture(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "picture storage not configured"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}
	if fileHeader.Size > maxProfilePictureBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
		return
	}

	url, err := h.storage.UploadProfilePicture(c.Request.Context(), user.ID, data, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload picture"})
		return
	}
	if err := h.users.SetProfilePicture(user, url); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save picture url"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile_picture_url": url})
}
