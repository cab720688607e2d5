package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mirna-salem/petprofiles/internal/application"
	"github.com/mirna-salem/petprofiles/internal/platform/response"
)

// ProfileHandler handles HTTP requests for profile operations.
type ProfileHandler struct {
	service *application.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(service *application.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// RegisterRoutes registers all profile routes on an already guarded group.
func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	profiles := r.Group("/profiles")
	{
		profiles.GET("", h.ListProfiles)
		profiles.GET("/:id", h.GetProfile)
		profiles.POST("", h.CreateProfile)
		profiles.PUT("/:id", h.UpdateProfile)
		profiles.DELETE("/:id", h.DeleteProfile)
	}
}

// ListProfiles handles GET /profiles.
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	result, err := h.service.ListProfiles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetProfile handles GET /profiles/:id.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id, ok := parseProfileID(c)
	if !ok {
		return
	}

	result, err := h.service.GetProfile(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateProfile handles POST /profiles.
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req application.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateProfile(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateProfile handles PUT /profiles/:id.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	id, ok := parseProfileID(c)
	if !ok {
		return
	}

	var req application.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.UpdateProfile(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteProfile handles DELETE /profiles/:id.
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	id, ok := parseProfileID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteProfile(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func parseProfileID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid profile ID")
		return 0, false
	}
	return id, true
}
