package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/edulink/mentorhub/internal/app/models/dto"
	"github.com/edulink/mentorhub/internal/app/services"
	"github.com/edulink/mentorhub/internal/middleware"
	"github.com/edulink/mentorhub/internal/pkg/helpers"
)

// AnnouncementController handles announcement operations
type AnnouncementController struct {
	announcementService *services.AnnouncementService
	logger              zerolog.Logger
}

// NewAnnouncementController creates a new AnnouncementController
func NewAnnouncementController(announcementService *services.AnnouncementService, logger zerolog.Logger) *AnnouncementController {
	return &AnnouncementController{
		announcementService: announcementService,
		logger:              logger,
	}
}

// List lists announcements
// @Summary List announcements
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category filter" Enums(GENERAL, EVENTS, TECHNEWS)
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.AnnouncementListResponse}
// @Router /announcements [get]
func (c *AnnouncementController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	filter := &dto.AnnouncementFilterRequest{Page: page, PageSize: size}
	if cat := ctx.Query("category"); cat != "" {
		filter.Category = &cat
	}

	announcements, err := c.announcementService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(announcements))
}

// Create adds a manual announcement
// @Summary Create an announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAnnouncementRequest true "Announcement"
// @Success 201 {object} dto.APIResponse{data=dto.AnnouncementResponse}
// @Failure 400 {object} dto.ErrorResponse "Unknown category or bad event link"
// @Router /announcements [post]
func (c *AnnouncementController) Create(ctx *gin.Context) {
	identity, _ := middleware.GetIdentity(ctx)

	var req dto.CreateAnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	announcement, err := c.announcementService.Create(ctx.Request.Context(), identity, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(announcement))
}

// RefreshTechNews triggers a tech news ingestion run
// @Summary Refresh tech news
// @Description Pulls one page of top stories and inserts the ones not seen before
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.TechNewsRefreshResponse}
// @Failure 500 {object} dto.ErrorResponse "Feed unavailable"
// @Router /announcements/technews/refresh [post]
func (c *AnnouncementController) RefreshTechNews(ctx *gin.Context) {
	result, err := c.announcementService.RefreshTechNews(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Tech news refresh failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}
