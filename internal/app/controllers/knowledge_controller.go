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

// KnowledgeController handles knowledge base operations
type KnowledgeController struct {
	knowledgeService *services.KnowledgeService
	logger           zerolog.Logger
}

// NewKnowledgeController creates a new KnowledgeController
func NewKnowledgeController(knowledgeService *services.KnowledgeService, logger zerolog.Logger) *KnowledgeController {
	return &KnowledgeController{
		knowledgeService: knowledgeService,
		logger:           logger,
	}
}

// Create submits a new knowledge item
// @Summary Create a knowledge item
// @Description Stores a PENDING item and enqueues background enrichment; returns immediately with a job id
// @Tags knowledge
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateKnowledgeItemRequest true "Knowledge item"
// @Success 201 {object} dto.APIResponse{data=dto.KnowledgeItemResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing title or unknown source type"
// @Router /knowledge [post]
func (c *KnowledgeController) Create(ctx *gin.Context) {
	identity, _ := middleware.GetIdentity(ctx)

	var req dto.CreateKnowledgeItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	item, err := c.knowledgeService.Create(ctx.Request.Context(), identity, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(item))
}

// List lists knowledge items
// @Summary List knowledge items
// @Tags knowledge
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.KnowledgeListResponse}
// @Router /knowledge [get]
func (c *KnowledgeController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	items, err := c.knowledgeService.List(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(items))
}

// GetByID fetches one knowledge item
// @Summary Get a knowledge item
// @Tags knowledge
// @Produce json
// @Security BearerAuth
// @Param id path int true "Knowledge item ID"
// @Success 200 {object} dto.APIResponse{data=dto.KnowledgeItemResponse}
// @Failure 404 {object} dto.ErrorResponse "Item not found"
// @Router /knowledge/{id} [get]
func (c *KnowledgeController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	item, err := c.knowledgeService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(item))
}

// JobStatus returns the enrichment job of a knowledge item
// @Summary Enrichment job status
// @Description State of the background enrichment job linked to the item
// @Tags knowledge
// @Produce json
// @Security BearerAuth
// @Param id path int true "Knowledge item ID"
// @Success 200 {object} dto.APIResponse{data=dto.EnrichmentJobResponse}
// @Failure 404 {object} dto.ErrorResponse "Item or job not found"
// @Router /knowledge/{id}/job [get]
func (c *KnowledgeController) JobStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	job, err := c.knowledgeService.JobStatus(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(job))
}
