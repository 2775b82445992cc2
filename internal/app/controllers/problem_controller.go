package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/edulink/mentorhub/internal/app/models/dto"
	"github.com/edulink/mentorhub/internal/app/services"
	"github.com/edulink/mentorhub/internal/middleware"
	"github.com/edulink/mentorhub/internal/pkg/helpers"
)

// ProblemController handles problem lifecycle operations
type ProblemController struct {
	problemService *services.ProblemService
	logger         zerolog.Logger
}

// NewProblemController creates a new ProblemController
func NewProblemController(problemService *services.ProblemService, logger zerolog.Logger) *ProblemController {
	return &ProblemController{
		problemService: problemService,
		logger:         logger,
	}
}

// parseIDParam reads a positive int64 path parameter
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid id parameter").WithField(name)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// Create posts a new problem
// @Summary Create a problem
// @Description Posts a new help request owned by the caller, starting OPEN
// @Tags problems
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProblemRequest true "Problem"
// @Success 201 {object} dto.APIResponse{data=dto.ProblemResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing title or description"
// @Router /problems [post]
func (c *ProblemController) Create(ctx *gin.Context) {
	identity, _ := middleware.GetIdentity(ctx)

	var req dto.CreateProblemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	problem, err := c.problemService.Create(ctx.Request.Context(), identity, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(problem))
}

// List lists problems with filters
// @Summary List problems
// @Tags problems
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter" Enums(OPEN, IN_PROGRESS, RESOLVED, CLOSED)
// @Param tag query string false "Tag filter"
// @Param mine query bool false "Only problems authored by the caller"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ProblemListResponse}
// @Router /problems [get]
func (c *ProblemController) List(ctx *gin.Context) {
	identity, _ := middleware.GetIdentity(ctx)
	page, size := helpers.ParsePaginationParams(ctx)

	filter := &dto.ProblemFilterRequest{Page: page, PageSize: size}
	if s := ctx.Query("status"); s != "" {
		filter.Status = &s
	}
	if t := ctx.Query("tag"); t != "" {
		filter.Tag = &t
	}
	if ctx.Query("mine") == "true" {
		filter.StudentID = &identity.UserID
	}

	problems, err := c.problemService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(problems))
}

// GetByID fetches one problem
// @Summary Get a problem
// @Tags problems
// @Produce json
// @Security BearerAuth
// @Param id path int true "Problem ID"
// @Success 200 {object} dto.APIResponse{data=dto.ProblemResponse}
// @Failure 404 {object} dto.ErrorResponse "Problem not found"
// @Router /problems/{id} [get]
func (c *ProblemController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	problem, err := c.problemService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(problem))
}

// Update patches a problem
// @Summary Update a problem
// @Description A patch carrying a status is applied by the assigned mentor; a patch without one edits content and is author-only
// @Tags problems
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Problem ID"
// @Param request body dto.UpdateProblemRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.ProblemResponse}
// @Failure 403 {object} dto.ErrorResponse "Wrong role or ownership"
// @Failure 404 {object} dto.ErrorResponse "Problem not found"
// @Router /problems/{id} [patch]
func (c *ProblemController) Update(ctx *gin.Context) {
	identity, _ := middleware.GetIdentity(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateProblemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	problem, err := c.problemService.Update(ctx.Request.Context(), identity, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(problem))
}

// Assign assigns the calling mentor to a problem
// @Summary Take a problem
// @Description Assigns the calling mentor; first assignment wins, repeats by the same mentor are no-ops
// @Tags problems
// @Produce json
// @Security BearerAuth
// @Param id path int true "Problem ID"
// @Success 200 {object} dto.APIResponse{data=dto.ProblemResponse}
// @Failure 400 {object} dto.ErrorResponse "Already assigned to another mentor"
// @Failure 404 {object} dto.ErrorResponse "Problem not found"
// @Router /problems/{id}/assign [post]
func (c *ProblemController) Assign(ctx *gin.Context) {
	identity, _ := middleware.GetIdentity(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	problem, err := c.problemService.AssignMentor(ctx.Request.Context(), identity, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(problem))
}

// MatchingMentors lists mentor candidates for a problem
// @Summary Matching mentors
// @Description Up to 5 mentors whose skills intersect the problem's tags, best overlap first
// @Tags problems
// @Produce json
// @Security BearerAuth
// @Param id path int true "Problem ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.MatchingMentorResponse}
// @Failure 404 {object} dto.ErrorResponse "Problem not found"
// @Router /problems/{id}/mentors [get]
func (c *ProblemController) MatchingMentors(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	mentors, err := c.problemService.MatchingMentors(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(mentors))
}
