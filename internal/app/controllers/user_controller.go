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

// UserController handles profile and mentor directory operations
type UserController struct {
	userService *services.UserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

// GetProfile returns the caller's own profile
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /users/me [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	identity, _ := middleware.GetIdentity(ctx)

	profile, err := c.userService.GetProfile(ctx.Request.Context(), identity.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// UpdateProfile patches the caller's profile fields
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse "No fields or empty names"
// @Router /users/me [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	identity, _ := middleware.GetIdentity(ctx)

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	profile, err := c.userService.UpdateProfile(ctx.Request.Context(), identity, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// UpdateSkills replaces the caller's skill tags
// @Summary Replace own skills
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateSkillsRequest true "Skill tags"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid skills payload"
// @Router /users/me/skills [put]
func (c *UserController) UpdateSkills(ctx *gin.Context) {
	identity, _ := middleware.GetIdentity(ctx)

	var req dto.UpdateSkillsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	profile, err := c.userService.UpdateSkills(ctx.Request.Context(), identity, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// ListMentors lists active mentors
// @Summary List mentors
// @Description Paginated mentor directory, optionally filtered by one skill tag
// @Tags mentors
// @Produce json
// @Security BearerAuth
// @Param skill query string false "Skill tag filter"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.MentorListResponse}
// @Router /mentors [get]
func (c *UserController) ListMentors(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	var skill *string
	if s := ctx.Query("skill"); s != "" {
		skill = &s
	}

	mentors, err := c.userService.ListMentors(ctx.Request.Context(), skill, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(mentors))
}
