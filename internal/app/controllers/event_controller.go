package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/edulink/mentorhub/internal/app/models/dto"
	"github.com/edulink/mentorhub/internal/app/services"
	"github.com/edulink/mentorhub/internal/middleware"
)

// EventController handles event operations
type EventController struct {
	eventService *services.EventService
	logger       zerolog.Logger
}

// NewEventController creates a new EventController
func NewEventController(eventService *services.EventService, logger zerolog.Logger) *EventController {
	return &EventController{
		eventService: eventService,
		logger:       logger,
	}
}

// Create adds a new event
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse}
// @Failure 400 {object} dto.ErrorResponse "Past date or missing fields"
// @Router /events [post]
func (c *EventController) Create(ctx *gin.Context) {
	identity, _ := middleware.GetIdentity(ctx)

	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	event, err := c.eventService.Create(ctx.Request.Context(), identity, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(event))
}

// List splits events into upcoming and past
// @Summary List events
// @Description All events split into upcoming and past relative to the request time
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.EventListResponse}
// @Router /events [get]
func (c *EventController) List(ctx *gin.Context) {
	events, err := c.eventService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(events))
}

// Delete cancels an event
// @Summary Cancel an event
// @Description Hard-deletes an event with its registrations; organizer or admin only
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Not the organizer"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [delete]
func (c *EventController) Delete(ctx *gin.Context) {
	identity, _ := middleware.GetIdentity(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.eventService.Delete(ctx.Request.Context(), identity, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
}

// Register signs the caller up for an event
// @Summary Register for an event
// @Description Idempotent: repeated registration returns the original row
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationResponse}
// @Failure 400 {object} dto.ErrorResponse "Past event"
// @Failure 403 {object} dto.ErrorResponse "Organizer self-registration"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/register [post]
func (c *EventController) Register(ctx *gin.Context) {
	identity, _ := middleware.GetIdentity(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	registration, err := c.eventService.Register(ctx.Request.Context(), identity, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(registration))
}
