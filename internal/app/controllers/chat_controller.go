package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/edulink/mentorhub/internal/app/models/dto"
	"github.com/edulink/mentorhub/internal/app/services"
	"github.com/edulink/mentorhub/internal/middleware"
)

// ChatController handles per-problem conversations
type ChatController struct {
	chatService *services.ChatService
	logger      zerolog.Logger
}

// NewChatController creates a new ChatController
func NewChatController(chatService *services.ChatService, logger zerolog.Logger) *ChatController {
	return &ChatController{
		chatService: chatService,
		logger:      logger,
	}
}

// GetMessages returns a problem's conversation history
// @Summary Conversation history
// @Description Full message history of the problem's conversation, ascending; empty if the chat has not started
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "Problem ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConversationResponse}
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 404 {object} dto.ErrorResponse "Problem not found"
// @Router /problems/{id}/messages [get]
func (c *ChatController) GetMessages(ctx *gin.Context) {
	identity, _ := middleware.GetIdentity(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	conversation, err := c.chatService.GetMessages(ctx.Request.Context(), identity, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(conversation))
}

// SendMessage appends a message to a problem's conversation
// @Summary Send a message
// @Description Appends an immutable message, creating the conversation on first use; requires an assigned mentor
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Problem ID"
// @Param request body dto.CreateMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 404 {object} dto.ErrorResponse "Problem not found or unassigned"
// @Router /problems/{id}/messages [post]
func (c *ChatController) SendMessage(ctx *gin.Context) {
	identity, _ := middleware.GetIdentity(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	message, err := c.chatService.SendMessage(ctx.Request.Context(), identity, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(message))
}
