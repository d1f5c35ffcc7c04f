package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/docs-chat-be/service"
	"github.com/tieubaoca/docs-chat-be/types"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// HandleChat processes a chat message and returns the assistant response.
// Bad input returns 400; persistence failures return 500. Generation and
// retrieval problems never reach here, the service resolves them internally.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.chatService.HandleMessage(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, types.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
