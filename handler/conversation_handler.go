package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/docs-chat-be/database"
	"github.com/tieubaoca/docs-chat-be/types"
)

type ConversationHandler struct {
	store database.ConversationStore
}

func NewConversationHandler(store database.ConversationStore) *ConversationHandler {
	return &ConversationHandler{
		store: store,
	}
}

func (h *ConversationHandler) HandleListConversations(c *gin.Context) {
	conversations, err := h.store.ListConversations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to list conversations: " + err.Error()})
		return
	}
	if conversations == nil {
		conversations = []database.Conversation{}
	}
	c.JSON(http.StatusOK, types.DataResponse{Status: "success", Data: conversations})
}

func (h *ConversationHandler) HandleGetMessages(c *gin.Context) {
	conversationID := c.Param("id")
	messages, err := h.store.GetMessages(c.Request.Context(), conversationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to get messages: " + err.Error()})
		return
	}
	if messages == nil {
		messages = []database.ChatMessage{}
	}
	c.JSON(http.StatusOK, types.DataResponse{Status: "success", Data: messages})
}
