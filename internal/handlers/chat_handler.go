package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/happenings/internal/models"
	"github.com/joshua-takyi/happenings/internal/services"
)

type sendMessageRequest struct {
	Content string `json:"content"`
}

func ListChats(cs *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		chats := cs.Chats(viewerFrom(c).ID)
		c.JSON(http.StatusOK, models.ListResponse(chats, 0, len(chats)))
	}
}

func ListMessages(cs *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		messages, err := cs.Messages(viewerFrom(c).ID, paramID(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(messages, 0, len(messages)))
	}
}

func SendMessage(cs *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		msg, err := cs.SendMessage(viewerFrom(c), paramID(c), req.Content)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(msg, "Message sent"))
	}
}
