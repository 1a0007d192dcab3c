package handlers

import (
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"meetnow/models"
)

func (h *Handler) ListMessages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.store.ListMessages(c.Param("id"))})
}

type sendMessageRequest struct {
	From looseString `json:"from"`
	Text looseString `json:"text"`
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	from, text := req.From.trimmed(), req.Text.trimmed()
	if from == "" || text == "" {
		badRequest(c, "from and text are required")
		return
	}
	if utf8.RuneCountInString(text) > models.MaxMessageLength {
		badRequest(c, "text too long")
		return
	}

	msg, err := h.store.AppendMessage(c.Param("id"), from, text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}
