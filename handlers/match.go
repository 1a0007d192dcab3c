package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListMatches(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		badRequest(c, "userId is required")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": h.store.ListMatchesForUser(userID)})
}

type createMatchRequest struct {
	UserA looseString `json:"userA"`
	UserB looseString `json:"userB"`
}

// CreateMatch pairs two users without a proposal, reusing their open match.
func (h *Handler) CreateMatch(c *gin.Context) {
	var req createMatchRequest
	if !bindJSON(c, &req) {
		return
	}

	a, b := req.UserA.trimmed(), req.UserB.trimmed()
	if a == "" || b == "" {
		badRequest(c, "userA and userB are required")
		return
	}
	if a == b {
		badRequest(c, "cannot match a user with themselves")
		return
	}
	c.JSON(http.StatusCreated, h.store.CreateMatch(a, b))
}

func (h *Handler) CloseMatch(c *gin.Context) {
	closed := h.store.CloseMatch(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"ok": true, "closed": closed})
}
