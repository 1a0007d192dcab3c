package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meetnow/store"
)

type upsertUserRequest struct {
	ID          looseString `json:"id"`
	Nickname    looseString `json:"nickname"`
	Tags        tagList     `json:"tags"`
	Bio         string      `json:"bio"`
	Vibe        string      `json:"vibe"`
	Budget      string      `json:"budget"`
	AgeVerified *bool       `json:"ageVerified"`
}

// UpsertUser creates a profile (201) or replaces the one with the given id (200).
func (h *Handler) UpsertUser(c *gin.Context) {
	var req upsertUserRequest
	if !bindJSON(c, &req) {
		return
	}

	nickname := req.Nickname.trimmed()
	if nickname == "" {
		badRequest(c, "nickname is required")
		return
	}

	id := req.ID.trimmed()
	profile := h.store.UpsertUser(store.UserInput{
		ID:          id,
		Nickname:    nickname,
		Tags:        req.Tags,
		Bio:         req.Bio,
		Vibe:        req.Vibe,
		Budget:      req.Budget,
		AgeVerified: req.AgeVerified,
	})

	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	c.JSON(status, profile)
}

func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.store.GetUser(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.store.ListUsers()})
}
