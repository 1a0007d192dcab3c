package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type createProposalRequest struct {
	From looseString `json:"from"`
	To   looseString `json:"to"`
}

func (h *Handler) CreateProposal(c *gin.Context) {
	var req createProposalRequest
	if !bindJSON(c, &req) {
		return
	}

	from, to := req.From.trimmed(), req.To.trimmed()
	if from == "" || to == "" {
		badRequest(c, "from and to are required")
		return
	}

	proposal, err := h.store.CreateProposal(from, to)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, proposal)
}

func (h *Handler) ListProposals(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		badRequest(c, "userId is required")
		return
	}
	c.JSON(http.StatusOK, h.store.ListProposalsForUser(userID))
}

type acceptProposalRequest struct {
	AccepterID looseString `json:"accepterId"`
	UserID     looseString `json:"userId"`
}

// AcceptProposal turns a pending proposal into a match. Only the recipient
// may accept; accepting twice returns the same match.
func (h *Handler) AcceptProposal(c *gin.Context) {
	var req acceptProposalRequest
	if !bindJSON(c, &req) {
		return
	}

	accepterID := req.AccepterID.trimmed()
	if accepterID == "" {
		accepterID = req.UserID.trimmed()
	}
	if accepterID == "" {
		badRequest(c, "accepterId is required")
		return
	}

	match, err := h.store.AcceptProposal(c.Param("id"), accepterID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, match)
}
