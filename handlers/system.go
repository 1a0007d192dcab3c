package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meetnow/geo"
	"meetnow/metrics"
	"meetnow/store"
)

// Reset clears all ephemeral state immediately.
func (h *Handler) Reset(c *gin.Context) {
	at := h.store.ResetAll(store.ResetManual)
	metrics.ResetsTotal.WithLabelValues(store.ResetManual).Inc()
	c.JSON(http.StatusOK, gin.H{"ok": true, "lastResetAt": at})
}

func (h *Handler) LocationPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": geo.Presets()})
}

func (h *Handler) Health(c *gin.Context) {
	resp := gin.H{
		"status": "ok",
		"stats":  h.store.Stats(),
	}
	if h.clients != nil {
		resp["clients"] = h.clients.Clients()
	}
	c.JSON(http.StatusOK, resp)
}
