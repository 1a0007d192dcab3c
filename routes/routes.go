package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"meetnow/handlers"
	"meetnow/middleware"
)

// Options carries what the router needs beyond the handlers.
type Options struct {
	AllowedOrigins     []string
	RateLimitPerMinute int
	Log                zerolog.Logger
}

// SetupRouter wires the JSON API, the realtime endpoint and the operational
// endpoints. ws serves the websocket upgrade.
func SetupRouter(h *handlers.Handler, ws http.HandlerFunc, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(opts.Log))
	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", gin.WrapF(ws))

	api := router.Group("/api")
	api.Use(middleware.RateLimitMiddleware(opts.RateLimitPerMinute))

	api.GET("/health", h.Health)

	// Users
	api.GET("/users", h.ListUsers)
	api.POST("/users", h.UpsertUser)
	api.GET("/users/:id", h.GetUser)

	// Presence
	api.POST("/presences", h.SetPresence)
	api.DELETE("/presences/:userId", h.RemovePresence)
	api.GET("/nearby", h.ListNearby)
	api.GET("/location-presets", h.LocationPresets)

	// Proposals
	api.POST("/proposals", h.CreateProposal)
	api.GET("/proposals", h.ListProposals)
	api.POST("/proposals/:id/accept", h.AcceptProposal)

	// Matches
	api.GET("/matches", h.ListMatches)
	api.POST("/matches", h.CreateMatch)
	api.POST("/matches/:id/close", h.CloseMatch)

	// Messages
	api.GET("/matches/:id/messages", h.ListMessages)
	api.POST("/matches/:id/messages", h.SendMessage)

	// Moderation
	api.POST("/reports", h.CreateReport)
	api.POST("/reset", h.Reset)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.String(http.StatusNotFound, "404 page not found")
	})

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
