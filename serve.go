package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"meetnow/audit"
	"meetnow/config"
	"meetnow/handlers"
	"meetnow/logger"
	"meetnow/metrics"
	"meetnow/routes"
	"meetnow/schedule"
	"meetnow/store"
	"meetnow/websocket"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	bootLog := logger.New("meetnow")
	cfg, err := config.New(bootLog)
	if err != nil {
		return err
	}

	log := logger.NewWithOptions("meetnow", logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Info().Msg("Starting meetnow server")

	gin.SetMode(cfg.GinMode)

	hub := websocket.NewHub(cfg.HeartbeatInterval, log)
	hubCtx, stopHub := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go func() {
		hub.Run(hubCtx)
		close(hubDone)
	}()

	boundary := cfg.ResetBoundary()
	st := store.New(
		store.WithBroadcaster(hub),
		store.WithGridMeters(cfg.GridMeters),
		store.WithResetBoundary(boundary),
		store.WithLogger(log),
	)
	if cfg.SeedDemoUsers {
		n := st.SeedDemoUsers()
		log.Info().Int("users", n).Msg("Seeded demo users")
	}

	sink, err := audit.New(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
	if err != nil {
		stopHub()
		return errors.Wrap(err, "report audit sink")
	}

	scheduler := schedule.NewScheduler(boundary, func(context.Context) error {
		st.ResetAll(store.ResetAuto)
		metrics.ResetsTotal.WithLabelValues(store.ResetAuto).Inc()
		return nil
	}, log)
	scheduler.Start(ctx)
	if next, ok := scheduler.NextRun(); ok {
		log.Info().Time("next_reset", next).Msg("Daily reset scheduled")
	}

	h := handlers.New(st, sink, hub, log)
	router := routes.SetupRouter(h, hub.ServeWS, routes.Options{
		AllowedOrigins:     cfg.AllowedOrigins(),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Log:                log,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
	case err := <-serveErr:
		if err != nil {
			log.Error().Stack().Err(err).Msg("Server error")
		}
	}

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
	stopHub()
	<-hubDone

	if err := sink.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to close audit sink")
	}

	log.Info().Msg("Server stopped gracefully")
	return nil
}
