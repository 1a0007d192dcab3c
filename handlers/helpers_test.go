package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"meetnow/models"
	"meetnow/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// recordingSink keeps archived reports and can be told to fail.
type recordingSink struct {
	mu      sync.Mutex
	reports []models.Report
	err     error
}

func (s *recordingSink) Record(_ context.Context, r models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.reports = append(s.reports, r)
	return nil
}

func (s *recordingSink) Close(context.Context) error { return nil }

type fixedClients int

func (n fixedClients) Clients() int { return int(n) }

type testAPI struct {
	router *gin.Engine
	store  *store.Store
	sink   *recordingSink
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	n := 0
	var mu sync.Mutex
	s := store.New(store.WithIDGenerator(func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%03d", n)
	}))
	sink := &recordingSink{}
	h := New(s, sink, fixedClients(2), zerolog.Nop())

	r := gin.New()
	api := r.Group("/api")
	api.GET("/users", h.ListUsers)
	api.POST("/users", h.UpsertUser)
	api.GET("/users/:id", h.GetUser)
	api.POST("/presences", h.SetPresence)
	api.DELETE("/presences/:userId", h.RemovePresence)
	api.GET("/nearby", h.ListNearby)
	api.POST("/proposals", h.CreateProposal)
	api.GET("/proposals", h.ListProposals)
	api.POST("/proposals/:id/accept", h.AcceptProposal)
	api.GET("/matches", h.ListMatches)
	api.POST("/matches", h.CreateMatch)
	api.POST("/matches/:id/close", h.CloseMatch)
	api.GET("/matches/:id/messages", h.ListMessages)
	api.POST("/matches/:id/messages", h.SendMessage)
	api.POST("/reports", h.CreateReport)
	api.POST("/reset", h.Reset)
	api.GET("/location-presets", h.LocationPresets)
	api.GET("/health", h.Health)

	return &testAPI{router: r, store: s, sink: sink}
}

func (a *testAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *testAPI) mustUser(t *testing.T, id, nickname string) {
	t.Helper()
	a.store.UpsertUser(store.UserInput{ID: id, Nickname: nickname})
}
