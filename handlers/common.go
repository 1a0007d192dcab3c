package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"meetnow/audit"
	"meetnow/store"
)

// ClientCounter reports how many realtime subscribers are connected.
type ClientCounter interface {
	Clients() int
}

// Handler serves the JSON API on top of a Store.
type Handler struct {
	store   *store.Store
	audit   audit.Sink
	clients ClientCounter
	log     zerolog.Logger
}

func New(s *store.Store, sink audit.Sink, clients ClientCounter, log zerolog.Logger) *Handler {
	if sink == nil {
		sink = audit.Nop{}
	}
	return &Handler{
		store:   s,
		audit:   sink,
		clients: clients,
		log:     log.With().Str("component", "http").Logger(),
	}
}

// respondError maps store errors onto HTTP statuses. Unknown errors are
// logged and hidden behind a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, store.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrInvalidState):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.log.Error().Stack().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// bindJSON decodes the body into req, treating an empty body as {}.
func bindJSON(c *gin.Context, req any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		badRequest(c, "invalid request body")
		return false
	}
	return true
}

// looseString accepts a JSON string or number and keeps its text form.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

func (s looseString) trimmed() string {
	return strings.TrimSpace(string(s))
}

// looseFloat accepts a JSON number or a numeric string. Anything else, an
// empty string included, leaves it unset.
type looseFloat struct {
	value float64
	set   bool
}

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.value, f.set = toFloat(raw)
	return nil
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case string:
		return parseFloat(v)
	}
	return 0, false
}

// parseFloat parses a finite number after trimming; blank is not a number.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// tagList accepts either an array or a comma separated string. Entries are
// trimmed and empty ones dropped.
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var parts []string
	switch v := raw.(type) {
	case []any:
		for _, item := range v {
			switch x := item.(type) {
			case string:
				parts = append(parts, x)
			case float64:
				parts = append(parts, strconv.FormatFloat(x, 'f', -1, 64))
			case bool:
				parts = append(parts, strconv.FormatBool(x))
			}
		}
	case string:
		parts = strings.Split(v, ",")
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*t = out
	return nil
}

// truncateRunes cuts s to at most n characters.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
