package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"meetnow/models"
)

// recorder captures every broadcast event.
type recorder struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *recorder) Broadcast(evt models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recorder) all() []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Event(nil), r.events...)
}

func (r *recorder) types() []models.EventType {
	var out []models.EventType
	for _, e := range r.all() {
		out = append(out, e.Type)
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// stepClock advances by one second on every read so each stamp is distinct.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%03d", n)
	}
}

func newTestStore(t *testing.T) (*Store, *recorder) {
	t.Helper()
	rec := &recorder{}
	clock := &stepClock{now: time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)}
	s := New(
		WithBroadcaster(rec),
		WithClock(clock.Now),
		WithIDGenerator(sequentialIDs()),
	)
	return s, rec
}

func mustUser(t *testing.T, s *Store, id string, tags ...string) models.UserProfile {
	t.Helper()
	return s.UpsertUser(UserInput{ID: id, Nickname: id, Tags: tags})
}
