// Package store holds every piece of presence, proposal, match and chat state
// in memory and enforces the rules between them. All methods are safe for
// concurrent use; each one runs under a single store-wide lock.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"meetnow/geo"
	"meetnow/models"
	"meetnow/schedule"
)

// Broadcaster receives every event the store emits. Broadcast is called with
// the store lock held and must not block.
type Broadcaster interface {
	Broadcast(evt models.Event)
}

// BroadcasterFunc adapts a function to Broadcaster.
type BroadcasterFunc func(evt models.Event)

func (f BroadcasterFunc) Broadcast(evt models.Event) { f(evt) }

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(models.Event) {}

type Store struct {
	mu sync.Mutex

	users     map[string]*models.UserProfile
	presences map[string]*models.Presence
	proposals map[string]*models.Proposal
	matches   map[string]*models.Match
	messages  map[string][]models.Message
	reports   []models.Report

	// order records insertion sequence so equal timestamps sort stably.
	order map[string]uint64
	seq   uint64

	lastResetAt *time.Time

	now         func() time.Time
	newID       func() string
	broadcaster Broadcaster
	gridMeters  float64
	boundary    schedule.Daily
	log         zerolog.Logger
}

type Option func(*Store)

// WithClock replaces time.Now. Times are converted to UTC.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func WithBroadcaster(b Broadcaster) Option {
	return func(s *Store) { s.broadcaster = b }
}

func WithGridMeters(m float64) Option {
	return func(s *Store) { s.gridMeters = m }
}

func WithResetBoundary(d schedule.Daily) Option {
	return func(s *Store) { s.boundary = d }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New returns an empty store. Call SeedDemoUsers to add the demo population.
func New(opts ...Option) *Store {
	s := &Store{
		users:       make(map[string]*models.UserProfile),
		presences:   make(map[string]*models.Presence),
		proposals:   make(map[string]*models.Proposal),
		matches:     make(map[string]*models.Match),
		messages:    make(map[string][]models.Message),
		order:       make(map[string]uint64),
		now:         time.Now,
		newID:       uuid.NewString,
		broadcaster: nopBroadcaster{},
		gridMeters:  geo.DefaultGridMeters,
		boundary:    schedule.DefaultDaily,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("component", "store").Logger()
	return s
}

// Stats is a point-in-time count of each collection.
type Stats struct {
	Users       int        `json:"users"`
	Presences   int        `json:"presences"`
	Proposals   int        `json:"proposals"`
	Matches     int        `json:"matches"`
	OpenMatches int        `json:"openMatches"`
	Messages    int        `json:"messages"`
	Reports     int        `json:"reports"`
	LastResetAt *time.Time `json:"lastResetAt,omitempty"`
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		Users:     len(s.users),
		Presences: len(s.presences),
		Proposals: len(s.proposals),
		Matches:   len(s.matches),
		Reports:   len(s.reports),
	}
	for _, m := range s.matches {
		if m.IsOpen() {
			st.OpenMatches++
		}
	}
	for _, thread := range s.messages {
		st.Messages += len(thread)
	}
	if s.lastResetAt != nil {
		at := *s.lastResetAt
		st.LastResetAt = &at
	}
	return st
}

func (s *Store) clock() time.Time {
	return s.now().UTC()
}

// track assigns the next insertion sequence to id.
func (s *Store) track(id string) {
	s.seq++
	s.order[id] = s.seq
}

// emit must be called with s.mu held so subscribers observe commit order.
func (s *Store) emit(evt models.Event) {
	s.broadcaster.Broadcast(evt)
}
