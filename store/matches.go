package store

import (
	"fmt"
	"sort"
	"time"

	"meetnow/models"
)

// CreateMatch pairs two users directly, bypassing proposals. It returns the
// open match for the pair if one exists. Unlike AcceptProposal it emits no
// event.
func (s *Store) CreateMatch(userA, userB string) models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createMatchLocked(userA, userB).Clone()
}

// CloseMatch ends a match. It reports false, and emits nothing, when the
// match is unknown or already closed.
func (s *Store) CloseMatch(matchID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.matches[matchID]
	if !ok || !m.IsOpen() {
		return false
	}
	s.closeMatchLocked(m, s.clock())
	return true
}

func (s *Store) GetMatch(matchID string) (models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.matches[matchID]
	if !ok {
		return models.Match{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	return m.Clone(), nil
}

// ListMatchesForUser returns open and closed matches involving userID,
// newest first.
func (s *Store) ListMatchesForUser(userID string) []models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Match{}
	for _, m := range s.matches {
		if m.Involves(userID) {
			out = append(out, m.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return s.order[out[i].ID] > s.order[out[j].ID]
	})
	return out
}

func (s *Store) findActiveMatchLocked(userA, userB string) *models.Match {
	for _, m := range s.matches {
		if m.IsOpen() && m.Pairs(userA, userB) {
			return m
		}
	}
	return nil
}

func (s *Store) createMatchLocked(userA, userB string) *models.Match {
	if m := s.findActiveMatchLocked(userA, userB); m != nil {
		return m
	}
	m := &models.Match{
		ID:        s.newID(),
		UserA:     userA,
		UserB:     userB,
		CreatedAt: s.clock(),
	}
	s.matches[m.ID] = m
	s.track(m.ID)

	s.log.Debug().Str("match_id", m.ID).Str("user_a", userA).Str("user_b", userB).Msg("match created")
	return m
}

// closeMatchLocked stamps m closed at the given instant and announces it.
func (s *Store) closeMatchLocked(m *models.Match, at time.Time) {
	m.ClosedAt = &at
	s.emit(models.Event{Type: models.EventMatchClosed, Payload: models.MatchClosed{MatchID: m.ID}})
}
