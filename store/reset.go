package store

import (
	"cmp"
	"slices"
	"time"

	"meetnow/models"
)

// Reset reasons.
const (
	ResetAuto   = "auto"
	ResetManual = "manual"
)

// ResetAll purges the ephemeral state: presences and proposals are dropped
// and open matches are closed, each with its own event, followed by a single
// reset:run. Users, closed matches, messages and reports survive. Running it
// twice in a row is harmless; the second run finds nothing to purge.
func (s *Store) ResetAll(reason string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()

	for _, userID := range s.sortedPresenceIDsLocked() {
		s.emit(models.Event{Type: models.EventPresenceRemove, Payload: models.PresenceRemoved{UserID: userID}})
	}
	removedPresences := len(s.presences)
	clear(s.presences)

	closed := 0
	for _, m := range s.sortedMatchesLocked() {
		if m.IsOpen() {
			s.closeMatchLocked(m, now)
			closed++
		}
	}

	purged := len(s.proposals)
	for id := range s.proposals {
		delete(s.order, id)
	}
	clear(s.proposals)

	s.lastResetAt = &now
	s.emit(models.Event{Type: models.EventResetRun, Payload: models.ResetRun{At: now, Reason: reason}})

	s.log.Info().
		Str("reason", reason).
		Int("presences", removedPresences).
		Int("matches_closed", closed).
		Int("proposals", purged).
		Msg("ephemeral state reset")
	return now
}

// LastResetAt reports when ResetAll last ran.
func (s *Store) LastResetAt() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastResetAt == nil {
		return time.Time{}, false
	}
	return *s.lastResetAt, true
}

func (s *Store) sortedPresenceIDsLocked() []string {
	ids := make([]string, 0, len(s.presences))
	for id := range s.presences {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Store) sortedMatchesLocked() []*models.Match {
	ms := make([]*models.Match, 0, len(s.matches))
	for _, m := range s.matches {
		ms = append(ms, m)
	}
	slices.SortFunc(ms, func(a, b *models.Match) int {
		return cmp.Compare(s.order[a.ID], s.order[b.ID])
	})
	return ms
}
