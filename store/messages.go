package store

import (
	"fmt"

	"meetnow/models"
)

// AppendMessage adds a chat line to an open match.
func (s *Store) AppendMessage(matchID, from, text string) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.matches[matchID]
	if !ok || !m.IsOpen() {
		return models.Message{}, fmt.Errorf("%w: match is not active", ErrInvalidState)
	}

	msg := models.Message{
		ID:      s.newID(),
		MatchID: matchID,
		From:    from,
		Text:    text,
		SentAt:  s.clock(),
	}
	s.messages[matchID] = append(s.messages[matchID], msg)

	s.emit(models.Event{Type: models.EventMessageNew, Payload: msg})
	return msg, nil
}

// ListMessages returns the thread for a match in arrival order. Unknown
// matches have an empty thread.
func (s *Store) ListMessages(matchID string) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.Message{}, s.messages[matchID]...)
}
