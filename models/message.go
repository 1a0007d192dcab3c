package models

import "time"

// MaxMessageLength is the longest message text accepted, in characters.
const MaxMessageLength = 500

type Message struct {
	ID      string    `json:"id"`
	MatchID string    `json:"matchId"`
	From    string    `json:"from"`
	Text    string    `json:"text"`
	SentAt  time.Time `json:"sentAt"`
}
