package models

import "time"

// Match pairs two users and gates chat between them. UserA and UserB are an
// unordered pair.
type Match struct {
	ID        string     `json:"id"`
	UserA     string     `json:"userA"`
	UserB     string     `json:"userB"`
	CreatedAt time.Time  `json:"createdAt"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`
}

func (m Match) IsOpen() bool {
	return m.ClosedAt == nil
}

// Involves reports whether userID is one side of the match.
func (m Match) Involves(userID string) bool {
	return m.UserA == userID || m.UserB == userID
}

// Pairs reports whether the match is between a and b, in either order.
func (m Match) Pairs(a, b string) bool {
	return (m.UserA == a && m.UserB == b) || (m.UserA == b && m.UserB == a)
}

// Clone returns a copy that shares no memory with m.
func (m Match) Clone() Match {
	if m.ClosedAt != nil {
		at := *m.ClosedAt
		m.ClosedAt = &at
	}
	return m
}
