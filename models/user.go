package models

import "time"

type UserProfile struct {
	ID           string    `json:"id"`
	Nickname     string    `json:"nickname"`
	AgeVerified  bool      `json:"ageVerified"`
	Tags         []string  `json:"tags"`
	Bio          string    `json:"bio,omitempty"`
	Vibe         string    `json:"vibe,omitempty"`
	Budget       string    `json:"budget,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActiveAt time.Time `json:"lastActiveAt"`
}

// Clone returns a copy that shares no memory with p.
func (p UserProfile) Clone() UserProfile {
	p.Tags = append([]string(nil), p.Tags...)
	return p
}
