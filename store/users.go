package store

import (
	"fmt"
	"sort"
	"strings"

	"meetnow/models"
)

// UserInput carries the fields of an upsert. Callers trim and validate them.
type UserInput struct {
	ID          string
	Nickname    string
	Tags        []string
	Bio         string
	Vibe        string
	Budget      string
	AgeVerified *bool
}

// UpsertUser creates a profile, or overwrites an existing one while keeping
// its CreatedAt. An empty ID gets a freshly generated one.
func (s *Store) UpsertUser(in UserInput) models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = s.newID()
	}

	ageVerified := true
	if in.AgeVerified != nil {
		ageVerified = *in.AgeVerified
	}

	profile := &models.UserProfile{
		ID:           id,
		Nickname:     in.Nickname,
		AgeVerified:  ageVerified,
		Tags:         append([]string{}, in.Tags...),
		Bio:          in.Bio,
		Vibe:         in.Vibe,
		Budget:       in.Budget,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	if existing, ok := s.users[id]; ok {
		profile.CreatedAt = existing.CreatedAt
	} else {
		s.track(id)
	}
	s.users[id] = profile

	s.log.Debug().Str("user_id", id).Msg("user upserted")
	return profile.Clone()
}

func (s *Store) GetUser(id string) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.UserProfile{}, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	return u.Clone(), nil
}

// ListUsers returns every profile, oldest first.
func (s *Store) ListUsers() []models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.UserProfile, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return s.order[out[i].ID] < s.order[out[j].ID]
	})
	return out
}
