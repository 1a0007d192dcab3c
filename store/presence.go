package store

import (
	"fmt"
	"math"
	"sort"

	"meetnow/geo"
	"meetnow/models"
)

const (
	selfAffinityBonus = 100
	maxTagsScored     = 5
)

type PresenceInput struct {
	UserID        string
	Lat           float64
	Lng           float64
	LocationLabel string
}

// SetPresence makes the user discoverable at the given point until the next
// reset boundary, replacing any earlier presence.
func (s *Store) SetPresence(in PresenceInput) (models.Presence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[in.UserID]; !ok {
		return models.Presence{}, fmt.Errorf("%w: user %s", ErrNotFound, in.UserID)
	}

	now := s.clock()
	gridLat, gridLng := geo.ToGrid(in.Lat, in.Lng, s.gridMeters)
	p := &models.Presence{
		UserID:        in.UserID,
		Lat:           geo.Round(in.Lat, 6),
		Lng:           geo.Round(in.Lng, 6),
		GridLat:       gridLat,
		GridLng:       gridLng,
		LocationLabel: in.LocationLabel,
		Since:         now,
		ExpiresAt:     s.boundary.Next(now),
	}
	s.presences[in.UserID] = p

	s.emit(models.Event{Type: models.EventPresenceUpdate, Payload: *p})
	return *p, nil
}

// RemovePresence reports whether a presence was removed.
func (s *Store) RemovePresence(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.presences[userID]; !ok {
		return false
	}
	delete(s.presences, userID)

	s.emit(models.Event{Type: models.EventPresenceRemove, Payload: models.PresenceRemoved{UserID: userID}})
	return true
}

func (s *Store) GetPresence(userID string) (models.Presence, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.presences[userID]
	if !ok {
		return models.Presence{}, false
	}
	return *p, true
}

type NearbyQuery struct {
	Lat        float64
	Lng        float64
	RadiusKm   float64
	SelfUserID string
}

// ListNearby scans every presence and returns those within the radius,
// closest first. Ties on distance go to the higher affinity score. The
// caller's own presence gets a large bonus so it leads its distance band.
//
// This is a linear scan; the grid cell stored on each presence is not used
// to narrow it.
func (s *Store) ListNearby(q NearbyQuery) []models.NearbyListing {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]models.NearbyListing, 0, len(s.presences))
	for _, p := range s.presences {
		u, ok := s.users[p.UserID]
		if !ok {
			continue
		}
		d := geo.DistanceKm(q.Lat, q.Lng, p.Lat, p.Lng)
		if d > q.RadiusKm {
			continue
		}
		score := affinityScore(u, d)
		if q.SelfUserID != "" && q.SelfUserID == p.UserID {
			score += selfAffinityBonus
		}
		results = append(results, models.NearbyListing{
			User:          u.Clone(),
			Presence:      *p,
			DistanceKm:    d,
			AffinityScore: score,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.DistanceKm != b.DistanceKm {
			return a.DistanceKm < b.DistanceKm
		}
		if a.AffinityScore != b.AffinityScore {
			return a.AffinityScore > b.AffinityScore
		}
		return a.User.ID < b.User.ID
	})
	return results
}

func affinityScore(u *models.UserProfile, distanceKm float64) float64 {
	tagBonus := float64(min(len(u.Tags), maxTagsScored) * 2)
	distanceScore := math.Max(0, 20-distanceKm*5)
	return tagBonus + distanceScore
}
