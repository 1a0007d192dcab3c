package models

import "time"

// Presence marks a user as discoverable around a location until ExpiresAt.
type Presence struct {
	UserID        string    `json:"userId"`
	Lat           float64   `json:"lat"`
	Lng           float64   `json:"lng"`
	GridLat       float64   `json:"gridLat"`
	GridLng       float64   `json:"gridLng"`
	LocationLabel string    `json:"locationLabel,omitempty"`
	Since         time.Time `json:"since"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

type NearbyListing struct {
	User          UserProfile `json:"user"`
	Presence      Presence    `json:"presence"`
	DistanceKm    float64     `json:"distanceKm"`
	AffinityScore float64     `json:"affinityScore"`
}
