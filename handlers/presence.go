package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	geojson "github.com/paulmach/go.geojson"

	"meetnow/geo"
	"meetnow/models"
	"meetnow/store"
)

const defaultRadiusKm = 3

type setPresenceRequest struct {
	UserID        looseString `json:"userId"`
	Lat           looseFloat  `json:"lat"`
	Lng           looseFloat  `json:"lng"`
	LocationLabel string      `json:"locationLabel"`
	PresetKey     *string     `json:"presetKey"`
	LocationKey   *string     `json:"locationKey"`
	LocationTerm  *string     `json:"locationTerm"`
}

// resolveLocation prefers explicit coordinates. Otherwise the first preset
// field present in the body decides, even when it is blank.
func (r setPresenceRequest) resolveLocation() (lat, lng float64, label string, ok bool) {
	if r.Lat.set && r.Lng.set {
		return r.Lat.value, r.Lng.value, r.LocationLabel, true
	}
	for _, term := range []*string{r.PresetKey, r.LocationKey, r.LocationTerm} {
		if term == nil {
			continue
		}
		if p, found := geo.FindPreset(*term); found {
			return p.Lat, p.Lng, p.Label, true
		}
		break
	}
	return 0, 0, "", false
}

func (h *Handler) SetPresence(c *gin.Context) {
	var req setPresenceRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := req.UserID.trimmed()
	if userID == "" {
		badRequest(c, "userId is required")
		return
	}
	lat, lng, label, ok := req.resolveLocation()
	if !ok {
		badRequest(c, "location is required")
		return
	}

	presence, err := h.store.SetPresence(store.PresenceInput{
		UserID:        userID,
		Lat:           lat,
		Lng:           lng,
		LocationLabel: label,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, presence)
}

func (h *Handler) RemovePresence(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userId"))
	if userID == "" {
		badRequest(c, "userId is required")
		return
	}
	removed := h.store.RemovePresence(userID)
	c.JSON(http.StatusOK, gin.H{"ok": true, "removed": removed})
}

// ListNearby returns presences within radiusKm of lat/lng, as {items} or,
// with format=geojson, as a FeatureCollection of points.
func (h *Handler) ListNearby(c *gin.Context) {
	lat, latOK := parseFloat(c.Query("lat"))
	lng, lngOK := parseFloat(c.Query("lng"))
	if !latOK || !lngOK {
		badRequest(c, "lat and lng are required")
		return
	}
	radius, ok := parseFloat(c.Query("radiusKm"))
	if !ok {
		radius = defaultRadiusKm
	}

	listings := h.store.ListNearby(store.NearbyQuery{
		Lat:        lat,
		Lng:        lng,
		RadiusKm:   radius,
		SelfUserID: strings.TrimSpace(c.Query("selfUserId")),
	})

	if c.Query("format") == "geojson" {
		h.respondGeoJSON(c, listings)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": listings})
}

func (h *Handler) respondGeoJSON(c *gin.Context, listings []models.NearbyListing) {
	fc := geojson.NewFeatureCollection()
	for _, l := range listings {
		f := geojson.NewPointFeature([]float64{l.Presence.Lng, l.Presence.Lat})
		f.ID = l.User.ID
		f.SetProperty("nickname", l.User.Nickname)
		f.SetProperty("tags", l.User.Tags)
		f.SetProperty("locationLabel", l.Presence.LocationLabel)
		f.SetProperty("distanceKm", l.DistanceKm)
		f.SetProperty("affinityScore", l.AffinityScore)
		f.SetProperty("expiresAt", l.Presence.ExpiresAt)
		fc.AddFeature(f)
	}

	body, err := fc.MarshalJSON()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/geo+json", body)
}
