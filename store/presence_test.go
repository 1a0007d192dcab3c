package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetnow/models"
	"meetnow/schedule"
)

func TestSetPresenceRequiresUser(t *testing.T) {
	s, rec := newTestStore(t)

	_, err := s.SetPresence(PresenceInput{UserID: "ghost", Lat: 35, Lng: 139})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, rec.all())
}

func TestSetPresenceStampsExpiryAndGrid(t *testing.T) {
	s, rec := newTestStore(t)
	mustUser(t, s, "u1")

	p, err := s.SetPresence(PresenceInput{UserID: "u1", Lat: 35.65951234, Lng: 139.70051234, LocationLabel: "渋谷"})
	require.NoError(t, err)

	assert.Equal(t, 35.659512, p.Lat)
	assert.Equal(t, 139.700512, p.Lng)
	assert.NotZero(t, p.GridLat)
	assert.NotZero(t, p.GridLng)
	assert.Equal(t, "渋谷", p.LocationLabel)
	assert.True(t, p.ExpiresAt.Equal(schedule.DefaultDaily.Next(p.Since)))

	events := rec.all()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventPresenceUpdate, events[0].Type)
	assert.Equal(t, p, events[0].Payload)
}

func TestSetPresenceOverwrites(t *testing.T) {
	s, _ := newTestStore(t)
	mustUser(t, s, "u1")

	_, err := s.SetPresence(PresenceInput{UserID: "u1", Lat: 35, Lng: 139, LocationLabel: "first"})
	require.NoError(t, err)
	_, err = s.SetPresence(PresenceInput{UserID: "u1", Lat: 36, Lng: 140})
	require.NoError(t, err)

	p, ok := s.GetPresence("u1")
	require.True(t, ok)
	assert.Equal(t, 36.0, p.Lat)
	assert.Empty(t, p.LocationLabel, "overwrite does not merge")
	assert.Equal(t, 1, s.Stats().Presences)
}

func TestRemovePresence(t *testing.T) {
	s, rec := newTestStore(t)
	mustUser(t, s, "u1")
	_, err := s.SetPresence(PresenceInput{UserID: "u1", Lat: 35, Lng: 139})
	require.NoError(t, err)
	rec.reset()

	assert.True(t, s.RemovePresence("u1"))
	assert.False(t, s.RemovePresence("u1"))

	events := rec.all()
	require.Len(t, events, 1, "only an actual removal is broadcast")
	assert.Equal(t, models.EventPresenceRemove, events[0].Type)
	assert.Equal(t, models.PresenceRemoved{UserID: "u1"}, events[0].Payload)
}

func TestListNearbySamePointRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	mustUser(t, s, "u1")
	_, err := s.SetPresence(PresenceInput{UserID: "u1", Lat: 35.6595, Lng: 139.7005})
	require.NoError(t, err)

	got := s.ListNearby(NearbyQuery{Lat: 35.6595, Lng: 139.7005, RadiusKm: 0})
	require.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].User.ID)
	assert.LessOrEqual(t, got[0].DistanceKm, 0.01)
}

func TestListNearbyScenario(t *testing.T) {
	s, rec := newTestStore(t)
	mustUser(t, s, "U1")
	mustUser(t, s, "U2")
	_, err := s.SetPresence(PresenceInput{UserID: "U1", Lat: 35.0, Lng: 139.0})
	require.NoError(t, err)

	got := s.ListNearby(NearbyQuery{Lat: 35.0, Lng: 139.0001, RadiusKm: 5, SelfUserID: "U2"})
	require.Len(t, got, 1)
	assert.Equal(t, "U1", got[0].User.ID)
	assert.LessOrEqual(t, got[0].DistanceKm, 0.01)

	require.True(t, s.RemovePresence("U1"))
	assert.Empty(t, s.ListNearby(NearbyQuery{Lat: 35.0, Lng: 139.0001, RadiusKm: 5, SelfUserID: "U2"}))

	events := rec.all()
	last := events[len(events)-1]
	assert.Equal(t, models.EventPresenceRemove, last.Type)
	assert.Equal(t, models.PresenceRemoved{UserID: "U1"}, last.Payload)
}

func TestListNearbyFiltersAndSorts(t *testing.T) {
	s, _ := newTestStore(t)
	points := map[string][2]float64{
		"near":   {35.0000, 139.0100}, // ~0.91 km
		"mid":    {35.0000, 139.0300}, // ~2.73 km
		"far":    {35.0000, 139.1000}, // ~9.1 km
		"origin": {35.0000, 139.0000},
	}
	for id, pt := range points {
		mustUser(t, s, id)
		_, err := s.SetPresence(PresenceInput{UserID: id, Lat: pt[0], Lng: pt[1]})
		require.NoError(t, err)
	}

	got := s.ListNearby(NearbyQuery{Lat: 35, Lng: 139, RadiusKm: 5})

	var ids []string
	for i, l := range got {
		ids = append(ids, l.User.ID)
		assert.LessOrEqual(t, l.DistanceKm, 5.0)
		if i > 0 {
			assert.LessOrEqual(t, got[i-1].DistanceKm, l.DistanceKm)
		}
	}
	assert.Equal(t, []string{"origin", "near", "mid"}, ids)
}

func TestListNearbyAffinityScore(t *testing.T) {
	s, _ := newTestStore(t)
	mustUser(t, s, "many", "1", "2", "3", "4", "5", "6", "7")
	mustUser(t, s, "few", "1")
	for _, id := range []string{"many", "few"} {
		_, err := s.SetPresence(PresenceInput{UserID: id, Lat: 35, Lng: 139})
		require.NoError(t, err)
	}

	got := s.ListNearby(NearbyQuery{Lat: 35, Lng: 139, RadiusKm: 1})
	require.Len(t, got, 2)

	// equal distance: higher affinity first; tags are capped at five
	assert.Equal(t, "many", got[0].User.ID)
	assert.Equal(t, 30.0, got[0].AffinityScore)
	assert.Equal(t, 22.0, got[1].AffinityScore)
}

func TestListNearbySelfSortsFirst(t *testing.T) {
	s, _ := newTestStore(t)
	mustUser(t, s, "me")
	mustUser(t, s, "other", "1", "2", "3", "4", "5")
	for _, id := range []string{"me", "other"} {
		_, err := s.SetPresence(PresenceInput{UserID: id, Lat: 35, Lng: 139})
		require.NoError(t, err)
	}

	got := s.ListNearby(NearbyQuery{Lat: 35, Lng: 139, RadiusKm: 1, SelfUserID: "me"})
	require.Len(t, got, 2)
	assert.Equal(t, "me", got[0].User.ID)
	assert.Equal(t, 120.0, got[0].AffinityScore)
}

func TestListNearbyDistanceScoreFloorsAtZero(t *testing.T) {
	s, _ := newTestStore(t)
	mustUser(t, s, "far")
	_, err := s.SetPresence(PresenceInput{UserID: "far", Lat: 35, Lng: 139.1})
	require.NoError(t, err)

	got := s.ListNearby(NearbyQuery{Lat: 35, Lng: 139, RadiusKm: 50})
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].AffinityScore)
}

func TestPresenceExpiryUsesConfiguredBoundary(t *testing.T) {
	now := time.Date(2026, 10, 14, 1, 0, 0, 0, time.UTC)
	s := New(
		WithClock(func() time.Time { return now }),
		WithResetBoundary(schedule.Daily{Hour: 3, Location: time.UTC}),
	)
	mustUser(t, s, "u1")

	p, err := s.SetPresence(PresenceInput{UserID: "u1", Lat: 35, Lng: 139})
	require.NoError(t, err)
	assert.True(t, p.ExpiresAt.Equal(time.Date(2026, 10, 14, 3, 0, 0, 0, time.UTC)))
}
