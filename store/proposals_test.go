package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetnow/models"
)

func TestCreateProposalRejectsSelf(t *testing.T) {
	s, rec := newTestStore(t)

	_, err := s.CreateProposal("a", "a")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	lists := s.ListProposalsForUser("a")
	assert.Empty(t, lists.Incoming)
	assert.Empty(t, lists.Outgoing)
	assert.Empty(t, rec.all())
}

func TestCreateProposalStoresPending(t *testing.T) {
	s, rec := newTestStore(t)

	p, err := s.CreateProposal("a", "b")
	require.NoError(t, err)
	assert.Equal(t, models.ProposalPending, p.Status)
	assert.Nil(t, p.RespondedAt)
	assert.Empty(t, p.MatchID)

	stored, err := s.GetProposal(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, stored)

	events := rec.all()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventProposalCreated, events[0].Type)
	assert.Equal(t, p, events[0].Payload)
}

func TestProposalCollapsesIntoMatch(t *testing.T) {
	s, rec := newTestStore(t)

	p, err := s.CreateProposal("A", "B")
	require.NoError(t, err)

	m, err := s.AcceptProposal(p.ID, "B")
	require.NoError(t, err)
	assert.True(t, m.Pairs("A", "B"))
	assert.True(t, m.IsOpen())

	open := 0
	for _, mm := range s.ListMatchesForUser("A") {
		if mm.IsOpen() {
			open++
		}
	}
	assert.Equal(t, 1, open)

	accepted, err := s.GetProposal(p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalAccepted, accepted.Status)
	assert.Equal(t, m.ID, accepted.MatchID)
	require.NotNil(t, accepted.RespondedAt)

	evt := rec.all()[1]
	assert.Equal(t, models.EventProposalAccepted, evt.Type)
	assert.Equal(t, models.ProposalAcceptedEvent{ProposalID: p.ID, Match: m}, evt.Payload)

	// a second proposal in either direction is synthetic
	rec.reset()
	for _, pair := range [][2]string{{"A", "B"}, {"B", "A"}} {
		again, err := s.CreateProposal(pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, models.ProposalAccepted, again.Status)
		assert.Equal(t, m.ID, again.MatchID)
		require.NotNil(t, again.RespondedAt)
		assert.True(t, again.RespondedAt.Equal(m.CreatedAt))

		_, err = s.GetProposal(again.ID)
		assert.ErrorIs(t, err, ErrNotFound, "synthetic proposals are not stored")
	}
	assert.Empty(t, rec.all(), "synthetic proposals are not broadcast")
	assert.Len(t, s.ListProposalsForUser("A").Outgoing, 1)
}

func TestAcceptProposalNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.AcceptProposal("missing", "b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAcceptProposalForbiddenForOthers(t *testing.T) {
	s, rec := newTestStore(t)
	p, err := s.CreateProposal("a", "b")
	require.NoError(t, err)
	rec.reset()

	for _, who := range []string{"a", "c", ""} {
		_, err := s.AcceptProposal(p.ID, who)
		assert.ErrorIs(t, err, ErrForbidden, "accepter %q", who)
	}

	stored, err := s.GetProposal(p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalPending, stored.Status)
	assert.Empty(t, rec.all())
	assert.Empty(t, s.ListMatchesForUser("a"))
}

func TestAcceptProposalIsIdempotent(t *testing.T) {
	s, rec := newTestStore(t)
	p, err := s.CreateProposal("a", "b")
	require.NoError(t, err)

	first, err := s.AcceptProposal(p.ID, "b")
	require.NoError(t, err)
	rec.reset()

	second, err := s.AcceptProposal(p.ID, "b")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Empty(t, rec.all(), "re-accepting emits nothing")
}

func TestAcceptProposalReusesOpenMatch(t *testing.T) {
	s, _ := newTestStore(t)
	p1, err := s.CreateProposal("a", "b")
	require.NoError(t, err)
	p2, err := s.CreateProposal("b", "a")
	require.NoError(t, err)

	m1, err := s.AcceptProposal(p1.ID, "b")
	require.NoError(t, err)
	m2, err := s.AcceptProposal(p2.ID, "a")
	require.NoError(t, err)

	assert.Equal(t, m1.ID, m2.ID)
	assert.Len(t, s.ListMatchesForUser("a"), 1)
}

func TestListProposalsForUserPartitionsNewestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	p1, _ := s.CreateProposal("x", "me")
	p2, _ := s.CreateProposal("me", "y")
	p3, _ := s.CreateProposal("z", "me")
	p4, _ := s.CreateProposal("me", "w")
	_, _ = s.CreateProposal("x", "y")

	lists := s.ListProposalsForUser("me")

	ids := func(ps []models.Proposal) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}
	assert.Equal(t, []string{p3.ID, p1.ID}, ids(lists.Incoming))
	assert.Equal(t, []string{p4.ID, p2.ID}, ids(lists.Outgoing))
}
