package store

import (
	"fmt"
	"sort"

	"meetnow/models"
)

// CreateProposal records a pending invitation from one user to another.
//
// If the two users already share an open match, nothing is stored or
// broadcast; the returned proposal is a synthetic, already accepted one that
// points at the existing match so the client can jump straight to chat.
func (s *Store) CreateProposal(from, to string) (models.Proposal, error) {
	if from == to {
		return models.Proposal{}, fmt.Errorf("%w: cannot propose to self", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	if m := s.findActiveMatchLocked(from, to); m != nil {
		respondedAt := m.CreatedAt
		return models.Proposal{
			ID:          s.newID(),
			From:        from,
			To:          to,
			CreatedAt:   now,
			Status:      models.ProposalAccepted,
			RespondedAt: &respondedAt,
			MatchID:     m.ID,
		}, nil
	}

	p := &models.Proposal{
		ID:        s.newID(),
		From:      from,
		To:        to,
		CreatedAt: now,
		Status:    models.ProposalPending,
	}
	s.proposals[p.ID] = p
	s.track(p.ID)

	s.emit(models.Event{Type: models.EventProposalCreated, Payload: p.Clone()})
	return p.Clone(), nil
}

// AcceptProposal turns a pending proposal into a match. Only the recipient
// may accept. Accepting again returns the same match without a new event.
func (s *Store) AcceptProposal(proposalID, accepterID string) (models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proposals[proposalID]
	if !ok {
		return models.Match{}, fmt.Errorf("%w: proposal %s", ErrNotFound, proposalID)
	}
	if p.To != accepterID {
		return models.Match{}, fmt.Errorf("%w: only the recipient can accept", ErrForbidden)
	}
	if p.Status == models.ProposalAccepted && p.MatchID != "" {
		if m, ok := s.matches[p.MatchID]; ok {
			return m.Clone(), nil
		}
	}

	m := s.createMatchLocked(p.From, p.To)
	now := s.clock()
	p.Status = models.ProposalAccepted
	p.MatchID = m.ID
	p.RespondedAt = &now

	s.emit(models.Event{
		Type:    models.EventProposalAccepted,
		Payload: models.ProposalAcceptedEvent{ProposalID: p.ID, Match: m.Clone()},
	})
	return m.Clone(), nil
}

func (s *Store) GetProposal(id string) (models.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proposals[id]
	if !ok {
		return models.Proposal{}, fmt.Errorf("%w: proposal %s", ErrNotFound, id)
	}
	return p.Clone(), nil
}

type ProposalLists struct {
	Incoming []models.Proposal `json:"incoming"`
	Outgoing []models.Proposal `json:"outgoing"`
}

// ListProposalsForUser splits stored proposals into those sent to and sent by
// userID, newest first.
func (s *Store) ListProposalsForUser(userID string) ProposalLists {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists := ProposalLists{
		Incoming: []models.Proposal{},
		Outgoing: []models.Proposal{},
	}
	for _, p := range s.proposals {
		if p.To == userID {
			lists.Incoming = append(lists.Incoming, p.Clone())
		}
		if p.From == userID {
			lists.Outgoing = append(lists.Outgoing, p.Clone())
		}
	}
	s.sortProposalsNewestFirst(lists.Incoming)
	s.sortProposalsNewestFirst(lists.Outgoing)
	return lists
}

func (s *Store) sortProposalsNewestFirst(ps []models.Proposal) {
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.After(ps[j].CreatedAt)
		}
		return s.order[ps[i].ID] > s.order[ps[j].ID]
	})
}
