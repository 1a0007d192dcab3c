package models

import "time"

type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalAccepted ProposalStatus = "accepted"
	// ProposalDeclined is part of the wire format but nothing sets it yet.
	ProposalDeclined ProposalStatus = "declined"
)

type Proposal struct {
	ID          string         `json:"id"`
	From        string         `json:"from"`
	To          string         `json:"to"`
	CreatedAt   time.Time      `json:"createdAt"`
	Status      ProposalStatus `json:"status"`
	RespondedAt *time.Time     `json:"respondedAt,omitempty"`
	MatchID     string         `json:"matchId,omitempty"`
}

// Clone returns a copy that shares no memory with p.
func (p Proposal) Clone() Proposal {
	if p.RespondedAt != nil {
		at := *p.RespondedAt
		p.RespondedAt = &at
	}
	return p
}
