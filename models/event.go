package models

import "time"

type EventType string

const (
	EventPresenceUpdate   EventType = "presence:update"
	EventPresenceRemove   EventType = "presence:remove"
	EventProposalCreated  EventType = "proposal:created"
	EventProposalAccepted EventType = "proposal:accepted"
	EventMatchClosed      EventType = "match:closed"
	EventMessageNew       EventType = "message:new"
	EventResetRun         EventType = "reset:run"
)

// Event is a state change pushed to every realtime subscriber.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

type PresenceRemoved struct {
	UserID string `json:"userId"`
}

type ProposalAcceptedEvent struct {
	ProposalID string `json:"proposalId"`
	Match      Match  `json:"match"`
}

type MatchClosed struct {
	MatchID string `json:"matchId"`
}

type ResetRun struct {
	At     time.Time `json:"at"`
	Reason string    `json:"reason"`
}
