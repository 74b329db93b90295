package domain

import (
	"time"

	"github.com/google/uuid"
)

type CallOutcome string

const (
	OutcomeCompleted CallOutcome = "completed" // both sides talked, someone hung up
	OutcomeCanceled  CallOutcome = "canceled"  // caller gave up before an answer
	OutcomeRejected  CallOutcome = "rejected"  // callee declined or hung up unanswered
	OutcomeBusy      CallOutcome = "busy"      // callee was already in a call
	OutcomeFailed    CallOutcome = "failed"    // no such peer, or answer timed out
	OutcomeMissed    CallOutcome = "missed"    // incoming call ended before pickup
)

// CallRecord is one closed call, as persisted in the call history.
type CallRecord struct {
	ID        uuid.UUID   `json:"id"`
	Peer      int         `json:"peer"`
	Direction Direction   `json:"direction"`
	StartedAt time.Time   `json:"started_at"`
	EndedAt   time.Time   `json:"ended_at"`
	Outcome   CallOutcome `json:"outcome"`
}
