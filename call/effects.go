package call

import (
	"time"

	"retrobell/audio"
	"retrobell/domain"
)

// Effect is a side effect requested by a transition. The machine itself
// never sends, plays or persists anything; the runtime executes effects at
// the system boundary, which keeps every transition testable in isolation.
type Effect interface {
	isEffect()
}

// SendMessage asks the runtime to emit one signaling message.
type SendMessage struct {
	Kind domain.MessageKind
	To   int
}

// PlayTone asks the tone player for a plan; audio.ToneOff stops it.
type PlayTone struct {
	Plan audio.Plan
}

// StartCollector arms the number collector for a fresh dial.
type StartCollector struct{}

// ResetCollector clears the dial buffer.
type ResetCollector struct{}

// CloseCall reports that a call session ended, for the call history.
type CloseCall struct {
	Peer      int
	Direction domain.Direction
	StartedAt time.Time
	Outcome   domain.CallOutcome
}

func (SendMessage) isEffect()    {}
func (PlayTone) isEffect()       {}
func (StartCollector) isEffect() {}
func (ResetCollector) isEffect() {}
func (CloseCall) isEffect()      {}
