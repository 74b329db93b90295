package domain

import "time"

// PhoneState is the single state variable of the phone.
// Exactly one value is active at a time.
type PhoneState int

const (
	StateIdle       PhoneState = iota // at rest, waiting for activity
	StateOffHook                      // handset lifted, dial tone playing
	StateDialing                      // collecting dialed digits
	StateCalling                      // call request sent, waiting for answer
	StateRinging                      // incoming call, ringing
	StateInCall                       // connected call
	StateCallFailed                   // number not found or call not answered
	StateCallBusy                     // called phone is busy
)

func (s PhoneState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateOffHook:
		return "OFF_HOOK"
	case StateDialing:
		return "DIALING"
	case StateCalling:
		return "CALLING"
	case StateRinging:
		return "RINGING"
	case StateInCall:
		return "IN_CALL"
	case StateCallFailed:
		return "CALL_FAILED"
	case StateCallBusy:
		return "CALL_BUSY"
	default:
		return "UNKNOWN"
	}
}

// Busy reports whether an incoming call request must be answered
// with a busy reply instead of ringing the phone.
func (s PhoneState) Busy() bool {
	return s == StateRinging || s == StateInCall
}

type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
)

// CallSession binds the phone to one remote peer. It exists only while the
// phone is Calling, Ringing or InCall.
type CallSession struct {
	Peer      int
	Direction Direction
	StartedAt time.Time
}
