package call

// Event is one input to the state machine: a local hardware event, a
// decoded dial event, a validated remote message, or the periodic tick
// that advances deadlines.
type Event interface {
	isEvent()
}

// HookLifted is the debounced off-hook edge.
type HookLifted struct{}

// HookReplaced is the debounced on-hook edge.
type HookReplaced struct{}

// DigitEntered is a decoded rotary digit. Only the first digit moves the
// machine (OffHook to Dialing); the collector owns the rest.
type DigitEntered struct {
	Digit int
}

// DialComplete fires when the number collector finishes. PeerKnown carries
// the directory lookup result so the transition stays pure.
type DialComplete struct {
	Number    int
	PeerKnown bool
}

// RemoteRequest through RemoteEnd are messages already validated by the
// signaling layer: well-formed and addressed to this phone.
type RemoteRequest struct{ From int }
type RemoteAccept struct{ From int }
type RemoteReject struct{ From int }
type RemoteBusy struct{ From int }
type RemoteEnd struct{ From int }

// Tick advances time-based transitions, the answer deadline in particular.
type Tick struct{}

func (HookLifted) isEvent()    {}
func (HookReplaced) isEvent()  {}
func (DigitEntered) isEvent()  {}
func (DialComplete) isEvent()  {}
func (RemoteRequest) isEvent() {}
func (RemoteAccept) isEvent()  {}
func (RemoteReject) isEvent()  {}
func (RemoteBusy) isEvent()    {}
func (RemoteEnd) isEvent()     {}
func (Tick) isEvent()          {}
