package domain

// BroadcastNumber is the sentinel recipient for messages addressed to
// every phone in range, not to one number.
const BroadcastNumber = -1

type MessageKind uint8

const (
	MsgDiscovery   MessageKind = iota // "I exist, my number is X"
	MsgCallRequest                    // "I'm calling you"
	MsgCallAccept                     // "I answered your call"
	MsgCallReject                     // "I declined your call"
	MsgCallBusy                       // "I'm already in a call"
	MsgCallEnd                        // "I'm hanging up"
	MsgAudioData                      // voice payload, routed but opaque
)

func (k MessageKind) String() string {
	switch k {
	case MsgDiscovery:
		return "DISCOVERY"
	case MsgCallRequest:
		return "CALL_REQUEST"
	case MsgCallAccept:
		return "CALL_ACCEPT"
	case MsgCallReject:
		return "CALL_REJECT"
	case MsgCallBusy:
		return "CALL_BUSY"
	case MsgCallEnd:
		return "CALL_END"
	case MsgAudioData:
		return "AUDIO_DATA"
	default:
		return "UNKNOWN"
	}
}

// Message is one signaling frame exchanged between phones.
// To is either a phone number or BroadcastNumber.
type Message struct {
	Kind    MessageKind
	From    int
	To      int
	Payload []byte
}

func (m Message) Broadcast() bool {
	return m.To == BroadcastNumber
}
