// Package transport carries opaque signaling frames between phones over a
// lossy best-effort link. Delivery is at-most-once and unordered; frames may
// be lost, duplicated or reordered and no layer here retransmits.
package transport

import "retrobell/errors"

// MaxDatagramSize bounds every frame, mirroring the radio link's payload
// limit on the original hardware.
const MaxDatagramSize = 250

// Address is an opaque link-layer token. It identifies an endpoint on the
// link and is unrelated to the application-level phone number; mapping one
// to the other is the signaling layer's job.
type Address string

// Broadcast is the sentinel address reaching every endpoint in range.
const Broadcast Address = "broadcast"

// Receiver is invoked from the transport's receive goroutine for every
// arriving frame. Implementations must not block.
type Receiver func(sender Address, frame []byte)

type Transport interface {
	// Send delivers the frame best-effort to one address or to Broadcast.
	// It returns an error only for local failures; a returned nil says
	// nothing about delivery.
	Send(to Address, frame []byte) error
	// Subscribe registers the single receive callback.
	Subscribe(r Receiver)
	Close() error
}

func checkSize(frame []byte) error {
	if len(frame) > MaxDatagramSize {
		return errors.ErrFrameTooLarge
	}
	return nil
}
