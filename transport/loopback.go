package transport

import (
	"sync"

	"retrobell/errors"
)

// Loopback is an in-memory link connecting several endpoints in one
// process. Tests use it to exercise the signaling layer without sockets,
// including loss and duplication, which the real link exhibits too.
type Loopback struct {
	mu        sync.Mutex
	endpoints map[Address]*LoopbackEndpoint
	dropNext  int
	duplicate bool
}

func NewLoopback() *Loopback {
	return &Loopback{endpoints: make(map[Address]*LoopbackEndpoint)}
}

// Endpoint attaches a new endpoint under the given address.
func (l *Loopback) Endpoint(addr Address) *LoopbackEndpoint {
	l.mu.Lock()
	defer l.mu.Unlock()
	ep := &LoopbackEndpoint{hub: l, addr: addr}
	l.endpoints[addr] = ep
	return ep
}

// DropNext discards the next n frames offered to the hub.
func (l *Loopback) DropNext(n int) {
	l.mu.Lock()
	l.dropNext = n
	l.mu.Unlock()
}

// DuplicateFrames makes the hub deliver every frame twice.
func (l *Loopback) DuplicateFrames(on bool) {
	l.mu.Lock()
	l.duplicate = on
	l.mu.Unlock()
}

func (l *Loopback) deliver(from, to Address, frame []byte) {
	l.mu.Lock()
	if l.dropNext > 0 {
		l.dropNext--
		l.mu.Unlock()
		return
	}
	copies := 1
	if l.duplicate {
		copies = 2
	}
	var targets []*LoopbackEndpoint
	if to == Broadcast {
		for addr, ep := range l.endpoints {
			if addr != from {
				targets = append(targets, ep)
			}
		}
	} else if ep, ok := l.endpoints[to]; ok {
		targets = append(targets, ep)
	}
	l.mu.Unlock()

	for i := 0; i < copies; i++ {
		for _, ep := range targets {
			ep.receive(from, frame)
		}
	}
}

type LoopbackEndpoint struct {
	hub  *Loopback
	addr Address

	mu       sync.RWMutex
	receiver Receiver
	closed   bool
}

func (e *LoopbackEndpoint) Subscribe(r Receiver) {
	e.mu.Lock()
	e.receiver = r
	e.mu.Unlock()
}

func (e *LoopbackEndpoint) Send(to Address, frame []byte) error {
	if err := checkSize(frame); err != nil {
		return err
	}
	e.mu.RLock()
	closed := e.closed
	e.mu.RUnlock()
	if closed {
		return errors.ErrTransportClosed
	}
	buf := make([]byte, len(frame))
	copy(buf, frame)
	e.hub.deliver(e.addr, to, buf)
	return nil
}

func (e *LoopbackEndpoint) receive(from Address, frame []byte) {
	e.mu.RLock()
	receiver := e.receiver
	closed := e.closed
	e.mu.RUnlock()
	if receiver != nil && !closed {
		receiver(from, frame)
	}
}

func (e *LoopbackEndpoint) Close() error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	return nil
}
