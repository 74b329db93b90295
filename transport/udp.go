package transport

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// UDPTransport implements the lossy peer link over IPv4 UDP. Broadcast
// frames go to a multicast group every phone joins; direct frames go to the
// peer's unicast address. All sends leave through the unicast socket so
// receivers always observe the sender's reachable source address.
type UDPTransport struct {
	log   *slog.Logger
	uni   *net.UDPConn
	mcast *net.UDPConn
	group *net.UDPAddr

	mu       sync.RWMutex
	receiver Receiver
	closed   bool
}

func NewUDPTransport(log *slog.Logger, listenPort int, group string) (*UDPTransport, error) {
	groupAddr, err := net.ResolveUDPAddr("udp4", group)
	if err != nil {
		return nil, fmt.Errorf("resolving multicast group %q: %w", group, err)
	}

	uni, err := net.ListenUDP("udp4", &net.UDPAddr{Port: listenPort})
	if err != nil {
		return nil, fmt.Errorf("listening on udp port %d: %w", listenPort, err)
	}

	mcast, err := net.ListenMulticastUDP("udp4", nil, groupAddr)
	if err != nil {
		_ = uni.Close()
		return nil, fmt.Errorf("joining multicast group %q: %w", group, err)
	}

	t := &UDPTransport{log: log, uni: uni, mcast: mcast, group: groupAddr}
	go t.readLoop(uni)
	go t.readLoop(mcast)
	return t, nil
}

func (t *UDPTransport) Subscribe(r Receiver) {
	t.mu.Lock()
	t.receiver = r
	t.mu.Unlock()
}

func (t *UDPTransport) Send(to Address, frame []byte) error {
	if err := checkSize(frame); err != nil {
		return err
	}
	dst := t.group
	if to != Broadcast {
		addr, err := net.ResolveUDPAddr("udp4", string(to))
		if err != nil {
			return fmt.Errorf("resolving peer address %q: %w", to, err)
		}
		dst = addr
	}
	_, err := t.uni.WriteToUDP(frame, dst)
	return err
}

func (t *UDPTransport) readLoop(conn *net.UDPConn) {
	buf := make([]byte, MaxDatagramSize+1)
	for {
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			t.mu.RLock()
			closed := t.closed
			t.mu.RUnlock()
			if !closed {
				t.log.Warn("Transport read failed", "err", err)
			}
			return
		}
		if n > MaxDatagramSize {
			t.log.Debug("Oversized datagram dropped", "from", src.String(), "size", n)
			continue
		}
		frame := make([]byte, n)
		copy(frame, buf[:n])

		t.mu.RLock()
		receiver := t.receiver
		t.mu.RUnlock()
		if receiver != nil {
			receiver(Address(src.String()), frame)
		}
	}
}

// LocalAddress reports the unicast address peers should reply to.
func (t *UDPTransport) LocalAddress() Address {
	return Address(t.uni.LocalAddr().String())
}

func (t *UDPTransport) Close() error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	err := t.uni.Close()
	if mErr := t.mcast.Close(); err == nil {
		err = mErr
	}
	return err
}
