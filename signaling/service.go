package signaling

import (
	"fmt"
	"log/slog"
	"sync"

	"retrobell/audio"
	"retrobell/domain"
	"retrobell/errors"
	"retrobell/observability"
	"retrobell/transport"
)

// Service is the signaling boundary. It validates and decodes incoming
// frames on the transport's receive goroutine and hands well-formed,
// addressed-to-us messages to the poll loop over a buffered channel.
// Malformed frames and frames for other numbers are absorbed here; the
// call controller never observes them.
type Service struct {
	log        *slog.Logger
	self       int
	transport  transport.Transport
	directory  *Directory
	monitoring *observability.MonitoringManager
	events     chan domain.Message

	mu        sync.RWMutex
	audioSink audio.Sink
}

func NewService(
	log *slog.Logger,
	self int,
	tr transport.Transport,
	directory *Directory,
	monitoring *observability.MonitoringManager,
	bufferSize int,
) *Service {
	s := &Service{
		log:        log,
		self:       self,
		transport:  tr,
		directory:  directory,
		monitoring: monitoring,
		events:     make(chan domain.Message, bufferSize),
	}
	tr.Subscribe(s.handleFrame)
	return s
}

// Events delivers validated call-control messages to the poll loop.
func (s *Service) Events() <-chan domain.Message {
	return s.events
}

// SetAudioSink routes incoming voice payloads to the player. Optional.
func (s *Service) SetAudioSink(sink audio.Sink) {
	s.mu.Lock()
	s.audioSink = sink
	s.mu.Unlock()
}

func (s *Service) Self() int {
	return s.self
}

// SendDiscovery announces this phone's number to everyone in range.
func (s *Service) SendDiscovery() error {
	frame, err := Encode(domain.Message{
		Kind: domain.MsgDiscovery,
		From: s.self,
		To:   domain.BroadcastNumber,
	})
	if err != nil {
		return err
	}
	if err = s.transport.Send(transport.Broadcast, frame); err != nil {
		return err
	}
	s.monitoring.IncrFramesSent()
	s.monitoring.IncrDiscoveries()
	return nil
}

// Send delivers one call-control message to a specific number. The number
// must already be in the directory; ErrPeerNotFound otherwise.
func (s *Service) Send(kind domain.MessageKind, to int) error {
	return s.send(domain.Message{Kind: kind, From: s.self, To: to})
}

// SendAudio forwards one opaque voice frame to the peer.
func (s *Service) SendAudio(to int, payload []byte) error {
	return s.send(domain.Message{Kind: domain.MsgAudioData, From: s.self, To: to, Payload: payload})
}

func (s *Service) send(m domain.Message) error {
	addr, ok := s.directory.Lookup(m.To)
	if !ok {
		return fmt.Errorf("sending %s to %d: %w", m.Kind, m.To, errors.ErrPeerNotFound)
	}
	frame, err := Encode(m)
	if err != nil {
		return err
	}
	if err = s.transport.Send(addr, frame); err != nil {
		return err
	}
	s.monitoring.IncrFramesSent()
	return nil
}

// handleFrame runs on the transport's receive goroutine. It never blocks:
// the handoff to the poll loop is a buffered channel and a lagging consumer
// loses the frame, which the lossy link permits anyway.
func (s *Service) handleFrame(sender transport.Address, frame []byte) {
	s.monitoring.IncrFramesReceived()

	msg, err := Decode(frame)
	if err != nil {
		s.monitoring.IncrDecodeErrors()
		s.log.Debug("Malformed frame dropped", "from", string(sender), "err", err)
		return
	}

	if msg.Kind == domain.MsgDiscovery {
		// Our own broadcast comes back through the multicast group.
		if msg.From == s.self {
			return
		}
		if err = s.directory.Upsert(msg.From, sender); err != nil {
			s.log.Warn("Peer not recorded", "number", msg.From, "err", err)
			return
		}
		s.push(msg)
		return
	}

	if msg.To != s.self {
		s.monitoring.IncrFramesIgnored()
		return
	}

	if msg.Kind == domain.MsgAudioData {
		s.mu.RLock()
		sink := s.audioSink
		s.mu.RUnlock()
		if sink != nil {
			sink.WriteFrame(msg.Payload)
		}
		return
	}

	s.push(msg)
}

func (s *Service) push(msg domain.Message) {
	select {
	case s.events <- msg:
	default:
		s.monitoring.IncrEventsDropped()
		s.log.Warn("Signaling event dropped, consumer lagging", "kind", msg.Kind.String())
	}
}
