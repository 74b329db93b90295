package signaling

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"retrobell/domain"
	"retrobell/errors"
	"retrobell/observability"
	"retrobell/transport"
)

type testNode struct {
	service    *Service
	directory  *Directory
	monitoring *observability.MonitoringManager
	endpoint   *transport.LoopbackEndpoint
}

func newTestNode(t *testing.T, hub *transport.Loopback, number int, addr transport.Address) *testNode {
	t.Helper()
	ep := hub.Endpoint(addr)
	dir := NewDirectory(10)
	mon := observability.NewMonitoringManager()
	return &testNode{
		service:    NewService(slog.Default(), number, ep, dir, mon, 16),
		directory:  dir,
		monitoring: mon,
		endpoint:   ep,
	}
}

func Test_Discovery_Round_Trip(t *testing.T) {
	req := require.New(t)
	hub := transport.NewLoopback()
	a := newTestNode(t, hub, 101, "node-a")
	b := newTestNode(t, hub, 102, "node-b")

	req.NoError(a.service.SendDiscovery())

	addr, ok := b.directory.Lookup(101)
	req.True(ok)
	req.Equal(transport.Address("node-a"), addr)

	// B can now reach A directly.
	req.NoError(b.service.Send(domain.MsgCallRequest, 101))
	msg := <-a.service.Events()
	req.Equal(domain.MsgCallRequest, msg.Kind)
	req.Equal(102, msg.From)
	req.Equal(101, msg.To)
}

func Test_Duplicate_Discovery_Is_Harmless(t *testing.T) {
	req := require.New(t)
	hub := transport.NewLoopback()
	a := newTestNode(t, hub, 101, "node-a")
	b := newTestNode(t, hub, 102, "node-b")

	hub.DuplicateFrames(true)
	req.NoError(a.service.SendDiscovery())
	req.NoError(a.service.SendDiscovery())

	req.Equal(1, b.directory.Count())
	addr, _ := b.directory.Lookup(101)
	req.Equal(transport.Address("node-a"), addr)
}

func Test_Send_To_Unknown_Number_Fails(t *testing.T) {
	req := require.New(t)
	hub := transport.NewLoopback()
	a := newTestNode(t, hub, 101, "node-a")

	req.ErrorIs(a.service.Send(domain.MsgCallRequest, 999), errors.ErrPeerNotFound)
}

func Test_Frames_For_Other_Numbers_Are_Dropped(t *testing.T) {
	req := require.New(t)
	hub := transport.NewLoopback()
	a := newTestNode(t, hub, 101, "node-a")
	raw := hub.Endpoint("raw-sender")

	// Well-formed frame, wrong recipient.
	frame, err := Encode(domain.Message{Kind: domain.MsgCallRequest, From: 102, To: 999})
	req.NoError(err)
	req.NoError(raw.Send("node-a", frame))

	stats := a.monitoring.Snapshot(a.directory.Count())
	req.Equal(uint64(1), stats.FramesIgnored)
	select {
	case <-a.service.Events():
		t.Fatal("frame for another number must not become an event")
	default:
	}
}

func Test_Malformed_Frame_Counted_And_Dropped(t *testing.T) {
	req := require.New(t)
	hub := transport.NewLoopback()
	a := newTestNode(t, hub, 101, "node-a")
	raw := hub.Endpoint("raw-sender")

	req.NoError(raw.Send("node-a", []byte{0xDE, 0xAD}))

	stats := a.monitoring.Snapshot(a.directory.Count())
	req.Equal(uint64(1), stats.DecodeErrors)
	select {
	case <-a.service.Events():
		t.Fatal("malformed frame must not become an event")
	default:
	}
}

func Test_Directory_Full_Reported_Not_Fatal(t *testing.T) {
	req := require.New(t)
	hub := transport.NewLoopback()
	a := newTestNode(t, hub, 101, "node-a")

	for i := 0; i < 10; i++ {
		req.NoError(a.directory.Upsert(200+i, "addr"))
	}

	b := newTestNode(t, hub, 102, "node-b")
	req.NoError(b.service.SendDiscovery())

	_, ok := a.directory.Lookup(102)
	req.False(ok)
	req.Equal(10, a.directory.Count())
}

type capturedAudio struct {
	frames [][]byte
}

func (c *capturedAudio) WriteFrame(frame []byte) {
	c.frames = append(c.frames, frame)
}

func Test_Audio_Routed_To_Sink_Not_Events(t *testing.T) {
	req := require.New(t)
	hub := transport.NewLoopback()
	a := newTestNode(t, hub, 101, "node-a")
	b := newTestNode(t, hub, 102, "node-b")

	sink := &capturedAudio{}
	b.service.SetAudioSink(sink)

	req.NoError(a.service.SendDiscovery())
	req.NoError(b.service.SendDiscovery())

	req.NoError(a.service.SendAudio(102, []byte{1, 2, 3}))

	req.Len(sink.frames, 1)
	req.Equal([]byte{1, 2, 3}, sink.frames[0])
	select {
	case msg := <-b.service.Events():
		req.Equal(domain.MsgDiscovery, msg.Kind)
	default:
	}
}
