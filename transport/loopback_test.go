package transport

import (
	"testing"

	"github.com/stretchr/testify/require"

	"retrobell/errors"
)

func Test_Loopback_Broadcast_Reaches_All_But_Sender(t *testing.T) {
	req := require.New(t)
	hub := NewLoopback()

	a := hub.Endpoint("a")
	b := hub.Endpoint("b")
	c := hub.Endpoint("c")

	got := make(map[Address][]byte)
	b.Subscribe(func(sender Address, frame []byte) { got["b"] = frame })
	c.Subscribe(func(sender Address, frame []byte) { got["c"] = frame })
	a.Subscribe(func(sender Address, frame []byte) { got["a"] = frame })

	req.NoError(a.Send(Broadcast, []byte{1, 2, 3}))
	req.Equal([]byte{1, 2, 3}, got["b"])
	req.Equal([]byte{1, 2, 3}, got["c"])
	req.Nil(got["a"])
}

func Test_Loopback_Unicast_And_Sender_Identity(t *testing.T) {
	req := require.New(t)
	hub := NewLoopback()

	a := hub.Endpoint("a")
	b := hub.Endpoint("b")

	var from Address
	b.Subscribe(func(sender Address, frame []byte) { from = sender })

	req.NoError(a.Send("b", []byte{9}))
	req.Equal(Address("a"), from)
}

func Test_Loopback_Drop_And_Duplicate(t *testing.T) {
	req := require.New(t)
	hub := NewLoopback()

	a := hub.Endpoint("a")
	b := hub.Endpoint("b")

	deliveries := 0
	b.Subscribe(func(sender Address, frame []byte) { deliveries++ })

	hub.DropNext(1)
	req.NoError(a.Send("b", []byte{1}))
	req.Equal(0, deliveries)

	hub.DuplicateFrames(true)
	req.NoError(a.Send("b", []byte{1}))
	req.Equal(2, deliveries)
}

func Test_Loopback_Rejects_Oversized_Frame(t *testing.T) {
	req := require.New(t)
	hub := NewLoopback()
	a := hub.Endpoint("a")

	err := a.Send(Broadcast, make([]byte, MaxDatagramSize+1))
	req.ErrorIs(err, errors.ErrFrameTooLarge)
}

func Test_Loopback_Closed_Endpoint_Neither_Sends_Nor_Receives(t *testing.T) {
	req := require.New(t)
	hub := NewLoopback()

	a := hub.Endpoint("a")
	b := hub.Endpoint("b")

	received := false
	b.Subscribe(func(sender Address, frame []byte) { received = true })
	req.NoError(b.Close())

	req.NoError(a.Send("b", []byte{1}))
	req.False(received)

	req.NoError(a.Close())
	req.ErrorIs(a.Send("b", []byte{1}), errors.ErrTransportClosed)
}
