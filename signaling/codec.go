// Package signaling encodes, decodes and routes the typed messages phones
// exchange over the lossy peer link, and maintains the directory mapping
// phone numbers to link addresses.
package signaling

import (
	"encoding/binary"

	"retrobell/domain"
	"retrobell/errors"
	"retrobell/transport"
)

// Wire layout, big-endian, bounded by the link MTU:
//
//	kind     uint8
//	from     int32
//	to       int32   (-1 = broadcast)
//	length   uint16
//	payload  [length]byte
const (
	headerSize     = 11
	MaxFrameSize   = transport.MaxDatagramSize
	MaxPayloadSize = MaxFrameSize - headerSize
)

func Encode(m domain.Message) ([]byte, error) {
	if m.Kind > domain.MsgAudioData {
		return nil, errors.ErrUnknownKind
	}
	if len(m.Payload) > MaxPayloadSize {
		return nil, errors.ErrPayloadTooLarge
	}
	frame := make([]byte, headerSize+len(m.Payload))
	frame[0] = byte(m.Kind)
	binary.BigEndian.PutUint32(frame[1:5], uint32(int32(m.From)))
	binary.BigEndian.PutUint32(frame[5:9], uint32(int32(m.To)))
	binary.BigEndian.PutUint16(frame[9:11], uint16(len(m.Payload)))
	copy(frame[headerSize:], m.Payload)
	return frame, nil
}

func Decode(frame []byte) (domain.Message, error) {
	if len(frame) < headerSize {
		return domain.Message{}, errors.ErrFrameTooShort
	}
	if len(frame) > MaxFrameSize {
		return domain.Message{}, errors.ErrFrameTooLarge
	}
	kind := domain.MessageKind(frame[0])
	if kind > domain.MsgAudioData {
		return domain.Message{}, errors.ErrUnknownKind
	}
	length := int(binary.BigEndian.Uint16(frame[9:11]))
	if len(frame) != headerSize+length {
		return domain.Message{}, errors.ErrFrameTooShort
	}
	m := domain.Message{
		Kind: kind,
		From: int(int32(binary.BigEndian.Uint32(frame[1:5]))),
		To:   int(int32(binary.BigEndian.Uint32(frame[5:9]))),
	}
	if length > 0 {
		m.Payload = make([]byte, length)
		copy(m.Payload, frame[headerSize:])
	}
	return m, nil
}
