package event

import (
	"time"

	"retrobell/domain"
)

type DomainEvent interface {
	OccurredAt() time.Time
}

type StateChanged struct {
	From domain.PhoneState
	To   domain.PhoneState
	At   time.Time
}

func (e StateChanged) OccurredAt() time.Time { return e.At }

type DigitDialed struct {
	Digit int
	At    time.Time
}

func (e DigitDialed) OccurredAt() time.Time { return e.At }

type NumberDialed struct {
	Number int
	At     time.Time
}

func (e NumberDialed) OccurredAt() time.Time { return e.At }

type PeerDiscovered struct {
	Number  int
	Address string
	At      time.Time
}

func (e PeerDiscovered) OccurredAt() time.Time { return e.At }

type CallClosed struct {
	Record domain.CallRecord
}

func (e CallClosed) OccurredAt() time.Time { return e.Record.EndedAt }
