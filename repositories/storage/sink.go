package storage

import (
	"context"
	"fmt"
	"log/slog"

	"retrobell/domain/event"
	"retrobell/repositories"
)

// CallLogSink persists CallClosed events into the call history. Other
// domain events pass through untouched.
type CallLogSink struct {
	repository repositories.ICallLogRepository
	log        *slog.Logger
}

func NewCallLogSink(repository repositories.ICallLogRepository, log *slog.Logger) CallLogSink {
	return CallLogSink{repository: repository, log: log}
}

func (s CallLogSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.CallClosed:
		return s.repository.StoreCall(evt.Record)
	default:
		s.log.Debug(fmt.Sprintf("Event not persisted : %T", evt))
		return nil
	}
}
