package runtime

import (
	"context"
	"log/slog"

	"retrobell/domain/event"
)

// LogSink writes every domain event to the structured log. It is the
// always-on sink; persistence sinks are registered next to it.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) LogSink {
	return LogSink{log: log}
}

func (s LogSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.StateChanged:
		s.log.Debug("Phone state changed", "from", evt.From.String(), "to", evt.To.String())
	case event.DigitDialed:
		s.log.Debug("Digit dialed", "digit", evt.Digit)
	case event.NumberDialed:
		s.log.Info("Number dialed", "number", evt.Number)
	case event.PeerDiscovered:
		s.log.Debug("Peer discovered", "number", evt.Number, "address", evt.Address)
	case event.CallClosed:
		s.log.Info("Call closed",
			"peer", evt.Record.Peer,
			"direction", string(evt.Record.Direction),
			"outcome", string(evt.Record.Outcome),
			"duration", evt.Record.EndedAt.Sub(evt.Record.StartedAt).String(),
		)
	}
	return nil
}
