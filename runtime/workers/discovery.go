package workers

import (
	"context"
	"log/slog"
	"time"

	"retrobell/signaling"
)

// DiscoveryWorker announces this phone's number on the broadcast address
// at a fixed interval so peers can keep their directories warm. The link
// is lossy; missing one announcement only delays discovery until the next.
type DiscoveryWorker struct {
	log       *slog.Logger
	signaling *signaling.Service
	interval  time.Duration
}

func NewDiscoveryWorker(log *slog.Logger, s *signaling.Service, interval time.Duration) *DiscoveryWorker {
	return &DiscoveryWorker{log: log, signaling: s, interval: interval}
}

func (w *DiscoveryWorker) Run(ctx context.Context) error {
	w.log.Info("Starting discovery worker", "number", w.signaling.Self(), "interval", w.interval)

	// Announce immediately so a fresh boot is visible before the first tick.
	if err := w.signaling.SendDiscovery(); err != nil {
		w.log.Warn("Discovery announcement failed", "err", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.signaling.SendDiscovery(); err != nil {
				w.log.Warn("Discovery announcement failed", "err", err)
			}
		}
	}
}
