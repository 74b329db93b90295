package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"retrobell/observability"
	"retrobell/signaling"
)

// HealthWorker periodically logs self stats (CPU, RAM, OS status) together
// with the signaling traffic counters. On the original hardware this went
// to the serial console; here it is the structured log.
type HealthWorker struct {
	log        *slog.Logger
	monitoring *observability.MonitoringManager
	directory  *signaling.Directory
	interval   time.Duration
}

func NewHealthWorker(
	log *slog.Logger,
	monitoring *observability.MonitoringManager,
	directory *signaling.Directory,
	interval time.Duration,
) *HealthWorker {
	return &HealthWorker{
		log:        log,
		monitoring: monitoring,
		directory:  directory,
		interval:   interval,
	}
}

func (w *HealthWorker) Run(ctx context.Context) error {
	w.log.Info("Starting health worker", "interval", w.interval)

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, status, err := getSelfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			stats := w.monitoring.Snapshot(w.directory.Count())
			w.log.Info("Health report",
				"pid", os.Getpid(),
				"pid_status", status,
				"cpu_percent", cpu,
				"ram_bytes", rss,
				"frames_sent", stats.FramesSent,
				"frames_received", stats.FramesReceived,
				"frames_ignored", stats.FramesIgnored,
				"decode_errors", stats.DecodeErrors,
				"events_dropped", stats.EventsDropped,
				"discoveries", stats.Discoveries,
				"peers_known", stats.PeersKnown,
			)
		}
	}
}

// getSelfStats retrieves technical metrics (Memory, CPU, and OS Status) for the given process.
func getSelfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}

	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
