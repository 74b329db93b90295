package observability

import (
	"sync/atomic"
	"time"
)

// MonitoringStats is a point-in-time snapshot of the signaling layer's
// traffic counters for the health report.
type MonitoringStats struct {
	FramesSent     uint64 `json:"frames_sent"`
	FramesReceived uint64 `json:"frames_received"`
	FramesIgnored  uint64 `json:"frames_ignored"`
	DecodeErrors   uint64 `json:"decode_errors"`
	EventsDropped  uint64 `json:"events_dropped"`
	Discoveries    uint64 `json:"discoveries"`
	PeersKnown     int    `json:"peers_known"`
	CollectedAt    string `json:"collected_at"`
}

// MonitoringManager aggregates traffic counters updated from the transport
// receive goroutines and read by the health worker. All counters are
// atomic; no locks are held on the receive path.
type MonitoringManager struct {
	framesSent     uint64
	framesReceived uint64
	framesIgnored  uint64
	decodeErrors   uint64
	eventsDropped  uint64
	discoveries    uint64
}

func NewMonitoringManager() *MonitoringManager {
	return &MonitoringManager{}
}

func (mm *MonitoringManager) IncrFramesSent()     { atomic.AddUint64(&mm.framesSent, 1) }
func (mm *MonitoringManager) IncrFramesReceived() { atomic.AddUint64(&mm.framesReceived, 1) }
func (mm *MonitoringManager) IncrFramesIgnored()  { atomic.AddUint64(&mm.framesIgnored, 1) }
func (mm *MonitoringManager) IncrDecodeErrors()   { atomic.AddUint64(&mm.decodeErrors, 1) }
func (mm *MonitoringManager) IncrEventsDropped()  { atomic.AddUint64(&mm.eventsDropped, 1) }
func (mm *MonitoringManager) IncrDiscoveries()    { atomic.AddUint64(&mm.discoveries, 1) }

func (mm *MonitoringManager) Snapshot(peersKnown int) MonitoringStats {
	return MonitoringStats{
		FramesSent:     atomic.LoadUint64(&mm.framesSent),
		FramesReceived: atomic.LoadUint64(&mm.framesReceived),
		FramesIgnored:  atomic.LoadUint64(&mm.framesIgnored),
		DecodeErrors:   atomic.LoadUint64(&mm.decodeErrors),
		EventsDropped:  atomic.LoadUint64(&mm.eventsDropped),
		Discoveries:    atomic.LoadUint64(&mm.discoveries),
		PeersKnown:     peersKnown,
		CollectedAt:    time.Now().UTC().Format(time.RFC3339),
	}
}
