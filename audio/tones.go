// Package audio defines the tone-player collaborator boundary. Tone
// synthesis itself lives behind the Player interface; this package only
// names the plans the call controller can request.
package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type PlanKind int

const (
	Silence PlanKind = iota
	Continuous
	Cadenced
)

// Plan describes one tone request: a steady frequency, a cadenced
// on/off pattern, or silence.
type Plan struct {
	Kind PlanKind
	Freq float64
	On   time.Duration
	Off  time.Duration
}

// Standard North American style tones, matching the original hardware.
var (
	DialTone     = Plan{Kind: Continuous, Freq: 350}
	RingbackTone = Plan{Kind: Cadenced, Freq: 440, On: 2 * time.Second, Off: 4 * time.Second}
	RingTone     = Plan{Kind: Cadenced, Freq: 440, On: 2 * time.Second, Off: 4 * time.Second}
	ErrorTone    = Plan{Kind: Cadenced, Freq: 480, On: 250 * time.Millisecond, Off: 250 * time.Millisecond}
	BusyTone     = Plan{Kind: Cadenced, Freq: 480, On: 500 * time.Millisecond, Off: 500 * time.Millisecond}
	ToneOff      = Plan{Kind: Silence}
)

func (p Plan) String() string {
	switch p.Kind {
	case Silence:
		return "silence"
	case Continuous:
		return fmt.Sprintf("continuous %.0fHz", p.Freq)
	default:
		return fmt.Sprintf("cadenced %.0fHz %v/%v", p.Freq, p.On, p.Off)
	}
}

// Player is fire-and-forget and idempotent: repeating the current plan
// must be a no-op.
type Player interface {
	Play(p Plan)
}

// Source supplies microphone frames to forward while a call is active.
// ReadFrame returns false when no frame is available right now.
type Source interface {
	ReadFrame() ([]byte, bool)
}

// Sink receives voice payloads addressed to this phone.
type Sink interface {
	WriteFrame(frame []byte)
}

// LogPlayer reports tone changes through the logger instead of driving
// a speaker. It stands in for real synthesis on hosts without audio.
type LogPlayer struct {
	log *slog.Logger

	mu      sync.Mutex
	current Plan
}

func NewLogPlayer(log *slog.Logger) *LogPlayer {
	return &LogPlayer{log: log}
}

func (p *LogPlayer) Play(plan Plan) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if plan == p.current {
		return
	}
	p.current = plan
	p.log.Info("Tone change", "tone", plan.String())
}
