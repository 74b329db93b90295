package input

import (
	"sync"
	"time"
)

// RotaryDecoder counts the make/break pulses a rotary dial produces as it
// returns to rest and converts them into digits.
//
// Both lines are active-low with a pull-up: the active line drops while the
// dial is away from rest, and the pulse line drops once per pulse. The
// falling edge of the pulse line is the counted one. A variant wired the
// other way around inverts the levels at its Line, not here.
//
// Feed may run in a different goroutine than TakeDigit, so the counter and
// the digit-ready latch are exchanged under the mutex, never read raw.
type RotaryDecoder struct {
	mu sync.Mutex

	pulseDebounce time.Duration
	safetyTimeout time.Duration

	dialing   bool
	pulses    int
	dialStart time.Time
	lastPulse time.Time

	lastPulseLevel  bool
	lastActiveLevel bool

	digit int
	ready bool
}

func NewRotaryDecoder(pulseDebounce, safetyTimeout time.Duration) *RotaryDecoder {
	return &RotaryDecoder{
		pulseDebounce:   pulseDebounce,
		safetyTimeout:   safetyTimeout,
		lastPulseLevel:  true,
		lastActiveLevel: true,
	}
}

// Feed consumes one sample of both lines. It never blocks, allocates or logs.
func (r *RotaryDecoder) Feed(pulseLevel, activeLevel bool, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Dial left its rest position: a digit is being wound up.
	if !activeLevel && r.lastActiveLevel && !r.dialing {
		r.dialing = true
		r.pulses = 0
		r.dialStart = now
	}

	if r.dialing && !pulseLevel && r.lastPulseLevel {
		if now.Sub(r.lastPulse) > r.pulseDebounce {
			r.pulses++
			r.lastPulse = now
		}
	}

	// Dial back at rest: the accumulated pulse count is the digit.
	if activeLevel && !r.lastActiveLevel && r.dialing {
		r.complete()
	}

	// A dial stuck off-rest past the safety timeout is a hardware fault;
	// recover by completing with whatever was counted.
	if r.dialing && now.Sub(r.dialStart) > r.safetyTimeout {
		r.complete()
	}

	r.lastPulseLevel = pulseLevel
	r.lastActiveLevel = activeLevel
}

func (r *RotaryDecoder) complete() {
	r.dialing = false
	if r.pulses == 0 {
		return
	}
	// Ten pulses mean zero; the dial ends at it.
	r.digit = r.pulses % 10
	r.ready = true
	r.pulses = 0
}

// TakeDigit returns the decoded digit once and clears the latch.
func (r *RotaryDecoder) TakeDigit() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ready {
		return -1, false
	}
	r.ready = false
	return r.digit, true
}

// Dialing reports whether the dial is currently away from rest.
func (r *RotaryDecoder) Dialing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dialing
}
