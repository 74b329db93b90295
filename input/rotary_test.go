package input

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	pulseDebounce = 10 * time.Millisecond
	safetyTimeout = 3 * time.Second
)

// dial simulates a full rotation returning to rest with the given number
// of pulses, advancing a synthetic clock. Returns the new clock value.
func dial(r *RotaryDecoder, now time.Time, pulses int) time.Time {
	// Dial leaves rest.
	now = now.Add(20 * time.Millisecond)
	r.Feed(true, false, now)
	for i := 0; i < pulses; i++ {
		now = now.Add(40 * time.Millisecond)
		r.Feed(false, false, now) // break
		now = now.Add(40 * time.Millisecond)
		r.Feed(true, false, now) // make
	}
	// Dial back at rest.
	now = now.Add(20 * time.Millisecond)
	r.Feed(true, true, now)
	return now
}

func Test_Rotary_Pulse_Counts_Map_To_Digits(t *testing.T) {
	for pulses := 1; pulses <= 10; pulses++ {
		t.Run(fmt.Sprintf("%d_pulses", pulses), func(t *testing.T) {
			req := require.New(t)
			r := NewRotaryDecoder(pulseDebounce, safetyTimeout)
			dial(r, time.Now(), pulses)

			digit, ok := r.TakeDigit()
			req.True(ok)
			req.Equal(pulses%10, digit)

			// The latch is consumed.
			_, ok = r.TakeDigit()
			req.False(ok)
		})
	}
}

func Test_Rotary_Digit_Ready_On_Rest_Edge(t *testing.T) {
	req := require.New(t)
	r := NewRotaryDecoder(pulseDebounce, safetyTimeout)
	now := time.Now()

	now = now.Add(20 * time.Millisecond)
	r.Feed(true, false, now)
	now = now.Add(40 * time.Millisecond)
	r.Feed(false, false, now)
	now = now.Add(40 * time.Millisecond)
	r.Feed(true, false, now)

	// Still off-rest: no digit yet.
	_, ok := r.TakeDigit()
	req.False(ok)
	req.True(r.Dialing())

	// Rest edge delivers the digit immediately.
	now = now.Add(20 * time.Millisecond)
	r.Feed(true, true, now)
	digit, ok := r.TakeDigit()
	req.True(ok)
	req.Equal(1, digit)
}

func Test_Rotary_Contact_Bounce_Not_Counted(t *testing.T) {
	req := require.New(t)
	r := NewRotaryDecoder(pulseDebounce, safetyTimeout)
	now := time.Now()

	now = now.Add(20 * time.Millisecond)
	r.Feed(true, false, now)

	// One real pulse followed by sub-debounce chatter.
	now = now.Add(40 * time.Millisecond)
	r.Feed(false, false, now)
	for i := 0; i < 4; i++ {
		now = now.Add(2 * time.Millisecond)
		r.Feed(i%2 == 0, false, now)
	}

	now = now.Add(40 * time.Millisecond)
	r.Feed(true, true, now)

	digit, ok := r.TakeDigit()
	req.True(ok)
	req.Equal(1, digit)
}

func Test_Rotary_Safety_Timeout_Forces_Completion(t *testing.T) {
	req := require.New(t)
	r := NewRotaryDecoder(pulseDebounce, safetyTimeout)
	now := time.Now()

	now = now.Add(20 * time.Millisecond)
	r.Feed(true, false, now)
	now = now.Add(40 * time.Millisecond)
	r.Feed(false, false, now)
	now = now.Add(40 * time.Millisecond)
	r.Feed(true, false, now)
	now = now.Add(40 * time.Millisecond)
	r.Feed(false, false, now)
	now = now.Add(40 * time.Millisecond)
	r.Feed(true, false, now)

	// The dial jams off-rest. Past the safety timeout the accumulated
	// count is delivered anyway.
	now = now.Add(safetyTimeout + time.Second)
	r.Feed(true, false, now)

	digit, ok := r.TakeDigit()
	req.True(ok)
	req.Equal(2, digit)
	req.False(r.Dialing())
}

func Test_Rotary_Rest_Without_Pulses_Yields_Nothing(t *testing.T) {
	req := require.New(t)
	r := NewRotaryDecoder(pulseDebounce, safetyTimeout)
	now := time.Now()

	now = now.Add(20 * time.Millisecond)
	r.Feed(true, false, now)
	now = now.Add(50 * time.Millisecond)
	r.Feed(true, true, now)

	_, ok := r.TakeDigit()
	req.False(ok)
}
