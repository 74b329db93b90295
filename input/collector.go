package input

import "time"

// Collector assembles single digits into a complete dialed number.
// A number is complete once it reaches maxDigits, or once the user has
// stayed silent for the completion timeout with at least one digit dialed.
// Digits arriving after completion and before Reset are dropped.
type Collector struct {
	maxDigits int
	timeout   time.Duration

	digits     []int
	lastDigit  time.Time
	collecting bool
	complete   bool
}

func NewCollector(maxDigits int, timeout time.Duration) *Collector {
	return &Collector{maxDigits: maxDigits, timeout: timeout}
}

// Start clears the buffer and arms collection. Called when the handset
// comes off the hook.
func (c *Collector) Start(now time.Time) {
	c.digits = c.digits[:0]
	c.lastDigit = now
	c.collecting = true
	c.complete = false
}

func (c *Collector) OnDigit(d int, now time.Time) {
	if !c.collecting || c.complete {
		return
	}
	c.digits = append(c.digits, d)
	c.lastDigit = now
}

// Complete reports whether the dialed number is finished. The result
// latches: once complete, it stays complete until Reset.
func (c *Collector) Complete(now time.Time) bool {
	if c.complete {
		return true
	}
	if !c.collecting || len(c.digits) == 0 {
		return false
	}
	if len(c.digits) >= c.maxDigits || now.Sub(c.lastDigit) >= c.timeout {
		c.complete = true
	}
	return c.complete
}

// Started reports whether at least one digit has been dialed.
func (c *Collector) Started() bool {
	return c.collecting && len(c.digits) > 0
}

// Number parses the buffer as a decimal integer, e.g. [1 0 2] -> 102.
func (c *Collector) Number() int {
	if len(c.digits) == 0 {
		return -1
	}
	n := 0
	for _, d := range c.digits {
		n = n*10 + d
	}
	return n
}

func (c *Collector) Reset() {
	c.digits = c.digits[:0]
	c.collecting = false
	c.complete = false
	c.lastDigit = time.Time{}
}
