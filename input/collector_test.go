package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const dialTimeout = 3 * time.Second

func Test_Collector_Completes_On_Max_Digits(t *testing.T) {
	req := require.New(t)
	now := time.Now()
	c := NewCollector(3, dialTimeout)

	c.Start(now)
	for _, d := range []int{1, 0, 2} {
		now = now.Add(time.Second)
		req.False(c.Complete(now))
		c.OnDigit(d, now)
	}
	req.True(c.Complete(now))
	req.Equal(102, c.Number())
}

func Test_Collector_Completes_On_Silence(t *testing.T) {
	req := require.New(t)
	now := time.Now()
	c := NewCollector(3, dialTimeout)

	c.Start(now)
	c.OnDigit(7, now)
	req.False(c.Complete(now.Add(dialTimeout-time.Millisecond)))
	req.True(c.Complete(now.Add(dialTimeout)))
	req.Equal(7, c.Number())
}

func Test_Collector_Empty_Buffer_Never_Completes(t *testing.T) {
	req := require.New(t)
	now := time.Now()
	c := NewCollector(3, dialTimeout)

	c.Start(now)
	req.False(c.Complete(now.Add(time.Minute)))
	req.False(c.Started())
}

func Test_Collector_Drops_Digits_After_Completion(t *testing.T) {
	req := require.New(t)
	now := time.Now()
	c := NewCollector(3, dialTimeout)

	c.Start(now)
	c.OnDigit(4, now)
	now = now.Add(dialTimeout)
	req.True(c.Complete(now))

	c.OnDigit(9, now)
	req.Equal(4, c.Number())
}

func Test_Collector_Reset_Clears_Everything(t *testing.T) {
	req := require.New(t)
	now := time.Now()
	c := NewCollector(3, dialTimeout)

	c.Start(now)
	c.OnDigit(1, now)
	c.OnDigit(2, now)
	c.Reset()

	req.False(c.Started())
	req.Equal(-1, c.Number())
	req.False(c.Complete(now.Add(time.Minute)))

	// Digits without a Start are ignored.
	c.OnDigit(5, now)
	req.Equal(-1, c.Number())
}

func Test_Collector_Number_Is_Decimal_Parse(t *testing.T) {
	req := require.New(t)
	now := time.Now()
	c := NewCollector(3, dialTimeout)

	c.Start(now)
	c.OnDigit(0, now)
	c.OnDigit(4, now)
	now = now.Add(dialTimeout)
	req.True(c.Complete(now))
	req.Equal(4, c.Number())
}
