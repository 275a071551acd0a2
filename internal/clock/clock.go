// Package clock provides the current time to the order processor.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// KlineClock reports the time of the kline being processed, which keeps order timestamps
// identical between two runs over the same data.
type KlineClock struct {
	current time.Time
}

func NewKlineClock() *KlineClock {
	return &KlineClock{}
}

// Advance moves the clock to the given kline time.
func (c *KlineClock) Advance(t time.Time) {
	c.current = t
}

func (c *KlineClock) Now() time.Time {
	return c.current
}

// SystemClock reports the wall clock time in UTC.
type SystemClock struct{}

func NewSystemClock() SystemClock {
	return SystemClock{}
}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
