package datetime

import (
	"time"

	"github.com/rickar/cal/v2"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system time.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}

// Generator produces timestamps relative to the current time.
// It has no mutable state and is safe for concurrent use.
type Generator struct {
	clock    Clock
	calendar *cal.BusinessCalendar
}

// NewGenerator creates a generator reading the time from clock.
// A nil clock falls back to SystemClock.
func NewGenerator(clock Clock) *Generator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Generator{
		clock:    clock,
		calendar: NewCarrierCalendar(),
	}
}

// FutureTimestamp returns the current hour and minute on the date daysAhead
// days from today. Zero and negative offsets are accepted and move the date
// to today or into the past.
func (g *Generator) FutureTimestamp(daysAhead int) Timestamp {
	now := g.clock.Now()
	y, m, d := now.Date()
	return Timestamp{t: time.Date(y, m, d+daysAhead, now.Hour(), now.Minute(), 0, 0, time.UTC)}
}

// FutureBusinessTimestamp is like FutureTimestamp but rolls the date forward
// to the next day carriers pick up on.
func (g *Generator) FutureBusinessTimestamp(daysAhead int) Timestamp {
	ts := g.FutureTimestamp(daysAhead)
	// a year of closed days means the calendar is broken, not that we should spin
	for i := 0; i < 366 && !g.calendar.IsWorkday(ts.t); i++ {
		ts = ts.AddDays(1)
	}
	return ts
}

var defaultGenerator = NewGenerator(SystemClock{})

// FutureTimestamp returns the current hour and minute daysAhead days from today.
func FutureTimestamp(daysAhead int) Timestamp {
	return defaultGenerator.FutureTimestamp(daysAhead)
}

// FutureBusinessTimestamp is FutureTimestamp rolled forward to a carrier workday.
func FutureBusinessTimestamp(daysAhead int) Timestamp {
	return defaultGenerator.FutureBusinessTimestamp(daysAhead)
}
