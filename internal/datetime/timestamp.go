// Package datetime produces and manipulates the "dd.mm.yyyy hh:mm" timestamps
// typed into the date pickers of the transport request form.
package datetime

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Layout is the time layout of a timestamp string.
const Layout = "02.01.2006 15:04"

// ErrFormat is wrapped by every FormatError.
var ErrFormat = errors.New("invalid timestamp format")

// FormatError reports a timestamp string that does not match Layout.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %q (want dd.mm.yyyy hh:mm)", ErrFormat, e.Input)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}

var timestampPattern = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4}) (\d{2}):(\d{2})$`)

// Timestamp is a calendar date with an hour and minute.
// The zero value is 01.01.0001 00:00.
type Timestamp struct {
	// wall clock fields stored in UTC so day arithmetic never crosses a DST change
	t time.Time
}

// FromTime keeps the wall clock date, hour and minute of t and drops the rest.
func FromTime(t time.Time) Timestamp {
	y, m, d := t.Date()
	return Timestamp{t: time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, time.UTC)}
}

// Parse parses a string in the dd.mm.yyyy hh:mm format.
// Out of range fields are rejected rather than normalized.
func Parse(s string) (Timestamp, error) {
	match := timestampPattern.FindStringSubmatch(s)
	if match == nil {
		return Timestamp{}, &FormatError{Input: s}
	}

	fields := make([]int, 5)
	for i := range fields {
		n, err := strconv.Atoi(match[i+1])
		if err != nil {
			return Timestamp{}, &FormatError{Input: s}
		}
		fields[i] = n
	}
	day, month, year, hour, minute := fields[0], fields[1], fields[2], fields[3], fields[4]

	if month < 1 || month > 12 || hour > 23 || minute > 59 {
		return Timestamp{}, &FormatError{Input: s}
	}
	if day < 1 || day > daysIn(time.Month(month), year) {
		return Timestamp{}, &FormatError{Input: s}
	}

	return Timestamp{t: time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)}, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) Timestamp {
	ts, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// AddDays parses source, moves it by days calendar days and formats it again.
// The hour and minute are left untouched.
func AddDays(source string, days int) (string, error) {
	ts, err := Parse(source)
	if err != nil {
		return "", err
	}
	return ts.AddDays(days).String(), nil
}

// AddDays returns ts moved by days calendar days. Negative values move backward.
func (ts Timestamp) AddDays(days int) Timestamp {
	return Timestamp{t: ts.t.AddDate(0, 0, days)}
}

// Time returns the timestamp as a wall clock time in loc.
func (ts Timestamp) Time(loc *time.Location) time.Time {
	y, m, d := ts.t.Date()
	return time.Date(y, m, d, ts.t.Hour(), ts.t.Minute(), 0, 0, loc)
}

// Before reports whether ts is earlier than other.
func (ts Timestamp) Before(other Timestamp) bool {
	return ts.t.Before(other.t)
}

// Equal reports whether ts and other denote the same minute.
func (ts Timestamp) Equal(other Timestamp) bool {
	return ts.t.Equal(other.t)
}

func (ts Timestamp) String() string {
	return ts.t.Format(Layout)
}

// MarshalText implements encoding.TextMarshaler.
func (ts Timestamp) MarshalText() ([]byte, error) {
	return []byte(ts.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (ts *Timestamp) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
