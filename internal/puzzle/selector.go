// Package puzzle maps calendar dates to the word of the day.
package puzzle

import (
	"fmt"
	"strconv"
	"time"

	"semord/internal/corpus"
)

// DateLayout is the canonical date key format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

const hashLayout = "20060102"

// Selector picks the daily word. It is a pure function of the date and the fixed
// corpus ordering, so restarts never change the word for a given day.
type Selector struct {
	corpus   *corpus.Corpus
	location *time.Location
	now      func() time.Time
}

// Option configures a Selector.
type Option func(*Selector)

// WithLocation sets the time zone used to decide what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Selector) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Selector) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSelector builds a Selector over c. Dates default to UTC.
func NewSelector(c *corpus.Corpus, opts ...Option) *Selector {
	s := &Selector{corpus: c, location: time.UTC, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WordForDate returns the word for the calendar date of d. Only the year, month and
// day of d matter; its clock time and location are ignored.
func (s *Selector) WordForDate(d time.Time) string {
	return s.corpus.At(Index(d, s.corpus.Len()))
}

// Index is YYYYMMDD read as an unsigned integer, modulo n.
func Index(d time.Time, n int) int {
	if n <= 0 {
		return 0
	}
	v, err := strconv.ParseUint(d.Format(hashLayout), 10, 64)
	if err != nil {
		// Format always yields digits for years 0-9999.
		return 0
	}
	return int(v % uint64(n))
}

// Today returns the current calendar date in the selector's location.
func (s *Selector) Today() time.Time {
	return s.Date(s.now())
}

// Date truncates t to midnight of its calendar day in the selector's location.
func (s *Selector) Date(t time.Time) time.Time {
	t = t.In(s.location)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.location)
}

// ParseDate parses a YYYY-MM-DD string as a date in the selector's location.
func (s *Selector) ParseDate(value string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, value, s.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", value)
	}
	return d, nil
}

// Location returns the selector's time zone.
func (s *Selector) Location() *time.Location { return s.location }

// DateKey formats a date as YYYY-MM-DD.
func DateKey(d time.Time) string {
	return d.Format(DateLayout)
}
