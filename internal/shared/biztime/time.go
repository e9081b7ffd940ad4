// Package biztime provides utilities for business timezone calculations.
// All storage and transport use UTC. The business timezone is only used to
// find calendar-day boundaries: a visit scheduled for "2026-10-14" means that
// day at the facility, whatever zone the client or database runs in.
package biztime

import (
	"fmt"
	"sync"
	"time"

	"github.com/jinzhu/now"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "UTC"

	// DateLayout is the wire and query format of a calendar date.
	DateLayout = "2006-01-02"
)

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Clock returns the current instant. Components take a Clock so tests can pin time.
type Clock func() time.Time

// Init initializes the business timezone. Should be called once at startup.
// If tz is empty, defaults to UTC.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// Location returns the business timezone location, initializing the default on first use.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDayUTC returns 00:00:00 of t's business day, converted to UTC.
func StartOfDayUTC(t time.Time) time.Time {
	return now.With(t.In(Location())).BeginningOfDay().UTC()
}

// IsBeforeToday reports whether day falls on a business day strictly earlier than
// the business day containing at.
func IsBeforeToday(day, at time.Time) bool {
	return StartOfDayUTC(day).Before(StartOfDayUTC(at))
}

// ParseDateInBizTimezone parses a date string (YYYY-MM-DD) as business timezone midnight,
// then returns the UTC equivalent.
func ParseDateInBizTimezone(dateStr string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, dateStr, Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", dateStr, err)
	}
	return t.UTC(), nil
}

// FormatDate formats a UTC instant as its business-timezone calendar date.
func FormatDate(t time.Time) string {
	return t.In(Location()).Format(DateLayout)
}

// FormatInBizTimezone formats a UTC time as a string in business timezone.
func FormatInBizTimezone(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}
