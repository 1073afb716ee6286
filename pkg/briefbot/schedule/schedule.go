// Package schedule computes when the daily summary fires. The schedule is a
// local time-of-day in a named timezone: "same local time every day", so a
// DST transition shifts the absolute UTC instant by the zone's offset delta.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Spec is a daily time-of-day schedule pinned to a timezone.
type Spec struct {
	Hour     int
	Minute   int
	Location *time.Location
}

// Parse builds a Spec from a "HH:MM" time string and an IANA timezone name.
func Parse(timeOfDay, timezone string) (Spec, error) {
	parts := strings.Split(timeOfDay, ":")
	if len(parts) != 2 {
		return Spec{}, fmt.Errorf("schedule: invalid time %q, expected HH:MM", timeOfDay)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return Spec{}, fmt.Errorf("schedule: invalid hour in %q", timeOfDay)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return Spec{}, fmt.Errorf("schedule: invalid minute in %q", timeOfDay)
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Spec{}, fmt.Errorf("schedule: invalid timezone %q: %w", timezone, err)
	}

	return Spec{Hour: hour, Minute: minute, Location: loc}, nil
}

// Next returns the next fire instant strictly after now: today at the
// configured time-of-day in the configured zone, or tomorrow if that has
// already passed. Computed with time.Date in the target zone, so the result
// lands on the correct wall-clock time across DST transitions.
func (s Spec) Next(now time.Time) time.Time {
	local := now.In(s.Location)
	fire := time.Date(local.Year(), local.Month(), local.Day(), s.Hour, s.Minute, 0, 0, s.Location)
	if !fire.After(now) {
		fire = time.Date(local.Year(), local.Month(), local.Day()+1, s.Hour, s.Minute, 0, 0, s.Location)
	}
	return fire
}

// InitialDelay returns how long to wait before the first run. A non-positive
// value means the caller should run immediately and let the recurring
// schedule take over.
func (s Spec) InitialDelay(now time.Time) time.Duration {
	return s.Next(now).Sub(now)
}

// CronExpr returns the 5-field cron expression for this schedule. Run it on
// a cron instance pinned to s.Location so the local time-of-day holds fixed.
func (s Spec) CronExpr() string {
	return fmt.Sprintf("%d %d * * *", s.Minute, s.Hour)
}

// String renders the schedule for logs, e.g. "09:00 Europe/Helsinki".
func (s Spec) String() string {
	return fmt.Sprintf("%02d:%02d %s", s.Hour, s.Minute, s.Location)
}
