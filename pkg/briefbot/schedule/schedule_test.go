package schedule

import (
	"testing"
	"time"
)

func mustParse(t *testing.T, timeOfDay, tz string) Spec {
	t.Helper()
	spec, err := Parse(timeOfDay, tz)
	if err != nil {
		t.Fatalf("Parse(%q, %q) failed: %v", timeOfDay, tz, err)
	}
	return spec
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := []struct{ timeOfDay, tz string }{
		{"9", "UTC"},
		{"24:00", "UTC"},
		{"12:60", "UTC"},
		{"ab:cd", "UTC"},
		{"09:00", "Not/AZone"},
	}
	for _, c := range cases {
		if _, err := Parse(c.timeOfDay, c.tz); err == nil {
			t.Errorf("Parse(%q, %q): expected error", c.timeOfDay, c.tz)
		}
	}
}

func TestNextBeforeFireTime(t *testing.T) {
	spec := mustParse(t, "09:00", "Europe/Helsinki")
	loc := spec.Location

	now := time.Date(2025, 3, 10, 8, 59, 59, 0, loc)
	next := spec.Next(now)

	want := time.Date(2025, 3, 10, 9, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Errorf("Expected next fire %v, got %v", want, next)
	}
}

func TestNextAfterFireTime(t *testing.T) {
	spec := mustParse(t, "09:00", "Europe/Helsinki")
	loc := spec.Location

	now := time.Date(2025, 3, 10, 9, 0, 1, 0, loc)
	next := spec.Next(now)

	want := time.Date(2025, 3, 11, 9, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Errorf("Expected next fire %v, got %v", want, next)
	}
}

func TestNextExactlyAtFireTime(t *testing.T) {
	spec := mustParse(t, "09:00", "UTC")

	// The fire instant itself is not strictly in the future.
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	next := spec.Next(now)

	want := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Expected next fire %v, got %v", want, next)
	}
}

// TestNextHoldsLocalTimeAcrossDST checks that the schedule keeps the local
// wall-clock time when the zone's offset changes. Helsinki moves from +02:00
// to +03:00 on 2025-03-30, so the two consecutive fire instants are 23 real
// hours apart.
func TestNextHoldsLocalTimeAcrossDST(t *testing.T) {
	spec := mustParse(t, "09:00", "Europe/Helsinki")
	loc := spec.Location

	before := time.Date(2025, 3, 29, 10, 0, 0, 0, loc)
	first := spec.Next(before)  // 2025-03-30 09:00 EEST
	second := spec.Next(first)  // 2025-03-31 09:00 EEST

	if got := first.Hour(); got != 9 {
		t.Errorf("Expected local fire hour 9, got %d", got)
	}
	if got := second.Hour(); got != 9 {
		t.Errorf("Expected local fire hour 9 after DST, got %d", got)
	}
	if gap := second.Sub(first); gap != 24*time.Hour {
		t.Errorf("Expected 24h wall gap between post-transition fires, got %v", gap)
	}
	if gap := first.Sub(time.Date(2025, 3, 29, 9, 0, 0, 0, loc)); gap != 23*time.Hour {
		t.Errorf("Expected 23h real gap across the spring-forward day, got %v", gap)
	}
}

func TestInitialDelay(t *testing.T) {
	spec := mustParse(t, "09:00", "UTC")

	now := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)
	if d := spec.InitialDelay(now); d != 30*time.Minute {
		t.Errorf("Expected 30m initial delay, got %v", d)
	}

	// Next is strictly future, so the delay is always positive.
	now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	if d := spec.InitialDelay(now); d <= 0 {
		t.Errorf("Expected positive delay at the boundary, got %v", d)
	}
}

func TestCronExpr(t *testing.T) {
	spec := mustParse(t, "18:30", "UTC")
	if got := spec.CronExpr(); got != "30 18 * * *" {
		t.Errorf("Expected cron expression \"30 18 * * *\", got %q", got)
	}
}
