package window

import (
	"testing"
	"time"

	perr "apmarchive/internal/platform/errors"
)

func TestNew_Offsets(t *testing.T) {
	nows := []time.Time{
		time.Date(2020, 12, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2021, 1, 1, 0, 15, 30, 123456789, time.UTC),
		time.Date(2024, 2, 29, 23, 59, 59, 999000000, time.FixedZone("CET", 3600)),
	}
	for _, now := range nows {
		w, err := New(now, DefaultLookback, DefaultSpan)
		if err != nil {
			t.Fatalf("New(%s): %v", now, err)
		}
		wantStart := now.Add(-time.Hour).UTC().Truncate(time.Millisecond)
		if !w.Start.Equal(wantStart) {
			t.Fatalf("start = %s, want %s", w.Start, wantStart)
		}
		if got := w.End.Sub(w.Start); got != 30*time.Minute {
			t.Fatalf("span = %s, want 30m", got)
		}
		if !w.End.After(w.Start) {
			t.Fatalf("end %s not after start %s", w.End, w.Start)
		}
		if w.Start.Location() != time.UTC {
			t.Fatalf("start not in UTC: %s", w.Start.Location())
		}
	}
}

func TestNew_RejectsBadDurations(t *testing.T) {
	now := time.Now()
	if _, err := New(now, time.Hour, 0); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("zero span: expected validation error, got %v", err)
	}
	if _, err := New(now, -time.Minute, time.Minute); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("negative lookback: expected validation error, got %v", err)
	}
}

func TestFormat_RoundTrips(t *testing.T) {
	now := time.Date(2020, 12, 8, 15, 4, 5, 678912345, time.UTC)
	w, err := New(now, time.Hour, 30*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if got := w.GTE(); got != "2020-12-08T14:04:05.678Z" {
		t.Fatalf("GTE = %q", got)
	}
	if got := w.LT(); got != "2020-12-08T14:34:05.678Z" {
		t.Fatalf("LT = %q", got)
	}
	back, err := Parse(w.GTE())
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(w.Start) {
		t.Fatalf("Parse(GTE) = %s, want %s", back, w.Start)
	}
}

func TestContains_HalfOpen(t *testing.T) {
	w, _ := New(time.Date(2020, 1, 1, 1, 0, 0, 0, time.UTC), time.Hour, 30*time.Minute)
	cases := []struct {
		at   time.Time
		want bool
	}{
		{w.Start, true},
		{w.Start.Add(time.Minute), true},
		{w.End.Add(-time.Millisecond), true},
		{w.End, false},
		{w.Start.Add(-time.Millisecond), false},
	}
	for _, c := range cases {
		if got := w.Contains(c.at); got != c.want {
			t.Fatalf("Contains(%s) = %v, want %v", c.at, got, c.want)
		}
	}
}
