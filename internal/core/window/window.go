// Package window computes the time range an archive covers
package window

import (
	"time"

	perr "apmarchive/internal/platform/errors"
)

// Layout is the ISO-8601 form written to metadata and queries: UTC, millisecond precision
const Layout = "2006-01-02T15:04:05.000Z"

const (
	// DefaultLookback is how far before now the window starts
	DefaultLookback = time.Hour
	// DefaultSpan is the window length
	DefaultSpan = 30 * time.Minute
)

// Window is a half-open range [Start, End)
type Window struct {
	Start time.Time
	End   time.Time
}

// New returns the window starting lookback before now and lasting span.
// Start is truncated to milliseconds so its formatted form parses back to the same instant
func New(now time.Time, lookback, span time.Duration) (Window, error) {
	if span <= 0 {
		return Window{}, perr.Validationf("window span must be positive, got %s", span)
	}
	if lookback < 0 {
		return Window{}, perr.Validationf("window lookback must not be negative, got %s", lookback)
	}
	start := now.Add(-lookback).UTC().Truncate(time.Millisecond)
	return Window{Start: start, End: start.Add(span)}, nil
}

// GTE is the formatted inclusive lower bound
func (w Window) GTE() string { return Format(w.Start) }

// LT is the formatted exclusive upper bound
func (w Window) LT() string { return Format(w.End) }

// Contains reports whether t falls in [Start, End)
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Format renders t with Layout
func Format(t time.Time) string { return t.UTC().Format(Layout) }

// Parse reads any RFC 3339 timestamp, including Layout
func Parse(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) }
