package epg

import (
	"errors"
	"strconv"
	"time"
)

const (
	defaultWindowDays = 7
	minWindowDays     = 1
	maxWindowDays     = 14
)

// ErrInvalidWindow marks a request with an unusable time window.
var ErrInvalidWindow = errors.New("invalid epg window")

// Window is the half-open interval [Start, End) of requested programme data.
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseWindow builds the window from raw query parameters. All parameters are
// optional: the default is [now, now+7d). An explicit start/end pair (RFC 3339)
// wins over days; a bare days value is clamped to [1,14]. An unparseable start
// or a window with end <= start is a validation failure.
func ParseWindow(startRaw, endRaw, daysRaw string, now time.Time) (Window, error) {
	start := now.UTC()
	if startRaw != "" {
		parsed, err := time.Parse(time.RFC3339, startRaw)
		if err != nil {
			return Window{}, ErrInvalidWindow
		}
		start = parsed.UTC()
	}

	if endRaw != "" {
		end, err := time.Parse(time.RFC3339, endRaw)
		if err != nil {
			return Window{}, ErrInvalidWindow
		}
		end = end.UTC()
		if !end.After(start) {
			return Window{}, ErrInvalidWindow
		}
		return Window{Start: start, End: end}, nil
	}

	days := defaultWindowDays
	if daysRaw != "" {
		parsed, err := strconv.Atoi(daysRaw)
		if err != nil {
			return Window{}, ErrInvalidWindow
		}
		days = parsed
		if days < minWindowDays {
			days = minWindowDays
		}
		if days > maxWindowDays {
			days = maxWindowDays
		}
	}

	return Window{Start: start, End: start.AddDate(0, 0, days)}, nil
}

// Contains reports whether an entry interval intersects the window. The
// comparison is strict on both ends: boundary-touching entries are excluded.
func (w Window) Contains(entryStart, entryEnd time.Time) bool {
	return entryStart.Before(w.End) && entryEnd.After(w.Start)
}

// Key is a stable cache-key fragment for the window.
func (w Window) Key() string {
	return w.Start.UTC().Format("20060102150405") + "-" + w.End.UTC().Format("20060102150405")
}
