package model

import (
	"strings"
	"time"
)

type Preset string

const (
	PresetThisMonth   Preset = "thisMonth"
	PresetLastMonth   Preset = "lastMonth"
	PresetLast3Months Preset = "last3Months"
	PresetLast6Months Preset = "last6Months"
)

// TimeWindow is a half-open interval [Start, End) that every aggregation in
// this service is computed over.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// DayWindow is the [midnight, midnight+24h) window around now, used for
// "today" metrics.
func DayWindow(now time.Time) TimeWindow {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return TimeWindow{Start: day, End: day.AddDate(0, 0, 1)}
}

// ResolveWindow turns caller-supplied dates or a named preset into a concrete
// window. Explicit from/to are used verbatim, even when to < from: callers
// own the sanity of explicit ranges and rejecting them here would break
// consumers that rely on the lenient passthrough. Presets are computed with
// calendar-month arithmetic against the injected now. With no input at all
// the window is the trailing month ending at now. Never fails.
func ResolveWindow(now time.Time, from, to string, preset Preset) TimeWindow {
	start, okFrom := parseWindowTime(from, now.Location())
	end, okTo := parseWindowTime(to, now.Location())

	if okFrom || okTo {
		if !okTo {
			end = now
		}
		if !okFrom {
			start = end.AddDate(0, -1, 0)
		}
		return TimeWindow{Start: start, End: end}
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	switch preset {
	case PresetThisMonth:
		return TimeWindow{Start: monthStart, End: monthStart.AddDate(0, 1, 0)}
	case PresetLastMonth:
		return TimeWindow{Start: monthStart.AddDate(0, -1, 0), End: monthStart}
	case PresetLast3Months:
		return TimeWindow{Start: now.AddDate(0, -3, 0), End: now}
	case PresetLast6Months:
		return TimeWindow{Start: now.AddDate(0, -6, 0), End: now}
	}

	return TimeWindow{Start: now.AddDate(0, -1, 0), End: now}
}

func parseWindowTime(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, true
	}
	if parsed, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}

// ParsePreset maps a query-string value onto a known preset; unknown values
// fall through to the default window.
func ParsePreset(raw string) Preset {
	switch Preset(strings.TrimSpace(raw)) {
	case PresetThisMonth, PresetLastMonth, PresetLast3Months, PresetLast6Months:
		return Preset(strings.TrimSpace(raw))
	}
	return ""
}
