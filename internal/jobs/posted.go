package jobs

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Bare numbers below this are read as epoch seconds, otherwise as millis.
// Numeric strings shorter than nine digits go through the date parser instead.
const epochSecondsLimit = 1e11

// ParsePosted is a best-effort parser for the date encodings the backend emits:
// date strings, epoch numbers, Instant-like and ZonedDateTime-like objects.
func ParsePosted(v any) (time.Time, bool) {
	switch typed := v.(type) {
	case nil:
		return time.Time{}, false
	case string:
		s := strings.TrimSpace(typed)
		if s == "" {
			return time.Time{}, false
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil && len(s) >= 9 {
			return fromEpoch(n)
		}
		t, err := dateparse.ParseIn(s, time.UTC)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	case map[string]any:
		return parsePostedObject(typed)
	}

	if n, ok := numberOf(v); ok {
		return fromEpoch(n)
	}
	return time.Time{}, false
}

func parsePostedObject(m map[string]any) (time.Time, bool) {
	if sec, ok := numberOf(m["epochSecond"]); ok {
		if ms, ok := numberOf(m["epochMilli"]); ok {
			return time.UnixMilli(int64(ms)).UTC(), true
		}
		return time.UnixMilli(int64(sec * 1000)).UTC(), true
	}
	if ms, ok := numberOf(m["epochMilli"]); ok {
		return time.UnixMilli(int64(ms)).UTC(), true
	}

	year, okY := numberOf(m["year"])
	month, okM := numberOf(m["month"])
	day, okD := numberOf(m["day"])
	if okY && okM && okD && year != 0 && month != 0 && day != 0 {
		hour, _ := numberOf(m["hour"])
		minute, _ := numberOf(m["minute"])
		second, _ := numberOf(m["second"])
		return time.Date(int(year), time.Month(int(month)), int(day), int(hour), int(minute), int(second), 0, time.Local), true
	}

	if _, ok := m["__CLASS__"]; ok {
		if value, ok := m["value"]; ok {
			return ParsePosted(value)
		}
	}
	return time.Time{}, false
}

func fromEpoch(n float64) (time.Time, bool) {
	if math.Abs(n) < epochSecondsLimit {
		return time.UnixMilli(int64(n * 1000)).UTC(), true
	}
	return time.UnixMilli(int64(n)).UTC(), true
}
