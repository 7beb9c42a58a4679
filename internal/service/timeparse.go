package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const dateOnly = "2006-01-02"

// ParseTimeParam accepts RFC3339 or YYYY-MM-DD. A bare date is midnight UTC;
// when endOfDay is set it is the last instant of that day instead.
func ParseTimeParam(value string, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}

	t, err := time.Parse(dateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use RFC3339 or YYYY-MM-DD", value)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// parseReadingValue accepts a JSON number or a numeric string.
func parseReadingValue(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("value is required")
	}

	var v float64
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("value must be a number")
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", s)
		}
		v = parsed
	} else if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("value must be a number")
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("value must be finite")
	}
	return v, nil
}

// parseReadingTime accepts an RFC3339 string or unix seconds (milliseconds
// when the number is too large to be seconds). A missing timestamp is now.
func parseReadingTime(raw json.RawMessage, now time.Time) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return now, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return time.Time{}, fmt.Errorf("invalid timestamp")
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("timestamp %q is not RFC3339", s)
		}
		return t.UTC(), nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err != nil || n <= 0 {
		return time.Time{}, fmt.Errorf("invalid timestamp")
	}
	if n >= 1e12 {
		return time.UnixMilli(int64(n)).UTC(), nil
	}
	sec, frac := math.Modf(n)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
}
