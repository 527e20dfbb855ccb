package model

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var intervalRegexp = regexp.MustCompile(`^(\d+)([mhd])$`)

// Interval is a duration written as a count and a unit of minutes, hours or
// days, e.g. "3m", "1h", "90d".
type Interval string

// Duration parses the interval.
func (i Interval) Duration() (time.Duration, error) {
	m := intervalRegexp.FindStringSubmatch(string(i))
	if m == nil {
		return 0, fmt.Errorf("invalid interval %q, must match %s", string(i), `^\d+[mhd]$`)
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q: %w", string(i), err)
	}
	var unit time.Duration
	switch m[2] {
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	}
	if n > int64((1<<63-1)/unit) {
		return 0, fmt.Errorf("invalid interval %q: out of range", string(i))
	}
	return time.Duration(n) * unit, nil
}

// OrDefault returns d when the interval is unset.
func (i Interval) OrDefault(d Interval) Interval {
	if i == "" {
		return d
	}
	return i
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
