package util

import (
	"errors"
	"time"
)

const DateLayout = "2006-01-02"

var ErrBadDate = errors.New("date must be YYYY-MM-DD or an RFC 3339 timestamp")

// NormalizeDate reduces s to a YYYY-MM-DD calendar date. Plain dates pass
// through. A timestamp with an explicit offset keeps its own calendar day.
// A UTC timestamp is rounded to the nearest UTC midnight, which recovers the
// day a browser picked at local midnight in any zone within twelve hours of
// UTC. An empty s stays empty.
func NormalizeDate(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d.Format(DateLayout), nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", ErrBadDate
	}
	if _, offset := t.Zone(); offset != 0 {
		return t.Format(DateLayout), nil
	}
	return t.UTC().Round(24 * time.Hour).Format(DateLayout), nil
}
