package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatHMS renders seconds as HH:MM:SS using truncating division. Hours
// widen past 99 instead of wrapping; negative values get a leading "-".
func FormatHMS(seconds int64) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, seconds/3600, (seconds%3600)/60, seconds%60)
}

// FormatDuration renders d as HH:MM:SS after flooring to whole seconds.
func FormatDuration(d time.Duration) string {
	return FormatHMS(FloorSeconds(d))
}

// ParseHMS parses "hh:mm:ss". Hours may be any non-negative number;
// minutes and seconds must be below 60.
func ParseHMS(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("expected hh:mm:ss, got %q", s)
	}

	values := make([]int64, 3)
	for i, part := range parts {
		if part == "" {
			return 0, fmt.Errorf("expected hh:mm:ss, got %q", s)
		}
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%q is not a non-negative whole number", part)
		}
		values[i] = v
	}
	if values[1] > 59 || values[2] > 59 {
		return 0, fmt.Errorf("minutes and seconds must be between 0 and 59, got %q", s)
	}

	total := values[0]*3600 + values[1]*60 + values[2]
	return time.Duration(total) * time.Second, nil
}

// HMSFromParts builds a duration from separate hour, minute and second
// strings as entered in the correction dialog. Empty parts count as zero.
func HMSFromParts(h, m, s string) (time.Duration, error) {
	orZero := func(v string) string {
		if strings.TrimSpace(v) == "" {
			return "0"
		}
		return strings.TrimSpace(v)
	}
	return ParseHMS(orZero(h) + ":" + orZero(m) + ":" + orZero(s))
}
