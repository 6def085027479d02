// Package timeofday converts between "HH:MM[:SS]" strings and fractional
// hours. Shop hours never cross midnight, so there is no day rollover.
package timeofday

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// SlotMinutes is the grid unit used for rounded durations and availability.
const SlotMinutes = 30

var ErrInvalidFormat = errors.New("invalid time format")

// components splits "HH:MM[:SS]" without bounding minutes or seconds, so
// durations such as "00:61:00" are accepted.
func components(s string) (h, m, sec int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	vals := make([]int, 3)
	for i, p := range parts {
		if p == "" {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
		v, convErr := strconv.Atoi(p)
		if convErr != nil || v < 0 {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
		vals[i] = v
	}

	return vals[0], vals[1], vals[2], nil
}

func totalSeconds(s string) (int, error) {
	h, m, sec, err := components(s)
	if err != nil {
		return 0, err
	}
	return h*3600 + m*60 + sec, nil
}

// ToFractionalHours parses a clock or duration string into hours,
// e.g. "13:30:00" -> 13.5.
func ToFractionalHours(s string) (float64, error) {
	h, m, sec, err := components(s)
	if err != nil {
		return 0, err
	}
	return float64(h) + float64(m)/60 + float64(sec)/3600, nil
}

// ParseDuration reads a "HH:MM[:SS]" duration.
func ParseDuration(s string) (time.Duration, error) {
	secs, err := totalSeconds(s)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}

// Normalize validates a wall-clock time and returns it as "HH:MM:SS".
func Normalize(clock string) (string, error) {
	h, m, sec, err := components(clock)
	if err != nil {
		return "", err
	}
	if h > 23 || m > 59 || sec > 59 {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, clock)
	}
	return formatSeconds(h*3600 + m*60 + sec), nil
}

// AddDuration returns start + duration as "HH:MM:SS". Results at or past
// midnight are rejected.
func AddDuration(start, duration string) (string, error) {
	s, err := totalSeconds(start)
	if err != nil {
		return "", err
	}
	d, err := totalSeconds(duration)
	if err != nil {
		return "", err
	}

	end := s + d
	if end >= 24*3600 {
		return "", fmt.Errorf("%s + %s crosses midnight", start, duration)
	}
	return formatSeconds(end), nil
}

// RoundDurationToSlot rounds a duration up to the slot grid:
// <=30 -> 30, <=60 -> 60, <=90 -> 90, otherwise the next multiple of 30.
func RoundDurationToSlot(duration string) (int, error) {
	secs, err := totalSeconds(duration)
	if err != nil {
		return 0, err
	}
	return RoundMinutesToSlot(int(math.Ceil(float64(secs) / 60))), nil
}

func RoundMinutesToSlot(minutes int) int {
	switch {
	case minutes <= 30:
		return 30
	case minutes <= 60:
		return 60
	case minutes <= 90:
		return 90
	}
	return ((minutes + SlotMinutes - 1) / SlotMinutes) * SlotMinutes
}

// FromTime extracts the wall clock of t as fractional hours.
func FromTime(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}

// FormatClock renders fractional hours as "HH:MM:SS".
func FormatClock(hours float64) string {
	return formatSeconds(int(math.Round(hours * 3600)))
}

// Label12h renders fractional hours as a 12-hour label, e.g. "2:30 PM".
func Label12h(hours float64) string {
	minutes := int(math.Round(hours * 60))
	h, m := minutes/60, minutes%60

	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}

	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}

func formatSeconds(total int) string {
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
