package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/replan/internal/constants"
	"github.com/julianstephens/replan/internal/models"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// GetTodayInTimezone returns today's date string (YYYY-MM-DD) in the specified timezone.
func GetTodayInTimezone(timezone string) (string, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return "", err
	}
	return now.Format(constants.DateFormat), nil
}

// MinutesSinceMidnight returns the minute of the day of t in t's location.
func MinutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
// "24:00" is accepted as the end of the day.
func ParseTimeToMinutes(timeStr string) (int, error) {
	timeStr = strings.TrimSpace(timeStr)
	if timeStr == "24:00" {
		return constants.MinutesPerDay, nil
	}
	t, err := time.Parse(constants.TimeFormat, timeStr)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM: %w", timeStr, err)
	}
	return MinutesSinceMidnight(t), nil
}

// FormatMinutes renders minutes since midnight as HH:MM.
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatDuration renders a duration in minutes as "1h 30m".
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	h := minutes / 60
	m := minutes % 60
	var parts []string
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	return strings.Join(parts, " ")
}

// ValidateDate checks that dateStr is a YYYY-MM-DD calendar date.
func ValidateDate(dateStr string) error {
	if _, err := time.Parse(constants.DateFormat, dateStr); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", dateStr, err)
	}
	return nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// BoundsFromSettings converts the configured day window into minute bounds.
func BoundsFromSettings(settings models.Settings) (models.DayBounds, error) {
	start, err := ParseTimeToMinutes(settings.DayStart)
	if err != nil {
		return models.DayBounds{}, fmt.Errorf("day start: %w", err)
	}
	end, err := ParseTimeToMinutes(settings.DayEnd)
	if err != nil {
		return models.DayBounds{}, fmt.Errorf("day end: %w", err)
	}
	bounds := models.DayBounds{Start: start, End: end}
	if err := bounds.Validate(); err != nil {
		return models.DayBounds{}, err
	}
	return bounds, nil
}
