package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ClockTime is a wall-clock time of day with minute precision, stored as minutes since midnight.
type ClockTime int

// MinutesPerDay bounds ClockTime values.
const MinutesPerDay = 24 * 60

// NewClockTime builds a ClockTime from hour and minute.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// Hour returns the hour component.
func (c ClockTime) Hour() int { return int(c) / 60 }

// Minute returns the minute component.
func (c ClockTime) Minute() int { return int(c) % 60 }

// String renders HH:MM.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Hours converts a minute span into fractional hours.
func (c ClockTime) Hours() float64 {
	return float64(c) / 60
}

// ParseClock accepts "07:30", "7:30", "7h30", "7h", "17g30" and bare hours such as "7".
func ParseClock(raw string) (ClockTime, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return 0, fmt.Errorf("empty time")
	}
	value = strings.NewReplacer("giờ", ":", "g", ":", "h", ":", ".", ":").Replace(value)
	value = strings.TrimSuffix(strings.TrimSpace(value), ":")
	parts := strings.SplitN(value, ":", 2)

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", raw)
	}
	minute := 0
	if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		minute, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, fmt.Errorf("invalid minute in %q", raw)
		}
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time %q out of range", raw)
	}
	return NewClockTime(hour, minute), nil
}

// MustParseClock panics on invalid input; intended for constants and fixtures.
func MustParseClock(raw string) ClockTime {
	c, err := ParseClock(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// MarshalJSON encodes the time as "HH:MM".
func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes "HH:MM".
func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode clock time: %w", err)
	}
	parsed, err := ParseClock(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
