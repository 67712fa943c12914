package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Weekday is an ISO weekday: Monday=1 through Sunday=7.
type Weekday int

// Supported weekdays.
const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysPerWeek is the number of weekdays a schedule spans.
const DaysPerWeek = 7

var weekdayNames = map[Weekday]string{
	Monday:    "MONDAY",
	Tuesday:   "TUESDAY",
	Wednesday: "WEDNESDAY",
	Thursday:  "THURSDAY",
	Friday:    "FRIDAY",
	Saturday:  "SATURDAY",
	Sunday:    "SUNDAY",
}

var weekdayByName = map[string]Weekday{
	"MONDAY":    Monday,
	"TUESDAY":   Tuesday,
	"WEDNESDAY": Wednesday,
	"THURSDAY":  Thursday,
	"FRIDAY":    Friday,
	"SATURDAY":  Saturday,
	"SUNDAY":    Sunday,
}

// Valid reports whether the value is within Monday..Sunday.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// String returns the upper-case English name.
func (d Weekday) String() string {
	if name, ok := weekdayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("WEEKDAY(%d)", int(d))
}

// VietnameseLabel renders the weekday the way timetables print it ("Thứ 2" .. "Chủ nhật").
func (d Weekday) VietnameseLabel() string {
	if d == Sunday {
		return "Chủ nhật"
	}
	if !d.Valid() {
		return d.String()
	}
	return fmt.Sprintf("Thứ %d", d.Code())
}

// Code returns the Vietnamese numeric day code (2=Monday .. 7=Saturday, 8=Sunday).
func (d Weekday) Code() int {
	return int(d) + 1
}

// WeekdayFromCode converts a Vietnamese day code (2..8) into a Weekday.
func WeekdayFromCode(code int) (Weekday, bool) {
	day := Weekday(code - 1)
	if !day.Valid() {
		return 0, false
	}
	return day, true
}

// ParseWeekdayName resolves an English weekday name.
func ParseWeekdayName(name string) (Weekday, bool) {
	day, ok := weekdayByName[strings.ToUpper(strings.TrimSpace(name))]
	return day, ok
}

// MarshalJSON encodes the weekday as its English name.
func (d Weekday) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts either the English name or the ISO number.
func (d *Weekday) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		day, ok := ParseWeekdayName(name)
		if !ok {
			return fmt.Errorf("unknown weekday %q", name)
		}
		*d = day
		return nil
	}
	var number int
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("decode weekday: %w", err)
	}
	if !Weekday(number).Valid() {
		return fmt.Errorf("weekday %d out of range", number)
	}
	*d = Weekday(number)
	return nil
}

// WeekdaySet is a sorted, duplicate-free list of weekdays.
type WeekdaySet []Weekday

// NewWeekdaySet normalises the given days into a set, dropping invalid values.
func NewWeekdaySet(days ...Weekday) WeekdaySet {
	seen := make(map[Weekday]struct{}, len(days))
	result := make(WeekdaySet, 0, len(days))
	for _, day := range days {
		if !day.Valid() {
			continue
		}
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		result = append(result, day)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Contains reports whether day is in the set.
func (s WeekdaySet) Contains(day Weekday) bool {
	for _, d := range s {
		if d == day {
			return true
		}
	}
	return false
}

// Intersects reports whether the two sets share at least one day.
func (s WeekdaySet) Intersects(other WeekdaySet) bool {
	for _, d := range s {
		if other.Contains(d) {
			return true
		}
	}
	return false
}

// Union merges two sets.
func (s WeekdaySet) Union(other WeekdaySet) WeekdaySet {
	merged := make([]Weekday, 0, len(s)+len(other))
	merged = append(merged, s...)
	merged = append(merged, other...)
	return NewWeekdaySet(merged...)
}

// Equal compares two sets irrespective of construction order.
func (s WeekdaySet) Equal(other WeekdaySet) bool {
	a, b := NewWeekdaySet(s...), NewWeekdaySet(other...)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
