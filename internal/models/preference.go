package models

// TimePeriod is the preferred part of the day.
type TimePeriod string

// Supported time periods.
const (
	TimePeriodMorning   TimePeriod = "morning"
	TimePeriodAfternoon TimePeriod = "afternoon"
	TimePeriodEvening   TimePeriod = "evening"
	TimePeriodNone      TimePeriod = "none"
)

// Bucket boundaries for time-of-day classification.
var (
	AfternoonStartsAt = NewClockTime(12, 0)
	EveningStartsAt   = NewClockTime(18, 0)
)

// PeriodOf classifies a start time into morning (<12:00), afternoon (12:00-18:00) or evening (>=18:00).
func PeriodOf(start ClockTime) TimePeriod {
	switch {
	case start < AfternoonStartsAt:
		return TimePeriodMorning
	case start < EveningStartsAt:
		return TimePeriodAfternoon
	default:
		return TimePeriodEvening
	}
}

// Dimension names one preference axis the conversation asks about.
type Dimension string

// Preference dimensions in their default question order.
const (
	DimensionTimePeriod      Dimension = "time_period"
	DimensionAvoidEarlyStart Dimension = "avoid_early_start"
	DimensionAvoidLateEnd    Dimension = "avoid_late_end"
	DimensionDays            Dimension = "days"
)

// ThresholdPreference is a boolean avoidance flag with its time threshold.
type ThresholdPreference struct {
	Enabled   bool      `json:"enabled"`
	Threshold ClockTime `json:"threshold"`
}

// CompletePreference aggregates everything elicited so far.
type CompletePreference struct {
	TimePeriod      TimePeriod          `json:"time_period"`
	AvoidEarlyStart ThresholdPreference `json:"avoid_early_start"`
	AvoidLateEnd    ThresholdPreference `json:"avoid_late_end"`
	AvoidDays       WeekdaySet          `json:"avoid_days"`
	PreferDays      WeekdaySet          `json:"prefer_days,omitempty"`
	Collected       []Dimension         `json:"collected"`
}

// Has reports whether the dimension has been explicitly collected.
func (p *CompletePreference) Has(dim Dimension) bool {
	for _, d := range p.Collected {
		if d == dim {
			return true
		}
	}
	return false
}

// MarkCollected records a dimension as set.
func (p *CompletePreference) MarkCollected(dim Dimension) {
	if !p.Has(dim) {
		p.Collected = append(p.Collected, dim)
	}
}

// EffectivePeriod returns the time period, treating an unset value as none.
func (p *CompletePreference) EffectivePeriod() TimePeriod {
	if p.TimePeriod == "" {
		return TimePeriodNone
	}
	return p.TimePeriod
}

// Clone returns a deep copy.
func (p CompletePreference) Clone() CompletePreference {
	clone := p
	clone.AvoidDays = append(WeekdaySet(nil), p.AvoidDays...)
	clone.PreferDays = append(WeekdaySet(nil), p.PreferDays...)
	clone.Collected = append([]Dimension(nil), p.Collected...)
	return clone
}
