package models

// ClassOption is one offered section of a subject for the active term.
type ClassOption struct {
	ID        string     `json:"id"`
	SubjectID string     `json:"subject_id"`
	Days      WeekdaySet `json:"days"`
	Start     ClockTime  `json:"start"`
	End       ClockTime  `json:"end"`
	// Weeks lists the term weeks the section meets; empty means every week.
	Weeks    []int  `json:"weeks,omitempty"`
	Room     string `json:"room"`
	Teacher  string `json:"teacher"`
	Capacity int    `json:"capacity"`
}

// Duration returns the length of a single meeting.
func (c *ClassOption) Duration() ClockTime {
	if c.End <= c.Start {
		return 0
	}
	return c.End - c.Start
}

// WeeklyHours is the contact time per week across all meeting days.
func (c *ClassOption) WeeklyHours() float64 {
	return c.Duration().Hours() * float64(len(c.Days))
}

// SharesWeek reports whether two sections meet in at least one common week.
func (c *ClassOption) SharesWeek(other *ClassOption) bool {
	if len(c.Weeks) == 0 || len(other.Weeks) == 0 {
		return true
	}
	weeks := make(map[int]struct{}, len(c.Weeks))
	for _, w := range c.Weeks {
		weeks[w] = struct{}{}
	}
	for _, w := range other.Weeks {
		if _, ok := weeks[w]; ok {
			return true
		}
	}
	return false
}

// OverlapsTime reports whether the half-open intervals [start,end) intersect.
func (c *ClassOption) OverlapsTime(other *ClassOption) bool {
	return c.Start < other.End && other.Start < c.End
}
