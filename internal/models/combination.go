package models

// Selection is the section chosen for one subject requirement.
type Selection struct {
	SubjectID   string       `json:"subject_id"`
	SubjectName string       `json:"subject_name"`
	Credits     int          `json:"credits"`
	Class       *ClassOption `json:"class"`
}

// Metrics summarises the weekly shape of a combination.
type Metrics struct {
	TotalCredits        int       `json:"total_credits"`
	TotalClasses        int       `json:"total_classes"`
	StudyDays           int       `json:"study_days"`
	FreeDays            int       `json:"free_days"`
	ContinuousStudyDays int       `json:"continuous_study_days"`
	AverageDailyHours   float64   `json:"average_daily_hours"`
	EarliestStart       ClockTime `json:"earliest_start"`
	LatestEnd           ClockTime `json:"latest_end"`
	TotalWeeklyHours    float64   `json:"total_weekly_hours"`
	TimeConflicts       bool      `json:"time_conflicts"`
}

// Combination is one conflict-free assignment of a section per required subject.
type Combination struct {
	ID          string      `json:"id"`
	Selections  []Selection `json:"selections"`
	Metrics     Metrics     `json:"metrics"`
	Score       float64     `json:"score"`
	Recommended bool        `json:"recommended"`
}

// Classes returns the chosen sections in requirement order.
func (c *Combination) Classes() []*ClassOption {
	classes := make([]*ClassOption, 0, len(c.Selections))
	for _, sel := range c.Selections {
		classes = append(classes, sel.Class)
	}
	return classes
}
