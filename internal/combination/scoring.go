package combination

import (
	"fmt"
	"math"
	"sort"

	"github.com/vqdung71104/student-management-sub001/internal/models"
	appErrors "github.com/vqdung71104/student-management-sub001/pkg/errors"
)

// Weights is the scoring policy. Rewards are added to Base, penalties subtracted.
type Weights struct {
	Base                  float64 `json:"base"`
	FreeDayReward         float64 `json:"free_day_reward"`
	ContinuityReward      float64 `json:"continuity_reward"`
	PeriodMatchReward     float64 `json:"period_match_reward"`
	PeriodMismatchPenalty float64 `json:"period_mismatch_penalty"`
	EarlyStartPenalty     float64 `json:"early_start_penalty"`
	LateEndPenalty        float64 `json:"late_end_penalty"`
	AvoidDayPenalty       float64 `json:"avoid_day_penalty"`
	PreferDayReward       float64 `json:"prefer_day_reward"`
}

// DefaultWeights returns the stock scoring policy.
func DefaultWeights() Weights {
	return Weights{
		Base:                  100,
		FreeDayReward:         3,
		ContinuityReward:      2,
		PeriodMatchReward:     10,
		PeriodMismatchPenalty: 5,
		EarlyStartPenalty:     8,
		LateEndPenalty:        8,
		AvoidDayPenalty:       30,
		PreferDayReward:       4,
	}
}

// Validate rejects negative terms; the sign of each term is fixed by its role.
func (w Weights) Validate() error {
	terms := []struct {
		name  string
		value float64
	}{
		{"base", w.Base},
		{"free_day_reward", w.FreeDayReward},
		{"continuity_reward", w.ContinuityReward},
		{"period_match_reward", w.PeriodMatchReward},
		{"period_mismatch_penalty", w.PeriodMismatchPenalty},
		{"early_start_penalty", w.EarlyStartPenalty},
		{"late_end_penalty", w.LateEndPenalty},
		{"avoid_day_penalty", w.AvoidDayPenalty},
		{"prefer_day_reward", w.PreferDayReward},
	}
	for _, term := range terms {
		if term.value < 0 || math.IsNaN(term.value) || math.IsInf(term.value, 0) {
			return appErrors.Clone(appErrors.ErrInvalidWeights, fmt.Sprintf("%s must be a non-negative number", term.name))
		}
	}
	return nil
}

// Ranking is an ordered result set.
type Ranking struct {
	Combinations []*models.Combination
	// NoFeasibleSchedule is set when there was nothing to rank.
	NoFeasibleSchedule bool
}

// Scorer computes metrics and scores combinations against a preference.
type Scorer struct {
	weights Weights
}

// NewScorer builds a scorer with the given weights.
func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Weights returns the active policy.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// ComputeMetrics summarises the weekly shape of a set of selections.
func ComputeMetrics(selections []models.Selection) models.Metrics {
	var (
		metrics models.Metrics
		days    []models.Weekday
		classes = make([]*models.ClassOption, 0, len(selections))
	)
	for _, sel := range selections {
		metrics.TotalCredits += sel.Credits
		if sel.Class == nil {
			continue
		}
		option := sel.Class
		classes = append(classes, option)
		metrics.TotalClasses++
		metrics.TotalWeeklyHours += option.WeeklyHours()
		days = append(days, option.Days...)
		if len(classes) == 1 || option.Start < metrics.EarliestStart {
			metrics.EarliestStart = option.Start
		}
		if option.End > metrics.LatestEnd {
			metrics.LatestEnd = option.End
		}
	}

	studyDays := models.NewWeekdaySet(days...)
	metrics.StudyDays = len(studyDays)
	metrics.FreeDays = models.DaysPerWeek - metrics.StudyDays
	metrics.ContinuousStudyDays = longestRun(studyDays)
	if metrics.StudyDays > 0 {
		metrics.AverageDailyHours = round2(metrics.TotalWeeklyHours / float64(metrics.StudyDays))
	}
	metrics.TotalWeeklyHours = round2(metrics.TotalWeeklyHours)
	metrics.TimeConflicts = HasConflict(classes)
	return metrics
}

// longestRun counts the longest Monday..Sunday streak without wrapping.
func longestRun(days models.WeekdaySet) int {
	best, run := 0, 0
	var prev models.Weekday
	for _, day := range days {
		if run > 0 && day == prev+1 {
			run++
		} else {
			run = 1
		}
		prev = day
		if run > best {
			best = run
		}
	}
	return best
}

// Score rates a combination; it never drops below zero.
func (s *Scorer) Score(combo *models.Combination, pref models.CompletePreference) float64 {
	w := s.weights
	m := combo.Metrics
	score := w.Base
	score += w.FreeDayReward * float64(m.FreeDays)
	score += w.ContinuityReward * float64(m.ContinuousStudyDays)

	classes := combo.Classes()
	if period := pref.EffectivePeriod(); period != models.TimePeriodNone && len(classes) > 0 {
		matched := 0
		for _, option := range classes {
			if option != nil && models.PeriodOf(option.Start) == period {
				matched++
			}
		}
		if matched*2 > len(classes) {
			score += w.PeriodMatchReward
		} else {
			score -= w.PeriodMismatchPenalty * float64(len(classes)-matched)
		}
	}

	for _, option := range classes {
		if option == nil {
			continue
		}
		if pref.AvoidEarlyStart.Enabled && option.Start < pref.AvoidEarlyStart.Threshold {
			score -= w.EarlyStartPenalty
		}
		if pref.AvoidLateEnd.Enabled && option.End > pref.AvoidLateEnd.Threshold {
			score -= w.LateEndPenalty
		}
		if option.Days.Intersects(pref.AvoidDays) {
			score -= w.AvoidDayPenalty
		}
		if option.Days.Intersects(pref.PreferDays) {
			score += w.PreferDayReward
		}
	}
	return round2(math.Max(0, score))
}

// Rank scores every combination, orders them by score (then fewer weekly
// hours, then fewer study days) and flags all combinations tied at the top.
func (s *Scorer) Rank(combos []*models.Combination, pref models.CompletePreference) Ranking {
	if len(combos) == 0 {
		return Ranking{Combinations: []*models.Combination{}, NoFeasibleSchedule: true}
	}
	for _, combo := range combos {
		if combo.Metrics.TotalClasses == 0 && len(combo.Selections) > 0 {
			combo.Metrics = ComputeMetrics(combo.Selections)
		}
		combo.Score = s.Score(combo, pref)
		combo.Recommended = false
	}
	sort.SliceStable(combos, func(i, j int) bool {
		a, b := combos[i], combos[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Metrics.TotalWeeklyHours != b.Metrics.TotalWeeklyHours {
			return a.Metrics.TotalWeeklyHours < b.Metrics.TotalWeeklyHours
		}
		return a.Metrics.StudyDays < b.Metrics.StudyDays
	})
	top := combos[0].Score
	for _, combo := range combos {
		if combo.Score != top {
			break
		}
		combo.Recommended = true
	}
	return Ranking{Combinations: combos}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
