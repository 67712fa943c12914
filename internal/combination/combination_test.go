package combination

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vqdung71104/student-management-sub001/internal/models"
)

func section(id string, days models.WeekdaySet, start, end string, weeks ...int) *models.ClassOption {
	return &models.ClassOption{
		ID:    id,
		Days:  days,
		Start: models.MustParseClock(start),
		End:   models.MustParseClock(end),
		Weeks: weeks,
	}
}

func requirement(id string, credits int, options ...*models.ClassOption) Candidates {
	for _, option := range options {
		option.SubjectID = id
	}
	return Candidates{
		Requirement: models.SubjectRequirement{SubjectID: id, Name: "Subject " + id, Credits: credits},
		Options:     options,
	}
}

var (
	mon = models.WeekdaySet{models.Monday}
	tue = models.WeekdaySet{models.Tuesday}
	wed = models.WeekdaySet{models.Wednesday}
)

func TestConflicts(t *testing.T) {
	cases := []struct {
		name string
		a, b *models.ClassOption
		want bool
	}{
		{"same day overlapping", section("a", mon, "07:00", "09:00"), section("b", mon, "08:00", "10:00"), true},
		{"back to back", section("a", mon, "07:00", "09:00"), section("b", mon, "09:00", "11:00"), false},
		{"different days", section("a", mon, "07:00", "09:00"), section("b", tue, "07:00", "09:00"), false},
		{"disjoint weeks", section("a", mon, "07:00", "09:00", 1, 2, 3), section("b", mon, "07:00", "09:00", 4, 5), false},
		{"shared week", section("a", mon, "07:00", "09:00", 1, 2, 3), section("b", mon, "08:00", "09:00", 3, 4), true},
		{"every week vs listed", section("a", mon, "07:00", "09:00"), section("b", mon, "08:00", "09:00", 9), true},
		{"multi day share one", section("a", models.WeekdaySet{models.Monday, models.Thursday}, "13:00", "15:00"), section("b", models.WeekdaySet{models.Thursday}, "14:00", "16:00"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Conflicts(tc.a, tc.b))
			assert.Equal(t, tc.want, Conflicts(tc.b, tc.a))
		})
	}
}

func TestGeneratorEmitsOnlyConflictFreeCombinations(t *testing.T) {
	reqs := []Candidates{
		requirement("math", 3,
			section("m1", mon, "07:00", "09:00"),
			section("m2", tue, "07:00", "09:00"),
			section("m3", wed, "13:00", "15:00"),
		),
		requirement("physics", 2,
			section("p1", mon, "08:00", "10:00"),
			section("p2", tue, "09:00", "11:00"),
			section("p3", wed, "14:00", "16:00"),
		),
		requirement("chem", 2,
			section("c1", mon, "09:30", "11:00"),
			section("c2", wed, "07:00", "09:00"),
		),
	}

	result, err := NewGenerator(GeneratorConfig{}).Generate(reqs)
	require.NoError(t, err)
	assert.False(t, result.Partial)
	require.NotEmpty(t, result.Combinations)

	expected := 0
	for _, m := range reqs[0].Options {
		for _, p := range reqs[1].Options {
			for _, c := range reqs[2].Options {
				if !HasConflict([]*models.ClassOption{m, p, c}) {
					expected++
				}
			}
		}
	}
	assert.Len(t, result.Combinations, expected)

	for _, combo := range result.Combinations {
		require.Len(t, combo.Selections, len(reqs))
		for i, sel := range combo.Selections {
			assert.Equal(t, reqs[i].Requirement.SubjectID, sel.SubjectID)
		}
		classes := combo.Classes()
		for i := range classes {
			for j := i + 1; j < len(classes); j++ {
				assert.False(t, Conflicts(classes[i], classes[j]), "%s vs %s", classes[i].ID, classes[j].ID)
			}
		}
		assert.False(t, combo.Metrics.TimeConflicts)
		assert.NotEmpty(t, combo.ID)
	}
}

func TestGeneratorInfeasibleWhenRequirementHasNoCandidates(t *testing.T) {
	reqs := []Candidates{
		requirement("math", 3, section("m1", mon, "07:00", "09:00")),
		requirement("art", 2),
	}

	result, err := NewGenerator(GeneratorConfig{}).Generate(reqs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInfeasible))
	var infeasible *InfeasibleError
	require.True(t, errors.As(err, &infeasible))
	assert.Equal(t, []string{"art"}, infeasible.SubjectIDs)
	assert.Empty(t, result.Combinations)
	assert.Zero(t, result.Explored)
}

func TestGeneratorStopsAtCap(t *testing.T) {
	var reqs []Candidates
	for s := 0; s < 3; s++ {
		var options []*models.ClassOption
		for d := models.Monday; d <= models.Friday; d++ {
			options = append(options, section(fmt.Sprintf("s%d-%d", s, d), models.WeekdaySet{d}, fmt.Sprintf("%02d:00", 7+3*s), fmt.Sprintf("%02d:00", 9+3*s)))
		}
		reqs = append(reqs, requirement(fmt.Sprintf("s%d", s), 2, options...))
	}

	result, err := NewGenerator(GeneratorConfig{MaxCombinations: 10}).Generate(reqs)
	require.NoError(t, err)
	assert.True(t, result.Partial)
	assert.Len(t, result.Combinations, 10)

	full, err := NewGenerator(GeneratorConfig{}).Generate(reqs)
	require.NoError(t, err)
	assert.False(t, full.Partial)
	assert.Len(t, full.Combinations, 125)
}

func TestGeneratorExactlyAtCapIsComplete(t *testing.T) {
	reqs := []Candidates{
		requirement("net", 3, section("n1", mon, "07:00", "09:00"), section("n2", tue, "07:00", "09:00")),
		requirement("web", 3, section("w1", wed, "13:00", "15:00")),
	}

	result, err := NewGenerator(GeneratorConfig{MaxCombinations: 2}).Generate(reqs)
	require.NoError(t, err)
	assert.Len(t, result.Combinations, 2)
	assert.False(t, result.Partial)

	capped, err := NewGenerator(GeneratorConfig{MaxCombinations: 1}).Generate(reqs)
	require.NoError(t, err)
	assert.Len(t, capped.Combinations, 1)
	assert.True(t, capped.Partial)
}

func TestGeneratorPrunesDeadBranches(t *testing.T) {
	// the only chem section clashes with m1, so m1 must never be expanded
	reqs := []Candidates{
		requirement("math", 3,
			section("m1", mon, "07:00", "09:00"),
			section("m2", tue, "07:00", "09:00"),
		),
		requirement("physics", 2,
			section("p1", wed, "07:00", "09:00"),
			section("p2", wed, "13:00", "15:00"),
		),
		requirement("chem", 2, section("c1", mon, "08:00", "10:00")),
	}

	result, err := NewGenerator(GeneratorConfig{}).Generate(reqs)
	require.NoError(t, err)
	require.Len(t, result.Combinations, 2)
	for _, combo := range result.Combinations {
		assert.Equal(t, "m2", combo.Selections[0].Class.ID)
	}
	// m1, m2, then p1, p2 and c1 twice
	assert.Equal(t, 6, result.Explored)
}

func TestExcludeDaysMakesRequirementInfeasible(t *testing.T) {
	avoid := models.WeekdaySet{models.Monday, models.Tuesday, models.Wednesday}
	reqs := []Candidates{
		requirement("math", 3,
			section("m1", mon, "07:00", "09:00"),
			section("m2", tue, "07:00", "09:00"),
			section("m3", wed, "07:00", "09:00"),
		),
		requirement("physics", 2,
			section("p1", mon, "09:00", "11:00"),
			section("p2", tue, "09:00", "11:00"),
			section("p3", wed, "09:00", "11:00"),
		),
	}

	filtered, emptied := ExcludeDays(reqs, avoid)
	assert.Equal(t, []string{"math", "physics"}, emptied)

	result, err := NewGenerator(GeneratorConfig{}).Generate(filtered)
	assert.True(t, errors.Is(err, ErrInfeasible))
	assert.Empty(t, result.Combinations)
	assert.Len(t, reqs[0].Options, 3)
}

func TestComputeMetrics(t *testing.T) {
	selections := []models.Selection{
		{SubjectID: "math", Credits: 3, Class: section("m1", models.WeekdaySet{models.Monday, models.Tuesday}, "07:00", "09:00")},
		{SubjectID: "physics", Credits: 2, Class: section("p1", models.WeekdaySet{models.Thursday}, "13:00", "16:00")},
		{SubjectID: "chem", Credits: 2, Class: section("c1", models.WeekdaySet{models.Wednesday}, "09:30", "11:00")},
	}

	m := ComputeMetrics(selections)
	assert.Equal(t, 7, m.TotalCredits)
	assert.Equal(t, 3, m.TotalClasses)
	assert.Equal(t, 4, m.StudyDays)
	assert.Equal(t, 3, m.FreeDays)
	assert.Equal(t, models.DaysPerWeek, m.StudyDays+m.FreeDays)
	assert.Equal(t, 4, m.ContinuousStudyDays)
	assert.Equal(t, 8.5, m.TotalWeeklyHours)
	assert.Equal(t, 2.13, m.AverageDailyHours)
	assert.Equal(t, models.NewClockTime(7, 0), m.EarliestStart)
	assert.Equal(t, models.NewClockTime(16, 0), m.LatestEnd)
	assert.False(t, m.TimeConflicts)
}

func TestComputeMetricsContinuityDoesNotWrap(t *testing.T) {
	m := ComputeMetrics([]models.Selection{
		{Class: section("a", models.WeekdaySet{models.Sunday, models.Monday}, "07:00", "08:00")},
		{Class: section("b", models.WeekdaySet{models.Wednesday, models.Thursday, models.Friday}, "07:00", "08:00")},
	})
	assert.Equal(t, 5, m.StudyDays)
	assert.Equal(t, 3, m.ContinuousStudyDays)
}

func TestScoreAvoidDaysNeverRaisesScore(t *testing.T) {
	scorer := NewScorer(DefaultWeights())
	combo := &models.Combination{Selections: []models.Selection{
		{Class: section("m1", models.WeekdaySet{models.Monday, models.Thursday}, "07:00", "09:00")},
		{Class: section("p1", models.WeekdaySet{models.Saturday}, "13:00", "15:00")},
	}}
	combo.Metrics = ComputeMetrics(combo.Selections)

	base := models.CompletePreference{TimePeriod: models.TimePeriodMorning}
	before := scorer.Score(combo, base)
	for day := models.Monday; day <= models.Sunday; day++ {
		withAvoid := base.Clone()
		withAvoid.AvoidDays = models.WeekdaySet{day}
		after := scorer.Score(combo, withAvoid)
		assert.LessOrEqual(t, after, before, day.String())
		if day == models.Monday || day == models.Saturday {
			assert.Less(t, after, before, day.String())
		}
	}
}

func TestScoreDirections(t *testing.T) {
	scorer := NewScorer(DefaultWeights())
	early := &models.Combination{Selections: []models.Selection{{Class: section("a", mon, "06:45", "08:00")}}}
	late := &models.Combination{Selections: []models.Selection{{Class: section("b", mon, "16:00", "18:30")}}}
	for _, c := range []*models.Combination{early, late} {
		c.Metrics = ComputeMetrics(c.Selections)
	}

	none := models.CompletePreference{}
	avoidEarly := models.CompletePreference{AvoidEarlyStart: models.ThresholdPreference{Enabled: true, Threshold: models.NewClockTime(7, 0)}}
	avoidLate := models.CompletePreference{AvoidLateEnd: models.ThresholdPreference{Enabled: true, Threshold: models.NewClockTime(17, 30)}}

	assert.Less(t, scorer.Score(early, avoidEarly), scorer.Score(early, none))
	assert.Equal(t, scorer.Score(late, avoidEarly), scorer.Score(late, none))
	assert.Less(t, scorer.Score(late, avoidLate), scorer.Score(late, none))

	morning := models.CompletePreference{TimePeriod: models.TimePeriodMorning}
	assert.Greater(t, scorer.Score(early, morning), scorer.Score(early, none))
	assert.Less(t, scorer.Score(late, morning), scorer.Score(late, none))
}

func TestScoreFavoursCompactSchedules(t *testing.T) {
	scorer := NewScorer(DefaultWeights())
	compact := &models.Combination{Selections: []models.Selection{
		{Class: section("a", mon, "07:00", "09:00")},
		{Class: section("b", mon, "09:00", "11:00")},
	}}
	spread := &models.Combination{Selections: []models.Selection{
		{Class: section("a", mon, "07:00", "09:00")},
		{Class: section("c", wed, "09:00", "11:00")},
	}}
	for _, c := range []*models.Combination{compact, spread} {
		c.Metrics = ComputeMetrics(c.Selections)
	}
	assert.Greater(t, scorer.Score(compact, models.CompletePreference{}), scorer.Score(spread, models.CompletePreference{}))
}

func TestRankSingleCombinationIsRecommended(t *testing.T) {
	reqs := []Candidates{
		requirement("math", 3, section("m1", mon, "07:00", "09:00")),
		requirement("physics", 2, section("p1", tue, "07:00", "09:00")),
	}
	result, err := NewGenerator(GeneratorConfig{}).Generate(reqs)
	require.NoError(t, err)

	ranking := NewScorer(DefaultWeights()).Rank(result.Combinations, models.CompletePreference{})
	assert.False(t, ranking.NoFeasibleSchedule)
	require.Len(t, ranking.Combinations, 1)
	assert.True(t, ranking.Combinations[0].Recommended)
	assert.False(t, ranking.Combinations[0].Metrics.TimeConflicts)
}

func TestRankOrderingAndTies(t *testing.T) {
	build := func(id string, days models.WeekdaySet, start, end string) *models.Combination {
		c := &models.Combination{ID: id, Selections: []models.Selection{{Class: section(id, days, start, end)}}}
		c.Metrics = ComputeMetrics(c.Selections)
		return c
	}
	short := build("short", mon, "07:00", "08:00")
	long := build("long", tue, "07:00", "09:00")
	tied := build("tied", wed, "07:00", "08:00")
	avoided := build("avoided", models.WeekdaySet{models.Thursday}, "07:00", "08:00")

	pref := models.CompletePreference{AvoidDays: models.WeekdaySet{models.Thursday}}
	ranking := NewScorer(DefaultWeights()).Rank([]*models.Combination{avoided, long, short, tied}, pref)

	ids := make([]string, 0, len(ranking.Combinations))
	for _, c := range ranking.Combinations {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"short", "tied", "long", "avoided"}, ids)
	assert.True(t, ranking.Combinations[0].Recommended)
	assert.True(t, ranking.Combinations[1].Recommended)
	assert.True(t, ranking.Combinations[2].Recommended)
	assert.False(t, ranking.Combinations[3].Recommended)
}

func TestRankEmptySignalsNoFeasibleSchedule(t *testing.T) {
	ranking := NewScorer(DefaultWeights()).Rank(nil, models.CompletePreference{})
	assert.True(t, ranking.NoFeasibleSchedule)
	assert.Empty(t, ranking.Combinations)
}

func TestWeightsValidate(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())

	w := DefaultWeights()
	w.AvoidDayPenalty = -1
	err := w.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "avoid_day_penalty")

	w = DefaultWeights()
	w.Base = math.NaN()
	assert.Error(t, w.Validate())
}
