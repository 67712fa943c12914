package preference

import (
	"errors"

	"github.com/vqdung71104/student-management-sub001/internal/models"
)

// Defaults holds thresholds used when an avoidance answer carries no explicit time.
type Defaults struct {
	EarlyThreshold models.ClockTime
	LateThreshold  models.ClockTime
}

// DefaultThresholds returns 07:00 for early starts and 17:30 for late ends.
func DefaultThresholds() Defaults {
	return Defaults{
		EarlyThreshold: models.NewClockTime(7, 0),
		LateThreshold:  models.NewClockTime(17, 30),
	}
}

// Step is the outcome of advancing the dialogue by one answer.
type Step struct {
	Preference models.CompletePreference
	// Next is the question to ask; on a re-ask it is the same question again.
	Next      *models.Question
	Remaining []models.Question
	Done      bool
	Err       *ParseError
	Extracted []models.Dimension
	Corrected []models.Dimension
}

// Reask reports whether the step repeats the pending question.
func (s Step) Reask() bool { return s.Err != nil }

// Collector maps free-text answers onto preference dimensions and picks the next question.
// It holds no per-conversation state.
type Collector struct {
	vocab     *Vocabulary
	days      *DayParser
	defaults  Defaults
	questions []models.Question
}

// NewCollector builds a collector. A nil vocabulary uses the built-in table and
// zero thresholds fall back to DefaultThresholds.
func NewCollector(vocab *Vocabulary, defaults Defaults) *Collector {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	fallback := DefaultThresholds()
	if defaults.EarlyThreshold <= 0 {
		defaults.EarlyThreshold = fallback.EarlyThreshold
	}
	if defaults.LateThreshold <= 0 {
		defaults.LateThreshold = fallback.LateThreshold
	}
	return &Collector{
		vocab:     vocab,
		days:      NewDayParser(vocab),
		defaults:  defaults,
		questions: DefaultQuestions(),
	}
}

// Questions returns a copy of the fixed question order.
func (c *Collector) Questions() []models.Question {
	return append([]models.Question(nil), c.questions...)
}

// Defaults exposes the configured thresholds.
func (c *Collector) Defaults() Defaults {
	return c.defaults
}

// Start handles the opening utterance: anything it already states is
// extracted and the first unanswered question is selected.
func (c *Collector) Start(text string, current models.CompletePreference) Step {
	pref := current.Clone()
	tokens := tokenize(text)
	extracted := c.extract(tokens, text, &pref, false, "")
	c.applyImplications(&pref, "")
	next, rest := nextQuestion(pref, c.Questions())
	return Step{
		Preference: pref,
		Next:       next,
		Remaining:  rest,
		Done:       next == nil,
		Extracted:  extracted,
	}
}

// Advance applies an answer to the pending question. On a ParseError the
// preference is returned unchanged and the same question is re-asked.
func (c *Collector) Advance(text string, pending models.Question, remaining []models.Question, current models.CompletePreference) Step {
	tokens := tokenize(text)
	pref := current.Clone()

	if c.vocab.contains(tokens, KindCorrection) {
		if corrected := c.correct(tokens, text, &pref); len(corrected) > 0 {
			c.applyImplications(&pref, pending.Dimension)
			queue := append([]models.Question{pending}, remaining...)
			next, rest := nextQuestion(pref, queue)
			return Step{Preference: pref, Next: next, Remaining: rest, Done: next == nil, Corrected: corrected}
		}
	}

	updated, err := c.ParseAnswer(text, pending, pref)
	if err != nil {
		var perr *ParseError
		if !errors.As(err, &perr) {
			perr = newParseError(pending.Dimension, text, err.Error())
		}
		q := pending
		return Step{
			Preference: current.Clone(),
			Next:       &q,
			Remaining:  remaining,
			Err:        perr,
		}
	}
	pref = updated
	extracted := c.extract(tokens, text, &pref, false, pending.Dimension)
	c.applyImplications(&pref, "")
	next, rest := nextQuestion(pref, remaining)
	return Step{
		Preference: pref,
		Next:       next,
		Remaining:  rest,
		Done:       next == nil,
		Extracted:  extracted,
	}
}

// ParseAnswer maps text onto the asked dimension and returns the updated preference.
// The asked dimension is always overwritten: answering the question is explicit.
func (c *Collector) ParseAnswer(text string, q models.Question, current models.CompletePreference) (models.CompletePreference, error) {
	tokens := tokenize(text)
	pref := current.Clone()
	if len(tokens) == 0 {
		return current, newParseError(q.Dimension, text, "empty answer")
	}

	var err error
	switch q.Dimension {
	case models.DimensionTimePeriod:
		err = c.parsePeriod(tokens, text, &pref)
	case models.DimensionAvoidEarlyStart:
		err = c.parseThreshold(tokens, text, q.Dimension, &pref.AvoidEarlyStart)
	case models.DimensionAvoidLateEnd:
		err = c.parseThreshold(tokens, text, q.Dimension, &pref.AvoidLateEnd)
	case models.DimensionDays:
		err = c.parseDays(tokens, text, q.Framing, &pref)
	default:
		err = newParseError(q.Dimension, text, "unknown dimension")
	}
	if err != nil {
		return current, err
	}
	pref.MarkCollected(q.Dimension)
	return pref, nil
}

func (c *Collector) parsePeriod(tokens []token, text string, pref *models.CompletePreference) error {
	if c.vocab.contains(tokens, KindSkip) || c.vocab.contains(tokens, KindPeriodNone) {
		pref.TimePeriod = models.TimePeriodNone
		return nil
	}
	periods := uniquePeriods(c.vocab.findAll(tokens, KindPeriod))
	switch len(periods) {
	case 1:
		pref.TimePeriod = periods[0]
		return nil
	case 0:
		if c.vocab.contains(tokens, KindNegative) {
			pref.TimePeriod = models.TimePeriodNone
			return nil
		}
		return newParseError(models.DimensionTimePeriod, text, "no time period recognized")
	default:
		return newParseError(models.DimensionTimePeriod, text, "more than one time period given")
	}
}

func (c *Collector) parseThreshold(tokens []token, text string, dim models.Dimension, target *models.ThresholdPreference) error {
	marker, fallback := KindEarlyMarker, c.defaults.EarlyThreshold
	if dim == models.DimensionAvoidLateEnd {
		marker, fallback = KindLateMarker, c.defaults.LateThreshold
	}
	if c.vocab.contains(tokens, KindSkip) {
		*target = models.ThresholdPreference{Enabled: false, Threshold: fallback}
		return nil
	}

	match, hasClock := c.vocab.thresholdAfter(tokens, marker)
	if !hasClock {
		match, hasClock = c.vocab.anyThreshold(tokens)
	}
	threshold := fallback
	if hasClock {
		threshold = match.clock
		if dim == models.DimensionAvoidLateEnd {
			threshold = lateClock(match)
		}
	}

	affirm, negate := c.classifyBoolean(tokens)
	switch {
	case hasClock && (affirm || !negate):
		*target = models.ThresholdPreference{Enabled: true, Threshold: threshold}
	case affirm && !negate:
		*target = models.ThresholdPreference{Enabled: true, Threshold: threshold}
	case negate && !affirm:
		*target = models.ThresholdPreference{Enabled: false, Threshold: fallback}
	case affirm && negate:
		return newParseError(dim, text, "answer is both yes and no")
	default:
		return newParseError(dim, text, "expected yes or no")
	}
	return nil
}

// classifyBoolean scans left to right preferring the longest phrase. A bare
// "không muốn" is a refusal; it only reads as avoidance when it leads into a
// time ("không muốn trước 7h"). "không muốn học ..." is affirmative by table.
func (c *Collector) classifyBoolean(tokens []token) (affirm, negate bool) {
	for i := 0; i < len(tokens); {
		_, an, aok := c.vocab.match(tokens, i, KindAffirmative)
		_, nn, nok := c.vocab.match(tokens, i, KindNegative)
		_, rn, rok := c.vocab.match(tokens, i, KindReluctance)
		switch {
		case aok && an >= nn && (!rok || an >= rn):
			affirm = true
			i += an
		case nok && (!rok || nn >= rn):
			negate = true
			i += nn
		case rok:
			if c.leadsIntoTime(tokens, i+rn) {
				affirm = true
			} else {
				negate = true
			}
			i += rn
		default:
			i++
		}
	}
	return affirm, negate
}

// leadsIntoTime reports whether tokens[i] starts an early/late marker or a clock.
func (c *Collector) leadsIntoTime(tokens []token, i int) bool {
	if i >= len(tokens) {
		return false
	}
	if tokens[i].is(tokenNumber) {
		return true
	}
	if _, _, ok := c.vocab.match(tokens, i, KindEarlyMarker); ok {
		return true
	}
	_, _, ok := c.vocab.match(tokens, i, KindLateMarker)
	return ok
}

func (c *Collector) parseDays(tokens []token, text string, framing models.DayFraming, pref *models.CompletePreference) error {
	if c.vocab.contains(tokens, KindPreferMarker) {
		framing = models.DayFramingPrefer
	} else if c.vocab.contains(tokens, KindAvoidMarker) {
		framing = models.DayFramingAvoid
	}

	days, err := c.days.Parse(text)
	if err == nil {
		if framing == models.DayFramingPrefer {
			pref.PreferDays = days
		} else {
			pref.AvoidDays = days
		}
		return nil
	}

	affirm, negate := c.classifyBoolean(tokens)
	if c.vocab.contains(tokens, KindSkip) || c.vocab.contains(tokens, KindPeriodNone) || (negate && !affirm) {
		if framing == models.DayFramingPrefer {
			pref.PreferDays = models.WeekdaySet{}
		} else {
			pref.AvoidDays = models.WeekdaySet{}
		}
		return nil
	}
	return err
}

// extract fills dimensions stated in passing ("buổi sáng", "trước 7h",
// "tránh thứ 7"). Unless overwrite is set, already collected dimensions are
// left untouched.
func (c *Collector) extract(tokens []token, text string, pref *models.CompletePreference, overwrite bool, except models.Dimension) []models.Dimension {
	var found []models.Dimension
	allowed := func(dim models.Dimension) bool {
		return dim != except && (overwrite || !pref.Has(dim))
	}

	if allowed(models.DimensionTimePeriod) {
		periods := uniquePeriods(c.vocab.findAll(tokens, KindExplicitTime))
		if len(periods) == 1 {
			pref.TimePeriod = periods[0]
			pref.MarkCollected(models.DimensionTimePeriod)
			found = append(found, models.DimensionTimePeriod)
		}
	}
	if allowed(models.DimensionAvoidEarlyStart) {
		if match, ok := c.vocab.thresholdAfter(tokens, KindEarlyMarker); ok {
			pref.AvoidEarlyStart = models.ThresholdPreference{Enabled: true, Threshold: match.clock}
			pref.MarkCollected(models.DimensionAvoidEarlyStart)
			found = append(found, models.DimensionAvoidEarlyStart)
		}
	}
	if allowed(models.DimensionAvoidLateEnd) {
		if match, ok := c.vocab.thresholdAfter(tokens, KindLateMarker); ok {
			pref.AvoidLateEnd = models.ThresholdPreference{Enabled: true, Threshold: lateClock(match)}
			pref.MarkCollected(models.DimensionAvoidLateEnd)
			found = append(found, models.DimensionAvoidLateEnd)
		}
	}
	if allowed(models.DimensionDays) {
		if days, framing, ok := c.markedDays(tokens); ok {
			if framing == models.DayFramingPrefer {
				pref.PreferDays = days
			} else {
				pref.AvoidDays = days
			}
			pref.MarkCollected(models.DimensionDays)
			found = append(found, models.DimensionDays)
		}
	}
	return found
}

// markedDays parses a day list that follows an avoid or prefer marker.
func (c *Collector) markedDays(tokens []token) (models.WeekdaySet, models.DayFraming, bool) {
	for _, candidate := range []struct {
		kind    Kind
		framing models.DayFraming
	}{
		{KindPreferMarker, models.DayFramingPrefer},
		{KindAvoidMarker, models.DayFramingAvoid},
	} {
		_, at, n, ok := c.vocab.find(tokens, candidate.kind)
		if !ok {
			continue
		}
		days, err := c.days.parseTokens(tokens[at+n:], false)
		if err == nil && len(days) > 0 {
			return days, candidate.framing, true
		}
	}
	return nil, "", false
}

// correct handles utterances such as "sửa lại: học buổi chiều" or "đổi ngày
// nghỉ thành thứ 7" which may overwrite dimensions that were already set. The
// time period is only rewritten by an explicit phrase ("buổi sáng", "học
// chiều"): a bare "sang" after "đổi" means "to", not "morning".
func (c *Collector) correct(tokens []token, text string, pref *models.CompletePreference) []models.Dimension {
	corrected := c.extract(tokens, text, pref, true, "")
	for _, d := range corrected {
		if d == models.DimensionDays {
			return corrected
		}
	}
	if days, err := c.days.Parse(text); err == nil {
		pref.AvoidDays = days
		pref.MarkCollected(models.DimensionDays)
		corrected = append(corrected, models.DimensionDays)
	}
	return corrected
}

// applyImplications skips questions answered by the time period: a morning
// preference implies early starts are fine, an evening one that late ends are.
// The pending dimension is never closed this way; it still gets its answer.
func (c *Collector) applyImplications(pref *models.CompletePreference, pending models.Dimension) {
	switch pref.TimePeriod {
	case models.TimePeriodMorning:
		if pending != models.DimensionAvoidEarlyStart && !pref.Has(models.DimensionAvoidEarlyStart) {
			pref.AvoidEarlyStart = models.ThresholdPreference{Enabled: false, Threshold: c.defaults.EarlyThreshold}
			pref.MarkCollected(models.DimensionAvoidEarlyStart)
		}
	case models.TimePeriodEvening:
		if pending != models.DimensionAvoidLateEnd && !pref.Has(models.DimensionAvoidLateEnd) {
			pref.AvoidLateEnd = models.ThresholdPreference{Enabled: false, Threshold: c.defaults.LateThreshold}
			pref.MarkCollected(models.DimensionAvoidLateEnd)
		}
	}
}

// nextQuestion drops answered questions and returns the first open one with the rest of the queue.
func nextQuestion(pref models.CompletePreference, queue []models.Question) (*models.Question, []models.Question) {
	for i, q := range queue {
		if pref.Has(q.Dimension) {
			continue
		}
		next := q
		var rest []models.Question
		for _, r := range queue[i+1:] {
			if !pref.Has(r.Dimension) {
				rest = append(rest, r)
			}
		}
		return &next, rest
	}
	return nil, nil
}

func uniquePeriods(entries []Entry) []models.TimePeriod {
	seen := make(map[models.TimePeriod]bool)
	var result []models.TimePeriod
	for _, e := range entries {
		p := e.Period()
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		result = append(result, p)
	}
	return result
}
