package preference

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vqdung71104/student-management-sub001/internal/models"
)

// DayParser converts compact day-of-week text into a canonical weekday set.
type DayParser struct {
	vocab *Vocabulary
}

// NewDayParser builds a parser over the given vocabulary.
func NewDayParser(vocab *Vocabulary) *DayParser {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &DayParser{vocab: vocab}
}

// Parse recognises full names ("chủ nhật", "monday"), prefixed codes ("thứ 2",
// "t2", "thứ hai"), shared-prefix lists ("thứ 2,3,4", "t2,3,4"), ranges
// ("thứ 2 - thứ 4", "thứ 2 đến 4") and utterances made only of day codes
// ("2, 3, 8"). Bare numbers elsewhere in a sentence are not treated as days.
// Input with no recognisable day always yields a *ParseError.
func (p *DayParser) Parse(text string) (models.WeekdaySet, error) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil, newParseError(models.DimensionDays, text, "empty answer")
	}
	days, err := p.parseTokens(tokens, onlyNumbers(tokens))
	if err != nil {
		if perr, ok := err.(*ParseError); ok {
			perr.Input = text
		}
		return nil, err
	}
	if len(days) == 0 {
		return nil, newParseError(models.DimensionDays, text, "no recognizable day")
	}
	return days, nil
}

func (p *DayParser) parseTokens(tokens []token, bareNumbers bool) (models.WeekdaySet, error) {
	var (
		days         []models.Weekday
		listActive   = bareNumbers
		last         models.Weekday
		pendingRange bool
	)
	emit := func(day models.Weekday) {
		if pendingRange && last.Valid() && day > last {
			for d := last + 1; d < day; d++ {
				days = append(days, d)
			}
		}
		days = append(days, day)
		last = day
		pendingRange = false
		listActive = true
	}

	for i := 0; i < len(tokens); {
		if e, n, ok := p.vocab.match(tokens, i, KindDay); ok {
			emit(e.Weekday())
			i += n
			continue
		}
		if _, n, ok := p.vocab.match(tokens, i, KindDayPrefix); ok {
			if code, used := p.codeAt(tokens, i+n); used > 0 {
				day, err := dayFromCode(code)
				if err != nil {
					return nil, err
				}
				emit(day)
				i += n + used
				continue
			}
		}

		tok := tokens[i]
		switch tok.kind {
		case tokenNumber:
			if listActive && !p.followedByHourUnit(tokens, i) {
				code, _ := strconv.Atoi(tok.text)
				day, err := dayFromCode(code)
				if err != nil {
					return nil, err
				}
				emit(day)
				i++
				continue
			}
			listActive = false
			pendingRange = false
		case tokenSep:
		case tokenDash:
			pendingRange = last.Valid()
		case tokenColon:
			listActive = false
		case tokenWord:
			if listActive {
				if code, used := p.codeAt(tokens, i); used > 0 {
					if day, err := dayFromCode(code); err == nil {
						emit(day)
						i += used
						continue
					}
				}
			}
			if _, n, ok := p.vocab.match(tokens, i, KindRangeWord); ok && last.Valid() {
				pendingRange = true
				i += n
				continue
			}
			if _, n, ok := p.vocab.match(tokens, i, KindListWord); ok {
				i += n
				continue
			}
			if _, n, ok := p.vocab.match(tokens, i, KindFiller); ok {
				i += n
				continue
			}
			listActive = false
			pendingRange = false
		}
		i++
	}
	return models.NewWeekdaySet(days...), nil
}

// codeAt reads a day code written as digits or a Vietnamese number word.
func (p *DayParser) codeAt(tokens []token, i int) (int, int) {
	if i >= len(tokens) {
		return 0, 0
	}
	if tokens[i].is(tokenNumber) {
		if p.followedByHourUnit(tokens, i) {
			return 0, 0
		}
		code, err := strconv.Atoi(tokens[i].text)
		if err != nil {
			return 0, 0
		}
		return code, 1
	}
	if e, n, ok := p.vocab.match(tokens, i, KindNumberWord); ok {
		return e.Int(), n
	}
	return 0, 0
}

func (p *DayParser) followedByHourUnit(tokens []token, i int) bool {
	if i+1 >= len(tokens) {
		return false
	}
	if tokens[i+1].is(tokenColon) {
		return true
	}
	_, _, ok := p.vocab.match(tokens, i+1, KindHourUnit)
	return ok
}

func dayFromCode(code int) (models.Weekday, error) {
	day, ok := models.WeekdayFromCode(code)
	if !ok {
		return 0, newParseError(models.DimensionDays, strconv.Itoa(code), fmt.Sprintf("day code %d is not between 2 and 8", code))
	}
	return day, nil
}

func onlyNumbers(tokens []token) bool {
	seen := false
	for _, tok := range tokens {
		switch tok.kind {
		case tokenNumber:
			seen = true
		case tokenSep, tokenDash:
		default:
			return false
		}
	}
	return seen
}

// RenderDays prints a weekday set in the canonical compact form, e.g.
// "thứ 2,3,4, chủ nhật". Parsing the output yields the same set.
func RenderDays(days models.WeekdaySet) string {
	set := models.NewWeekdaySet(days...)
	var (
		codes  []string
		sunday bool
	)
	for _, day := range set {
		if day == models.Sunday {
			sunday = true
			continue
		}
		codes = append(codes, strconv.Itoa(day.Code()))
	}
	var parts []string
	if len(codes) > 0 {
		parts = append(parts, "thứ "+strings.Join(codes, ","))
	}
	if sunday {
		parts = append(parts, "chủ nhật")
	}
	return strings.Join(parts, ", ")
}
