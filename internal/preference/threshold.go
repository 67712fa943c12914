package preference

import (
	"strconv"

	"github.com/vqdung71104/student-management-sub001/internal/models"
)

// clockMatch is a time of day found inside an utterance.
type clockMatch struct {
	at       int
	span     int
	clock    models.ClockTime
	meridiem bool
}

// findClocks extracts every explicit time ("7h", "7h30", "7:30", "17g", "5 giờ chiều").
// A bare number only counts when it directly follows an early/late marker ("trước 7").
func (v *Vocabulary) findClocks(tokens []token) []clockMatch {
	var result []clockMatch
	for i := 0; i < len(tokens); i++ {
		if !tokens[i].is(tokenNumber) {
			continue
		}
		hour, err := strconv.Atoi(tokens[i].text)
		if err != nil {
			continue
		}
		j := i + 1
		explicit := false
		if j < len(tokens) && tokens[j].is(tokenColon) {
			explicit = true
			j++
		} else if _, n, ok := v.match(tokens, j, KindHourUnit); ok {
			explicit = true
			j += n
		}
		if !explicit && !v.followsMarker(tokens, i) {
			continue
		}
		minute := 0
		if explicit && j < len(tokens) && tokens[j].is(tokenNumber) {
			if m, err := strconv.Atoi(tokens[j].text); err == nil {
				minute = m
				j++
			}
		}
		meridiem := false
		if _, n, ok := v.match(tokens, j, KindEveningMarker); ok {
			if hour < 12 {
				hour += 12
			}
			meridiem = true
			j += n
		} else if _, n, ok := v.match(tokens, j, KindMorningMarker); ok {
			meridiem = true
			j += n
		}
		if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
			continue
		}
		result = append(result, clockMatch{at: i, span: j - i, clock: models.NewClockTime(hour, minute), meridiem: meridiem})
		i = j - 1
	}
	return result
}

func (v *Vocabulary) followsMarker(tokens []token, i int) bool {
	for _, kind := range []Kind{KindEarlyMarker, KindLateMarker} {
		for k := i - 1; k >= 0 && k >= i-2; k-- {
			if _, n, ok := v.match(tokens, k, kind); ok && k+n == i {
				return true
			}
		}
	}
	return false
}

// thresholdAfter returns the first clock preceded (within a few tokens) by a
// marker of the given kind, e.g. "trước 7h" for KindEarlyMarker.
func (v *Vocabulary) thresholdAfter(tokens []token, marker Kind) (clockMatch, bool) {
	for _, c := range v.findClocks(tokens) {
		for k := c.at - 1; k >= 0 && k >= c.at-3; k-- {
			if _, _, ok := v.match(tokens, k, marker); ok {
				return c, true
			}
		}
	}
	return clockMatch{}, false
}

// anyThreshold returns the first clock in the utterance.
func (v *Vocabulary) anyThreshold(tokens []token) (clockMatch, bool) {
	clocks := v.findClocks(tokens)
	if len(clocks) == 0 {
		return clockMatch{}, false
	}
	return clocks[0], true
}

// lateClock reads an end-of-day threshold; small hours without an explicit
// morning/evening marker are afternoon times ("sau 5h" means 17:00).
func lateClock(c clockMatch) models.ClockTime {
	if !c.meridiem && c.clock.Hour() < 10 {
		return c.clock + models.NewClockTime(12, 0)
	}
	return c.clock
}
