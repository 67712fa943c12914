package preference

import (
	"sort"

	"github.com/vqdung71104/student-management-sub001/internal/models"
)

// Kind groups vocabulary entries by what they mean in an answer.
type Kind string

// Vocabulary kinds.
const (
	KindPeriod        Kind = "period"
	KindPeriodNone    Kind = "period_none"
	KindAffirmative   Kind = "affirmative"
	KindNegative      Kind = "negative"
	KindReluctance    Kind = "reluctance"
	KindSkip          Kind = "skip"
	KindCorrection    Kind = "correction"
	KindDayPrefix     Kind = "day_prefix"
	KindDay           Kind = "day"
	KindNumberWord    Kind = "number_word"
	KindEarlyMarker   Kind = "early_marker"
	KindLateMarker    Kind = "late_marker"
	KindAvoidMarker   Kind = "avoid_marker"
	KindPreferMarker  Kind = "prefer_marker"
	KindExplicitTime  Kind = "explicit_period"
	KindHourUnit      Kind = "hour_unit"
	KindRangeWord     Kind = "range_word"
	KindListWord      Kind = "list_word"
	KindFiller        Kind = "filler"
	KindMorningMarker Kind = "am"
	KindEveningMarker Kind = "pm"
)

// Entry maps a phrase to a value of a given kind.
type Entry struct {
	Phrase string
	Kind   Kind
	Value  any
}

// Period returns the entry value as a time period.
func (e Entry) Period() models.TimePeriod {
	p, _ := e.Value.(models.TimePeriod)
	return p
}

// Weekday returns the entry value as a weekday.
func (e Entry) Weekday() models.Weekday {
	d, _ := e.Value.(models.Weekday)
	return d
}

// Int returns the entry value as an integer.
func (e Entry) Int() int {
	n, _ := e.Value.(int)
	return n
}

// DefaultEntries is the built-in Vietnamese/English vocabulary. Unaccented
// aliases are only listed where they cannot be confused with another word
// ("toi" is left out because it also means "I").
var DefaultEntries = []Entry{
	{"sáng", KindPeriod, models.TimePeriodMorning},
	{"buổi sáng", KindPeriod, models.TimePeriodMorning},
	{"sang", KindPeriod, models.TimePeriodMorning},
	{"buoi sang", KindPeriod, models.TimePeriodMorning},
	{"morning", KindPeriod, models.TimePeriodMorning},
	{"chiều", KindPeriod, models.TimePeriodAfternoon},
	{"buổi chiều", KindPeriod, models.TimePeriodAfternoon},
	{"chieu", KindPeriod, models.TimePeriodAfternoon},
	{"buoi chieu", KindPeriod, models.TimePeriodAfternoon},
	{"afternoon", KindPeriod, models.TimePeriodAfternoon},
	{"tối", KindPeriod, models.TimePeriodEvening},
	{"buổi tối", KindPeriod, models.TimePeriodEvening},
	{"buoi toi", KindPeriod, models.TimePeriodEvening},
	{"đêm", KindPeriod, models.TimePeriodEvening},
	{"evening", KindPeriod, models.TimePeriodEvening},

	{"buổi sáng", KindExplicitTime, models.TimePeriodMorning},
	{"học sáng", KindExplicitTime, models.TimePeriodMorning},
	{"buổi chiều", KindExplicitTime, models.TimePeriodAfternoon},
	{"học chiều", KindExplicitTime, models.TimePeriodAfternoon},
	{"buổi tối", KindExplicitTime, models.TimePeriodEvening},
	{"học tối", KindExplicitTime, models.TimePeriodEvening},
	{"buoi sang", KindExplicitTime, models.TimePeriodMorning},
	{"hoc sang", KindExplicitTime, models.TimePeriodMorning},
	{"buoi chieu", KindExplicitTime, models.TimePeriodAfternoon},
	{"hoc chieu", KindExplicitTime, models.TimePeriodAfternoon},
	{"buoi toi", KindExplicitTime, models.TimePeriodEvening},
	{"hoc toi", KindExplicitTime, models.TimePeriodEvening},

	{"không quan tâm", KindPeriodNone, models.TimePeriodNone},
	{"khong quan tam", KindPeriodNone, models.TimePeriodNone},
	{"sao cũng được", KindPeriodNone, models.TimePeriodNone},
	{"gì cũng được", KindPeriodNone, models.TimePeriodNone},
	{"buổi nào cũng được", KindPeriodNone, models.TimePeriodNone},
	{"tùy", KindPeriodNone, models.TimePeriodNone},
	{"tuỳ", KindPeriodNone, models.TimePeriodNone},
	{"bất kỳ", KindPeriodNone, models.TimePeriodNone},
	{"any", KindPeriodNone, models.TimePeriodNone},
	{"none", KindPeriodNone, models.TimePeriodNone},

	{"có", KindAffirmative, true},
	{"co", KindAffirmative, true},
	{"có chứ", KindAffirmative, true},
	{"ừ", KindAffirmative, true},
	{"ok", KindAffirmative, true},
	{"đúng", KindAffirmative, true},
	{"đúng vậy", KindAffirmative, true},
	{"yes", KindAffirmative, true},
	{"tránh", KindAffirmative, true},
	{"muốn tránh", KindAffirmative, true},
	{"không muốn học", KindAffirmative, true},
	{"khong muon hoc", KindAffirmative, true},

	{"không", KindNegative, false},
	{"khong", KindNegative, false},
	{"ko", KindNegative, false},
	{"k", KindNegative, false},
	{"no", KindNegative, false},
	{"không cần", KindNegative, false},
	{"không sao", KindNegative, false},
	{"không có", KindNegative, false},
	{"chẳng", KindNegative, false},
	{"không muốn tránh", KindNegative, false},
	{"khong muon tranh", KindNegative, false},

	{"không muốn", KindReluctance, nil},
	{"khong muon", KindReluctance, nil},

	{"bỏ qua", KindSkip, nil},
	{"bo qua", KindSkip, nil},
	{"skip", KindSkip, nil},

	{"sửa", KindCorrection, nil},
	{"sửa lại", KindCorrection, nil},
	{"sua", KindCorrection, nil},
	{"đổi", KindCorrection, nil},
	{"đổi lại", KindCorrection, nil},
	{"doi", KindCorrection, nil},
	{"thay đổi", KindCorrection, nil},

	{"thứ", KindDayPrefix, nil},
	{"thu", KindDayPrefix, nil},
	{"th", KindDayPrefix, nil},
	{"t", KindDayPrefix, nil},

	{"chủ nhật", KindDay, models.Sunday},
	{"chu nhat", KindDay, models.Sunday},
	{"cn", KindDay, models.Sunday},
	{"monday", KindDay, models.Monday},
	{"mon", KindDay, models.Monday},
	{"tuesday", KindDay, models.Tuesday},
	{"tue", KindDay, models.Tuesday},
	{"wednesday", KindDay, models.Wednesday},
	{"wed", KindDay, models.Wednesday},
	{"thursday", KindDay, models.Thursday},
	{"thur", KindDay, models.Thursday},
	{"friday", KindDay, models.Friday},
	{"fri", KindDay, models.Friday},
	{"saturday", KindDay, models.Saturday},
	{"sat", KindDay, models.Saturday},
	{"sunday", KindDay, models.Sunday},
	{"sun", KindDay, models.Sunday},

	{"hai", KindNumberWord, 2},
	{"ba", KindNumberWord, 3},
	{"tư", KindNumberWord, 4},
	{"tu", KindNumberWord, 4},
	{"bốn", KindNumberWord, 4},
	{"năm", KindNumberWord, 5},
	{"nam", KindNumberWord, 5},
	{"sáu", KindNumberWord, 6},
	{"bảy", KindNumberWord, 7},
	{"bay", KindNumberWord, 7},
	{"tám", KindNumberWord, 8},

	{"trước", KindEarlyMarker, nil},
	{"truoc", KindEarlyMarker, nil},
	{"sớm", KindEarlyMarker, nil},
	{"before", KindEarlyMarker, nil},
	{"sau", KindLateMarker, nil},
	{"muộn", KindLateMarker, nil},
	{"trễ", KindLateMarker, nil},
	{"after", KindLateMarker, nil},

	{"tránh", KindAvoidMarker, nil},
	{"nghỉ", KindAvoidMarker, nil},
	{"không học", KindAvoidMarker, nil},
	{"khong hoc", KindAvoidMarker, nil},
	{"không muốn học", KindAvoidMarker, nil},
	{"bận", KindAvoidMarker, nil},
	{"trừ", KindAvoidMarker, nil},
	{"ngoại trừ", KindAvoidMarker, nil},
	{"avoid", KindAvoidMarker, nil},

	{"chỉ học", KindPreferMarker, nil},
	{"chỉ muốn học", KindPreferMarker, nil},
	{"muốn học vào", KindPreferMarker, nil},
	{"ưu tiên", KindPreferMarker, nil},
	{"thích học", KindPreferMarker, nil},
	{"prefer", KindPreferMarker, nil},

	{"h", KindHourUnit, nil},
	{"g", KindHourUnit, nil},
	{"giờ", KindHourUnit, nil},
	{"gio", KindHourUnit, nil},

	{"sáng", KindMorningMarker, nil},
	{"am", KindMorningMarker, nil},
	{"chiều", KindEveningMarker, nil},
	{"tối", KindEveningMarker, nil},
	{"đêm", KindEveningMarker, nil},
	{"pm", KindEveningMarker, nil},

	{"đến", KindRangeWord, nil},
	{"tới", KindRangeWord, nil},
	{"den", KindRangeWord, nil},
	{"to", KindRangeWord, nil},

	{"và", KindListWord, nil},
	{"va", KindListWord, nil},
	{"and", KindListWord, nil},
	{"với", KindListWord, nil},
	{"hoặc", KindListWord, nil},
	{"hay", KindListWord, nil},
	{"or", KindListWord, nil},

	{"ngày", KindFiller, nil},
	{"các", KindFiller, nil},
	{"những", KindFiller, nil},
	{"vào", KindFiller, nil},
	{"hôm", KindFiller, nil},
}

type compiledEntry struct {
	Entry
	words []string
}

// Vocabulary is a compiled token table with longest-phrase-first matching.
type Vocabulary struct {
	byKind map[Kind][]compiledEntry
}

// NewVocabulary compiles entries. Within a kind, longer phrases win.
func NewVocabulary(entries []Entry) *Vocabulary {
	v := &Vocabulary{byKind: make(map[Kind][]compiledEntry)}
	for _, e := range entries {
		w := words(e.Phrase)
		if len(w) == 0 {
			continue
		}
		v.byKind[e.Kind] = append(v.byKind[e.Kind], compiledEntry{Entry: e, words: w})
	}
	for kind := range v.byKind {
		list := v.byKind[kind]
		sort.SliceStable(list, func(i, j int) bool { return len(list[i].words) > len(list[j].words) })
	}
	return v
}

// DefaultVocabulary returns the built-in table.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(DefaultEntries)
}

// match tries every phrase of kind at position i and returns the longest hit
// together with the number of tokens it spans.
func (v *Vocabulary) match(tokens []token, i int, kind Kind) (Entry, int, bool) {
	for _, candidate := range v.byKind[kind] {
		if i+len(candidate.words) > len(tokens) {
			continue
		}
		ok := true
		for k, w := range candidate.words {
			tok := tokens[i+k]
			if tok.kind != tokenWord || tok.text != w {
				ok = false
				break
			}
		}
		if ok {
			return candidate.Entry, len(candidate.words), true
		}
	}
	return Entry{}, 0, false
}

// find scans tokens for the first match of kind.
func (v *Vocabulary) find(tokens []token, kind Kind) (Entry, int, int, bool) {
	for i := range tokens {
		if e, n, ok := v.match(tokens, i, kind); ok {
			return e, i, n, true
		}
	}
	return Entry{}, -1, 0, false
}

// findAll returns every non-overlapping match of kind.
func (v *Vocabulary) findAll(tokens []token, kind Kind) []Entry {
	var result []Entry
	for i := 0; i < len(tokens); {
		if e, n, ok := v.match(tokens, i, kind); ok {
			result = append(result, e)
			i += n
			continue
		}
		i++
	}
	return result
}

// contains reports whether any phrase of kind appears in tokens.
func (v *Vocabulary) contains(tokens []token, kind Kind) bool {
	_, _, _, ok := v.find(tokens, kind)
	return ok
}
