package service

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Intent is the coarse tag returned by the NLU collaborator.
type Intent string

// Intents understood by the advisor.
const (
	IntentScheduleRecommendation Intent = "schedule_recommendation"
	IntentOther                  Intent = "other"
)

// IntentClassifier decides whether a message opens a scheduling conversation.
type IntentClassifier interface {
	Classify(ctx context.Context, text string) (Intent, error)
}

// DefaultScheduleKeywords trigger the scheduling conversation.
var DefaultScheduleKeywords = []string{
	"xếp lịch", "xep lich", "lịch học", "lich hoc", "thời khóa biểu", "thời khoá biểu", "tkb",
	"gợi ý lịch", "goi y lich", "tư vấn lịch", "đăng ký lớp", "đăng ký học", "dang ky",
	"chọn lớp", "chon lop", "schedule", "timetable",
}

// KeywordIntentClassifier is the built-in classifier used when no external NLU is wired.
type KeywordIntentClassifier struct {
	keywords []string
}

// NewKeywordIntentClassifier builds a classifier; nil keywords uses DefaultScheduleKeywords.
func NewKeywordIntentClassifier(keywords []string) *KeywordIntentClassifier {
	if keywords == nil {
		keywords = DefaultScheduleKeywords
	}
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = normalizeText(k); k != "" {
			normalized = append(normalized, k)
		}
	}
	return &KeywordIntentClassifier{keywords: normalized}
}

// Classify returns IntentScheduleRecommendation when any keyword occurs in text.
func (c *KeywordIntentClassifier) Classify(_ context.Context, text string) (Intent, error) {
	normalized := normalizeText(text)
	for _, k := range c.keywords {
		if strings.Contains(normalized, k) {
			return IntentScheduleRecommendation, nil
		}
	}
	return IntentOther, nil
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(norm.NFC.String(s))), " ")
}
