package preference

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenNumber
	tokenSep
	tokenColon
	tokenDash
)

type token struct {
	kind tokenKind
	text string
}

func (t token) is(kind tokenKind) bool { return t.kind == kind }

// normalize folds case and composes combining marks so "thứ" typed with
// decomposed diacritics matches the vocabulary.
func normalize(text string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(text)))
}

// tokenize splits free text into words, digit runs and separators. Letter and
// digit runs are split apart so "t2" becomes ["t", "2"] and "7h30" becomes
// ["7", "h", "30"].
func tokenize(text string) []token {
	var (
		tokens  []token
		current strings.Builder
		kind    tokenKind
	)
	flush := func() {
		if current.Len() == 0 {
			return
		}
		tokens = append(tokens, token{kind: kind, text: current.String()})
		current.Reset()
	}

	for _, r := range normalize(text) {
		switch {
		case unicode.IsLetter(r) || unicode.Is(unicode.Mn, r):
			if current.Len() > 0 && kind != tokenWord {
				flush()
			}
			kind = tokenWord
			current.WriteRune(r)
		case unicode.IsDigit(r):
			if current.Len() > 0 && kind != tokenNumber {
				flush()
			}
			kind = tokenNumber
			current.WriteRune(r)
		case r == ':':
			flush()
			tokens = append(tokens, token{kind: tokenColon, text: ":"})
		case r == ',' || r == ';' || r == '/' || r == '&' || r == '+' || r == '.':
			flush()
			tokens = append(tokens, token{kind: tokenSep, text: string(r)})
		case r == '-' || r == '–' || r == '—' || r == '~':
			flush()
			tokens = append(tokens, token{kind: tokenDash, text: "-"})
		default:
			flush()
		}
	}
	flush()
	return tokens
}

// words returns the word texts of a phrase, used to compile vocabulary entries.
func words(phrase string) []string {
	var result []string
	for _, tok := range tokenize(phrase) {
		result = append(result, tok.text)
	}
	return result
}
