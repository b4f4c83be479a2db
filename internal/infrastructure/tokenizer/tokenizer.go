// Package tokenizer implements C1, the tokenizer adapter (spec.md §4.1,
// §6 "tokenize(query) -> [(term, pos)]"). The dialog core only ever talks
// to the bot.Tokenizer interface; RuleBased is the concrete default this
// repo ships so a bundle runs without an external cppjieba-class
// segmenter. A bundle may plug in a different Tokenizer implementation
// without touching the dialog core.
package tokenizer

import (
	"context"
	"unicode"

	"github.com/chatopera/clause/internal/domain/bot"
)

// RuleBased is a CJK/Latin-aware segmenter: runs of Han characters are
// split one-per-token (matching the character-is-the-atom convention of
// CJK NLP), runs of Latin letters/digits are kept as one token, and
// whitespace/punctuation separate tokens. It assigns coarse POS tags
// ("x" for Han, "en" for Latin/digit runs, "w" for punctuation) — good
// enough to exercise the feature builder's "@"-namespaced POS features,
// not a substitute for a trained segmenter's POS tagger.
type RuleBased struct {
	userDict map[rune]bool // optional: chars that should never start a new Han run split, reserved for future use
}

// New creates a RuleBased tokenizer.
func New() *RuleBased {
	return &RuleBased{}
}

// Tokenize implements bot.Tokenizer.
func (t *RuleBased) Tokenize(_ context.Context, query string) ([]bot.Token, error) {
	runes := []rune(query)
	var tokens []bot.Token

	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case isHan(r):
			tokens = append(tokens, bot.Token{Term: string(r), POS: "x"})
			i++
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j])) {
				j++
			}
			tokens = append(tokens, bot.Token{Term: string(runes[i:j]), POS: "en"})
			i = j
		default:
			tokens = append(tokens, bot.Token{Term: string(r), POS: "w"})
			i++
		}
	}

	return tokens, nil
}

func isHan(r rune) bool {
	return unicode.Is(unicode.Han, r)
}
