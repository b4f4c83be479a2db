package classify

import (
	"context"
	"sort"

	"github.com/chatopera/clause/internal/domain/bot"
	"github.com/chatopera/clause/internal/domain/nlp"
)

const (
	// EliteSetK is the number of best-scoring terms kept in the
	// disjunction query (spec.md §4.2 step 2, "elite set" K=30).
	EliteSetK = 30
	// TopDocuments is the number of candidate documents retrieved before
	// rerank (spec.md §4.2 step 3).
	TopDocuments = 10
)

// scored pairs a retrieved document with its similarity score, keeping the
// document's original retrieval position for stable tie-breaking.
type scored struct {
	intentName string
	score      float64
	rank       int
}

// Classify implements C5+C6 (spec.md §4.2): reopen the index, retrieve the
// top EliteSetK-term disjunction's top TopDocuments hits, rerank by
// character-bag similarity against the query, and return the first intent
// whose score clears threshold. Returns ("", false, nil) — "no match" —
// when nothing clears the threshold or nothing was retrieved
// (NoRelevantCandidates, spec §7, a non-error result).
func Classify(ctx context.Context, recall bot.Recall, tokens []bot.Token, threshold float64) (string, bool, error) {
	if err := recall.Reopen(ctx); err != nil {
		return "", false, err
	}

	terms := make([]string, len(tokens))
	var queryChars []string
	for i, t := range tokens {
		terms[i] = t.Term
		queryChars = append(queryChars, nlp.CharSegment(t.Term)...)
	}

	docs, err := recall.Search(ctx, terms, EliteSetK, TopDocuments)
	if err != nil {
		return "", false, err
	}
	if len(docs) == 0 {
		return "", false, nil
	}

	candidates := make([]scored, len(docs))
	for i, doc := range docs {
		chars := nlp.CharSegment(doc.Utterance)
		candidates[i] = scored{
			intentName: doc.IntentName,
			score:      CharBagScore(queryChars, chars),
			rank:       i,
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	for _, c := range candidates {
		if c.score >= threshold {
			return c.intentName, true, nil
		}
	}

	return "", false, nil
}
