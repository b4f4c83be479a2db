// Package recall implements C5, the inverted-index corpus of labeled
// utterances (spec.md §4.2, §6 "Recall interface"). The concrete index
// here is an in-memory OR-of-terms posting list with a persisted gob
// snapshot, standing in for the out-of-scope Xapian engine the original
// source used. Reopen() is lock-free for readers: it atomically swaps a
// pointer to an immutable snapshot built from the on-disk corpus file,
// matching spec.md §5's "per-call reopen is the documented policy".
package recall

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/chatopera/clause/internal/domain/bot"
)

// Entry is one indexed labeled utterance plus the terms it was indexed
// under (its tokenized form).
type Entry struct {
	Doc   bot.Document
	Terms []string
}

type snapshot struct {
	entries  []Entry
	postings map[string][]int // term -> indices into entries
	docFreq  map[string]int   // term -> number of entries containing it
}

func buildSnapshot(entries []Entry) *snapshot {
	postings := make(map[string][]int)
	docFreq := make(map[string]int)

	for idx, e := range entries {
		seen := make(map[string]bool, len(e.Terms))
		for _, term := range e.Terms {
			postings[term] = append(postings[term], idx)
			if !seen[term] {
				docFreq[term]++
				seen[term] = true
			}
		}
	}

	return &snapshot{entries: entries, postings: postings, docFreq: docFreq}
}

// Index is an in-memory recall index implementing bot.Recall.
type Index struct {
	path string // optional: gob-encoded corpus file reloaded on Reopen

	mu   sync.Mutex // serializes writers (Reopen, Add); readers never block on it
	snap atomic.Pointer[snapshot]
}

// New creates an empty index. If path is non-empty, Reopen reloads the
// corpus from that file; otherwise Reopen is a no-op and the corpus is
// whatever was built in-process via Add/Index.
func New(path string) *Index {
	idx := &Index{path: path}
	idx.snap.Store(buildSnapshot(nil))
	return idx
}

// Index replaces the in-memory corpus with entries, for callers that build
// the corpus programmatically (tests, local bundle authoring) rather than
// from a persisted file.
func (idx *Index) Index(entries []Entry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.snap.Store(buildSnapshot(entries))
}

// Reopen implements bot.Recall. It reloads the corpus file from disk if
// one was configured; otherwise it is a cheap no-op.
func (idx *Index) Reopen(_ context.Context) error {
	if idx.path == "" {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	data, err := os.ReadFile(idx.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("recall: reopen %s: %w", idx.path, err)
	}

	var entries []Entry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entries); err != nil {
		return fmt.Errorf("recall: decode %s: %w", idx.path, err)
	}

	idx.snap.Store(buildSnapshot(entries))
	return nil
}

// Search implements bot.Recall: elite-set OR-of-terms retrieval.
//
// The chosen equivalence for Xapian's OP_ELITE_SET (spec.md §9 Open
// Question): rank the input terms by corpus document frequency ascending
// (rarer terms first — the usual inverse-document-frequency intuition),
// ties broken by first occurrence in terms; keep the best k; score every
// document containing at least one kept term by the sum of 1/df over the
// kept terms it contains; return the top `top` by that score, ties broken
// by first occurrence in the corpus (stable sort).
func (idx *Index) Search(_ context.Context, terms []string, k, top int) ([]bot.Document, error) {
	snap := idx.snap.Load()
	if snap == nil || len(terms) == 0 {
		return nil, nil
	}

	elite := eliteTerms(snap, terms, k)
	if len(elite) == 0 {
		return nil, nil
	}

	type hit struct {
		idx   int
		score float64
	}
	scores := make(map[int]float64)
	for _, term := range elite {
		df := snap.docFreq[term]
		if df == 0 {
			continue
		}
		weight := 1.0 / float64(df)
		for _, docIdx := range snap.postings[term] {
			scores[docIdx] += weight
		}
	}

	hits := make([]hit, 0, len(scores))
	for i, s := range scores {
		hits = append(hits, hit{idx: i, score: s})
	}
	// Sort by corpus position first so the following stable sort on score
	// breaks ties deterministically by first occurrence, not map order.
	sort.Slice(hits, func(i, j int) bool { return hits[i].idx < hits[j].idx })
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	if top > 0 && len(hits) > top {
		hits = hits[:top]
	}

	out := make([]bot.Document, len(hits))
	for i, h := range hits {
		out[i] = snap.entries[h.idx].Doc
	}
	return out, nil
}

// eliteTerms picks the best k distinct terms from terms by ascending
// corpus document frequency (rarest first), ties broken by first
// occurrence. Terms absent from the corpus sort last (treated as having
// maximal, i.e. least informative, document frequency) and are only kept
// if there is room after all in-corpus terms are exhausted.
func eliteTerms(snap *snapshot, terms []string, k int) []string {
	type scoredTerm struct {
		term    string
		df      int
		inCorp  bool
		ordinal int
	}

	seen := make(map[string]bool, len(terms))
	var unique []scoredTerm
	for i, t := range terms {
		if seen[t] {
			continue
		}
		seen[t] = true
		df, ok := snap.docFreq[t]
		unique = append(unique, scoredTerm{term: t, df: df, inCorp: ok, ordinal: i})
	}

	sort.SliceStable(unique, func(i, j int) bool {
		a, b := unique[i], unique[j]
		if a.inCorp != b.inCorp {
			return a.inCorp // in-corpus terms sort before unseen terms
		}
		if a.df != b.df {
			return a.df < b.df
		}
		return a.ordinal < b.ordinal
	})

	if k > 0 && len(unique) > k {
		unique = unique[:k]
	}

	out := make([]string, len(unique))
	for i, st := range unique {
		out[i] = st.term
	}
	return out
}

// Save persists entries to path in the gob format Reopen expects.
func Save(entries []Entry, path string) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entries); err != nil {
		return fmt.Errorf("recall: encode corpus: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
