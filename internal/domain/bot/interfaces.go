// Package bot defines the narrow capability interfaces the dialog core
// depends on. Concrete implementations
// live under internal/infrastructure/*; this package only describes the
// contract so internal/domain/classify and internal/domain/dialog never
// import infrastructure code.
package bot

import (
	"context"

	"github.com/chatopera/clause/internal/domain/nlp"
)

// Token is a single (term, part-of-speech) pair produced by the tokenizer.
type Token struct {
	Term string
	POS  string
}

// Tokenizer wraps an external segmenter (C1).
type Tokenizer interface {
	Tokenize(ctx context.Context, query string) ([]Token, error)
}

// Document is one labeled-utterance record retrieved from the recall index.
type Document struct {
	IntentName string
	Utterance  string
}

// Recall is the inverted-index corpus of labeled utterances (C5).
type Recall interface {
	// Reopen picks up any online rebuild of the underlying index.
	Reopen(ctx context.Context) error
	// Search retrieves the top `top` documents for the elite-set
	// disjunction of the `k` best-scoring terms.
	Search(ctx context.Context, terms []string, k, top int) ([]Document, error)
}

// Tagger decodes a CRF feature sequence into a BIO tag sequence (C8).
type Tagger interface {
	// Open loads a model from path. A false return means the model is
	// absent or corrupt — a documented soft failure, not an
	// error: the bot stays usable for classification, NER degrades.
	Open(path string) (bool, error)
	// Tag decodes one feature sequence. Ready reports whether a model is
	// currently loaded; when false, Tag returns an all-"O" sequence.
	Tag(items []nlp.Item) ([]string, error)
	Ready() bool
}

// Trie performs longest-prefix matching from custom-dictionary words
// bound to targetDict (C3).
type Trie interface {
	// LongestPrefix returns the longest key bound to targetDict that is
	// a prefix of query (or of a suffix of query, when no match starts
	// at query[0]).
	LongestPrefix(query, targetDict string) (key string, ok bool)
}

// KV performs exact (dict_name, word) membership tests against the
// custom-dictionary database (C4).
type KV interface {
	Contains(ctx context.Context, dictName, word string) (bool, error)
}

// SysdictEntity is one resolved system-dictionary value supplied by the
// caller for a turn.
type SysdictEntity struct {
	DictName string
	Val      string
}
