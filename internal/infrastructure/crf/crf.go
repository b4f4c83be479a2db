// Package crf implements C8, the linear-chain CRF tagger adapter (spec.md
// §4.3 feature windows, §4.1 "CRF model load is a soft failure"). Decoding
// is a standard Viterbi pass over a linear model of per-feature tag
// weights plus tag-to-tag transition weights, gob-encoded for the
// compiled model artifact.
package crf

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"sync"

	"github.com/chatopera/clause/internal/domain/nlp"
)

const outsideTag = "O"

// Model is the compiled linear-chain CRF: a tag set, per-feature emission
// weights keyed by tag, and tag-to-tag transition weights.
type Model struct {
	Tags              []string
	FeatureWeights    map[string]map[string]float64 // feature -> tag -> weight
	TransitionWeights map[string]map[string]float64 // prevTag -> tag -> weight
}

// scratch holds the Viterbi lattice buffers reused across Tag calls
// (spec.md §5: "the CRF decoder keeps a sync.Pool of scratch state so
// concurrent turns never allocate the lattice from zero").
type scratch struct {
	scores [][]float64
	back   [][]int
}

// Tagger implements bot.Tagger.
type Tagger struct {
	mu    sync.RWMutex
	model *Model

	pool sync.Pool
}

// New creates a Tagger with no model loaded; Ready() is false until Open
// succeeds.
func New() *Tagger {
	t := &Tagger{}
	t.pool.New = func() any { return &scratch{} }
	return t
}

// Open implements bot.Tagger. A missing or corrupt file is reported via
// the bool return, not an error: the spec treats it as a soft failure.
func (t *Tagger) Open(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("crf: read %s: %w", path, err)
	}

	var model Model
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&model); err != nil {
		return false, nil
	}
	if len(model.Tags) == 0 {
		return false, nil
	}

	t.mu.Lock()
	t.model = &model
	t.mu.Unlock()
	return true, nil
}

// Ready implements bot.Tagger.
func (t *Tagger) Ready() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.model != nil
}

// Tag implements bot.Tagger: Viterbi decode of items against the loaded
// model. Callers should check Ready() first; Tag returns an all-"O"
// sequence itself when no model is loaded, matching the dialog core's own
// fallback so direct callers get the same soft-failure behavior.
func (t *Tagger) Tag(items []nlp.Item) ([]string, error) {
	t.mu.RLock()
	model := t.model
	t.mu.RUnlock()

	if model == nil || len(items) == 0 {
		tags := make([]string, len(items))
		for i := range tags {
			tags[i] = outsideTag
		}
		return tags, nil
	}

	sc := t.pool.Get().(*scratch)
	defer t.pool.Put(sc)

	n := len(items)
	k := len(model.Tags)

	if cap(sc.scores) < n {
		sc.scores = make([][]float64, n)
		sc.back = make([][]int, n)
	}
	sc.scores = sc.scores[:n]
	sc.back = sc.back[:n]
	for i := range sc.scores {
		if cap(sc.scores[i]) < k {
			sc.scores[i] = make([]float64, k)
			sc.back[i] = make([]int, k)
		}
		sc.scores[i] = sc.scores[i][:k]
		sc.back[i] = sc.back[i][:k]
	}

	emission := func(item nlp.Item, tag string) float64 {
		var sum float64
		for _, f := range item.Features {
			if byTag, ok := model.FeatureWeights[f]; ok {
				sum += byTag[tag]
			}
		}
		return sum
	}

	for y, tag := range model.Tags {
		sc.scores[0][y] = emission(items[0], tag)
		sc.back[0][y] = -1
	}

	for pos := 1; pos < n; pos++ {
		for y, tag := range model.Tags {
			best := 0
			bestScore := -1.0
			first := true
			for py, prevTag := range model.Tags {
				trans := model.TransitionWeights[prevTag][tag]
				score := sc.scores[pos-1][py] + trans + emission(items[pos], tag)
				if first || score > bestScore {
					bestScore = score
					best = py
					first = false
				}
			}
			sc.scores[pos][y] = bestScore
			sc.back[pos][y] = best
		}
	}

	lastBest := 0
	for y := 1; y < k; y++ {
		if sc.scores[n-1][y] > sc.scores[n-1][lastBest] {
			lastBest = y
		}
	}

	tags := make([]string, n)
	y := lastBest
	for pos := n - 1; pos >= 0; pos-- {
		tags[pos] = model.Tags[y]
		y = sc.back[pos][y]
	}

	return tags, nil
}

// Save gob-encodes model to path, for offline model-training tooling.
func Save(model *Model, path string) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(model); err != nil {
		return fmt.Errorf("crf: encode model: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
