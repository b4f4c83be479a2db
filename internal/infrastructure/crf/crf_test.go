package crf

import (
	"testing"

	"github.com/chatopera/clause/internal/domain/nlp"
)

func TestTagNotReadyReturnsAllOutside(t *testing.T) {
	tagger := New()
	if tagger.Ready() {
		t.Fatal("Ready() = true before Open, want false")
	}

	items := []nlp.Item{{Features: []string{"w[t]=a"}}, {Features: []string{"w[t]=b"}}}
	tags, err := tagger.Tag(items)
	if err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	if len(tags) != 2 || tags[0] != "O" || tags[1] != "O" {
		t.Errorf("Tag() = %v, want all-O", tags)
	}
}

func TestOpenMissingFileIsSoftFailure(t *testing.T) {
	tagger := New()
	ok, err := tagger.Open("/nonexistent/path/model.bin")
	if err != nil {
		t.Fatalf("Open() error = %v, want nil (soft failure)", err)
	}
	if ok {
		t.Fatal("Open() ok = true for missing file, want false")
	}
	if tagger.Ready() {
		t.Fatal("Ready() = true after failed Open, want false")
	}
}

func TestViterbiPicksHighestWeightedPath(t *testing.T) {
	model := &Model{
		Tags: []string{"O", "B-city"},
		FeatureWeights: map[string]map[string]float64{
			"w[t]=上海": {"O": -1, "B-city": 5},
			"w[t]=去":  {"O": 3, "B-city": -1},
		},
		TransitionWeights: map[string]map[string]float64{
			"O":      {"O": 0, "B-city": 0},
			"B-city": {"O": 0, "B-city": 0},
		},
	}

	tagger := New()
	tagger.model = model

	items := []nlp.Item{
		{Features: []string{"w[t]=去"}},
		{Features: []string{"w[t]=上海"}},
	}

	tags, err := tagger.Tag(items)
	if err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	want := []string{"O", "B-city"}
	if len(tags) != 2 || tags[0] != want[0] || tags[1] != want[1] {
		t.Errorf("Tag() = %v, want %v", tags, want)
	}
}
