package classify

import (
	"context"
	"testing"

	"github.com/chatopera/clause/internal/domain/bot"
)

type fakeRecall struct {
	reopened  bool
	reopenErr error
	docs      []bot.Document
	searchErr error
}

func (f *fakeRecall) Reopen(context.Context) error {
	f.reopened = true
	return f.reopenErr
}

func (f *fakeRecall) Search(context.Context, []string, int, int) ([]bot.Document, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.docs, nil
}

func tokens(terms ...string) []bot.Token {
	out := make([]bot.Token, len(terms))
	for i, t := range terms {
		out[i] = bot.Token{Term: t, POS: "x"}
	}
	return out
}

func TestClassifyPicksBestScoringAboveThreshold(t *testing.T) {
	recall := &fakeRecall{docs: []bot.Document{
		{IntentName: "book_hotel", Utterance: "北京"},
		{IntentName: "book_flight", Utterance: "上海"},
	}}

	got, ok, err := Classify(context.Background(), recall, tokens("上", "海"), 0.5)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if !ok {
		t.Fatal("Classify() ok = false, want true")
	}
	if got != "book_flight" {
		t.Errorf("Classify() = %q, want book_flight", got)
	}
	if !recall.reopened {
		t.Error("Classify() did not call Reopen")
	}
}

func TestClassifyNoMatchBelowThreshold(t *testing.T) {
	recall := &fakeRecall{docs: []bot.Document{
		{IntentName: "book_hotel", Utterance: "北京"},
	}}

	_, ok, err := Classify(context.Background(), recall, tokens("上", "海"), 0.9)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if ok {
		t.Fatal("Classify() ok = true, want false (nothing clears threshold)")
	}
}

func TestClassifyNoDocumentsRetrieved(t *testing.T) {
	recall := &fakeRecall{}

	_, ok, err := Classify(context.Background(), recall, tokens("上", "海"), 0.1)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if ok {
		t.Fatal("Classify() ok = true, want false (no documents retrieved)")
	}
}

func TestClassifyPropagatesReopenError(t *testing.T) {
	wantErr := context.Canceled
	recall := &fakeRecall{reopenErr: wantErr}

	_, _, err := Classify(context.Background(), recall, tokens("a"), 0.1)
	if err != wantErr {
		t.Fatalf("Classify() error = %v, want %v", err, wantErr)
	}
}
