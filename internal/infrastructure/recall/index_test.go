package recall

import (
	"context"
	"testing"

	"github.com/chatopera/clause/internal/domain/bot"
)

func TestSearchRanksByWeightedOverlap(t *testing.T) {
	idx := New("")
	idx.Index([]Entry{
		{Doc: entryDoc("book_flight", "订 机票 去 上海"), Terms: []string{"订", "机票", "去", "上海"}},
		{Doc: entryDoc("book_hotel", "订 酒店 在 上海"), Terms: []string{"订", "酒店", "在", "上海"}},
		{Doc: entryDoc("weather", "上海 天气 怎么样"), Terms: []string{"上海", "天气", "怎么样"}},
	})

	docs, err := idx.Search(context.Background(), []string{"订", "机票", "上海"}, 30, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(docs) == 0 {
		t.Fatal("Search() returned no documents")
	}
	if docs[0].IntentName != "book_flight" {
		t.Errorf("Search()[0].IntentName = %q, want book_flight (shares 订+机票, rarer terms)", docs[0].IntentName)
	}
}

func TestSearchRespectsTopLimit(t *testing.T) {
	idx := New("")
	idx.Index([]Entry{
		{Doc: entryDoc("a", "x"), Terms: []string{"x"}},
		{Doc: entryDoc("b", "x"), Terms: []string{"x"}},
		{Doc: entryDoc("c", "x"), Terms: []string{"x"}},
	})

	docs, err := idx.Search(context.Background(), []string{"x"}, 30, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("len(Search()) = %d, want 2", len(docs))
	}
}

func TestSearchEmptyTermsReturnsNil(t *testing.T) {
	idx := New("")
	idx.Index([]Entry{{Doc: entryDoc("a", "x"), Terms: []string{"x"}}})

	docs, err := idx.Search(context.Background(), nil, 30, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if docs != nil {
		t.Fatalf("Search(nil terms) = %v, want nil", docs)
	}
}

func TestSearchUnknownTermsReturnNoHits(t *testing.T) {
	idx := New("")
	idx.Index([]Entry{{Doc: entryDoc("a", "x"), Terms: []string{"x"}}})

	docs, err := idx.Search(context.Background(), []string{"never-seen"}, 30, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("Search(unknown term) = %v, want empty", docs)
	}
}

func entryDoc(intentName, utterance string) bot.Document {
	return bot.Document{IntentName: intentName, Utterance: utterance}
}
