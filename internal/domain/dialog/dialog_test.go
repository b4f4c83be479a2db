package dialog

import (
	"context"
	"testing"

	"github.com/chatopera/clause/internal/domain/bot"
	"github.com/chatopera/clause/internal/domain/nlp"
	"github.com/chatopera/clause/internal/domain/profile"
	"github.com/chatopera/clause/internal/domain/session"
)

func testProfile() *profile.Profile {
	return profile.New([]profile.Intent{
		{
			Name: "book_flight",
			Slots: []profile.Slot{
				{Name: "origin", DictName: "city", Requires: true, Question: "Where from?"},
				{Name: "date", DictName: "@date", Requires: true, Question: "When?"},
			},
		},
	})
}

type fakeTrie struct {
	key, dictName string
	found         bool
}

func (f fakeTrie) LongestPrefix(_, targetDict string) (string, bool) {
	if !f.found || targetDict != f.dictName {
		return "", false
	}
	return f.key, true
}

type fakeKV struct {
	members map[string]bool // dictName+"\x01"+word -> true
}

func (f fakeKV) Contains(_ context.Context, dictName, word string) (bool, error) {
	return f.members[dictName+"\x01"+word], nil
}

type fakeTagger struct {
	tags  []string
	ready bool
}

func (f fakeTagger) Open(string) (bool, error)        { return f.ready, nil }
func (f fakeTagger) Tag([]nlp.Item) ([]string, error) { return f.tags, nil }
func (f fakeTagger) Ready() bool                      { return f.ready }

func TestRunTurnFillsRequiredSlotAndAsksForNext(t *testing.T) {
	p := testProfile()
	sess := session.New()
	session.SetEntitiesByIntentName(p, "book_flight", sess)

	turn := Turn{
		Profile: p,
		Trie:    fakeTrie{},
		KV:      fakeKV{members: map[string]bool{"city\x01上海": true}},
		Tagger: fakeTagger{
			ready: true,
			tags:  []string{"B-origin", "I-origin"},
		},
		Query: "上海",
		Terms: []string{"上", "海"},
		POS:   []string{"x", "x"},
	}

	reply, err := RunTurn(context.Background(), turn, sess)
	if err != nil {
		t.Fatalf("RunTurn() error = %v", err)
	}

	origin, _ := sess.EntityByName("origin")
	if origin.Val != "上海" {
		t.Errorf("origin.Val = %q, want 上海", origin.Val)
	}

	if reply == nil || !reply.IsProactive {
		t.Fatalf("RunTurn() reply = %+v, want a proactive re-ask for date", reply)
	}
	if sess.ProactiveSlotname != "date" {
		t.Errorf("ProactiveSlotname = %q, want date", sess.ProactiveSlotname)
	}
	if sess.Resolved {
		t.Error("Resolved = true, want false (date still unfilled)")
	}
}

func TestRunTurnResolvesProactiveSlotFromTrie(t *testing.T) {
	p := testProfile()
	sess := session.New()
	session.SetEntitiesByIntentName(p, "book_flight", sess)
	sess.IsProactive = true
	sess.ProactiveSlotname = "origin"
	sess.ProactiveDictname = "city"

	// date is supplied by the system dictionary so that no other required
	// slot is left to trigger a fresh re-ask once origin is settled.
	turn := Turn{
		Profile:  p,
		Trie:     fakeTrie{key: "上海", dictName: "city", found: true},
		KV:       fakeKV{},
		Tagger:   fakeTagger{ready: false},
		Query:    "上海",
		Terms:    []string{"上", "海"},
		POS:      []string{"x", "x"},
		Builtins: []bot.SysdictEntity{{DictName: "@date", Val: "明天"}},
	}

	_, err := RunTurn(context.Background(), turn, sess)
	if err != nil {
		t.Fatalf("RunTurn() error = %v", err)
	}

	origin, _ := sess.EntityByName("origin")
	if origin.Val != "上海" {
		t.Errorf("origin.Val = %q, want 上海 (resolved via trie)", origin.Val)
	}
	if sess.IsProactive {
		t.Error("IsProactive = true, want false after trie resolution")
	}
}

func TestRunTurnMalformedSessionWhenProactiveSlotnameEmpty(t *testing.T) {
	p := testProfile()
	sess := session.New()
	session.SetEntitiesByIntentName(p, "book_flight", sess)
	sess.IsProactive = true
	sess.ProactiveSlotname = ""

	turn := Turn{
		Profile: p,
		Trie:    fakeTrie{},
		KV:      fakeKV{},
		Tagger:  fakeTagger{ready: false},
		Query:   "x",
		Terms:   []string{"x"},
		POS:     []string{"w"},
	}

	_, err := RunTurn(context.Background(), turn, sess)
	if err != bot.ErrMalformedSession {
		t.Fatalf("RunTurn() error = %v, want ErrMalformedSession", err)
	}
}

func TestRunTurnResolvedWhenAllRequiredSlotsFilled(t *testing.T) {
	p := testProfile()
	sess := session.New()
	session.SetEntitiesByIntentName(p, "book_flight", sess)
	sess.SetEntityValue("origin", "上海")
	sess.SetEntityValue("date", "明天")

	turn := Turn{
		Profile: p,
		Trie:    fakeTrie{},
		KV:      fakeKV{},
		Tagger:  fakeTagger{ready: false},
		Query:   "",
		Terms:   nil,
		POS:     nil,
	}

	reply, err := RunTurn(context.Background(), turn, sess)
	if err != nil {
		t.Fatalf("RunTurn() error = %v", err)
	}
	if reply != nil {
		t.Errorf("RunTurn() reply = %+v, want nil (already resolved)", reply)
	}
	if !sess.Resolved {
		t.Error("Resolved = false, want true")
	}
}

func TestRunTurnUnknownIntent(t *testing.T) {
	sess := session.New()
	sess.IntentName = "nope"

	turn := Turn{Profile: testProfile()}
	_, err := RunTurn(context.Background(), turn, sess)
	if err != bot.ErrNoMatchedIntent {
		t.Fatalf("RunTurn() error = %v, want ErrNoMatchedIntent", err)
	}
}

func TestApplySysdictResultsFillsMatchingBuiltins(t *testing.T) {
	p := testProfile()
	sess := session.New()
	session.SetEntitiesByIntentName(p, "book_flight", sess)

	applySysdictResults([]bot.SysdictEntity{{DictName: "@date", Val: "明天"}}, sess)

	date, _ := sess.EntityByName("date")
	if date.Val != "明天" {
		t.Errorf("date.Val = %q, want 明天", date.Val)
	}
}
