// Package dialog implements the per-turn slot-filling state machine (C12,
// apply system-dictionary results, resolve an outstanding
// re-ask, run NER-driven filling, and test resolution.
package dialog

import (
	"context"

	"github.com/chatopera/clause/internal/domain/bot"
	"github.com/chatopera/clause/internal/domain/nlp"
	"github.com/chatopera/clause/internal/domain/profile"
	"github.com/chatopera/clause/internal/domain/session"
)

// Reply carries at most a verbatim re-ask prompt back to the caller.
type Reply struct {
	Text        string
	IsProactive bool
}

// Turn holds the collaborators and input for one call to RunTurn.
type Turn struct {
	Profile *profile.Profile
	Trie    bot.Trie
	KV      bot.KV
	Tagger  bot.Tagger

	Query    string // raw user text, for trie lookups
	Terms    []string
	POS      []string
	Builtins []bot.SysdictEntity
}

// RunTurn executes one turn of the dialog machine against sess in place,
// returning a reply when a re-ask was queued this turn.
//
// sess must already be bound to an intent (session.SetEntitiesByIntentName)
// before calling RunTurn; that binding is the caller's responsibility
// (normally done right after Classify).
func RunTurn(ctx context.Context, t Turn, sess *session.Session) (*Reply, error) {
	intent, ok := t.Profile.ByName(sess.IntentName)
	if !ok {
		return nil, bot.ErrNoMatchedIntent
	}

	applySysdictResults(t.Builtins, sess)

	if err := resolveProactiveSlot(t.Trie, t.Query, sess); err != nil {
		return nil, err
	}

	reply, err := fillFromNER(ctx, t, intent, sess)
	if err != nil {
		return nil, err
	}

	testResolution(intent, sess)

	return reply, nil
}

// applySysdictResults is Step 1: for every (dict_name, val)
// the caller resolved via the external system-dictionary service, set the
// value of every still-unset builtin entity bound to that dict_name.
//
// By design, multiple unfilled entities
// that share a dict_name all receive the same value — this is preserved
// literally, not deduplicated.
func applySysdictResults(builtins []bot.SysdictEntity, sess *session.Session) {
	for _, se := range builtins {
		for i := range sess.Entities {
			e := &sess.Entities[i]
			if e.Builtin && e.DictName == se.DictName && e.Val == "" {
				e.Val = se.Val
			}
		}
	}
}

// resolveProactiveSlot is Step 2: resolve an outstanding re-ask from the trie.
func resolveProactiveSlot(trie bot.Trie, query string, sess *session.Session) error {
	if !sess.IsProactive {
		return nil
	}

	e, ok := sess.EntityByName(sess.ProactiveSlotname)
	if ok && e.Filled() {
		// Already settled by Step 1 (or earlier); nothing to do.
		return nil
	}

	if sess.ProactiveSlotname == "" {
		return bot.ErrMalformedSession
	}

	key, found := trie.LongestPrefix(query, sess.ProactiveDictname)
	if !found {
		// No suffix of query matched the outstanding slot's dict_name;
		// fall through to NER, leaving proactive state unchanged.
		return nil
	}

	sess.SetEntityValue(sess.ProactiveSlotname, key)
	sess.IsProactive = false
	sess.ProactiveSlotname = ""

	return nil
}

// fillFromNER is Step 3: build features, decode, extract
// candidates, and for each still-unfilled slot (in profile order) try to
// settle it from a KV-verified candidate. The first unfilled required slot
// with no settled candidate queues a re-ask and stops further re-asks this
// turn.
func fillFromNER(ctx context.Context, t Turn, intent profile.Intent, sess *session.Session) (*Reply, error) {
	items, err := nlp.BuildFeatures(t.Terms, t.POS)
	if err != nil {
		return nil, err
	}

	var tags []string
	if t.Tagger != nil && t.Tagger.Ready() {
		tags, err = t.Tagger.Tag(items)
		if err != nil {
			return nil, err
		}
	} else {
		tags = make([]string, len(t.Terms))
		for i := range tags {
			tags[i] = "O"
		}
	}

	candidates := nlp.ExtractCandidates(t.Terms, tags)

	var reply *Reply

	for _, slot := range intent.Slots {
		e, ok := sess.EntityByName(slot.Name)
		if !ok || e.Filled() {
			continue
		}

		settled := false
		for _, c := range candidates {
			if c.SlotName != slot.Name {
				continue
			}
			ok, err := t.KV.Contains(ctx, slot.DictName, c.Surface)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			sess.SetEntityValue(slot.Name, c.Surface)
			settled = true
			break
		}

		if !settled && slot.Requires && reply == nil {
			reply = &Reply{Text: slot.Question, IsProactive: true}
			sess.IsProactive = true
			sess.IsFallback = false
			sess.ProactiveSlotname = slot.Name
			sess.ProactiveDictname = slot.DictName
		}
	}

	return reply, nil
}

// testResolution is Step 4: mark the session resolved once every required slot is filled.
func testResolution(intent profile.Intent, sess *session.Session) {
	if sess.IsResolvedAgainst(intent) {
		sess.Resolved = true
		sess.IsProactive = false
		sess.IsFallback = false
		sess.ProactiveSlotname = ""
		sess.ProactiveDictname = ""
	}
}
