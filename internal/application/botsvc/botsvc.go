// Package botsvc is the bot facade (C13, spec.md §6): it wires a loaded
// bundle's collaborators (tokenizer, recall, CRF, trie, KV, profile) into
// the two operations callers actually invoke, classify and chat, plus the
// small accessors the interface layer needs to drive the external
// system-dictionary resolution round-trip.
package botsvc

import (
	"context"
	"fmt"

	"github.com/chatopera/clause/internal/domain/bot"
	"github.com/chatopera/clause/internal/domain/classify"
	"github.com/chatopera/clause/internal/domain/dialog"
	"github.com/chatopera/clause/internal/domain/session"
	"github.com/chatopera/clause/internal/infrastructure/bundle"
)

// DefaultThreshold is the classification acceptance score (spec.md §4.2,
// §9 Open Question): below this, Classify reports no match rather than
// forcing the best-scored candidate.
const DefaultThreshold = 0.6

// Bot wraps one bundle Manager with the facade operations.
type Bot struct {
	manager *bundle.Manager
}

// New wraps an already-loaded bundle Manager.
func New(manager *bundle.Manager) *Bot {
	return &Bot{manager: manager}
}

// Classify implements "classify(tokens) -> intent_name | none" (spec.md
// §6). Tokens are already tokenized by the caller (or obtained via
// Tokenize) so repeated calls against the same utterance don't re-run
// segmentation.
func (b *Bot) Classify(ctx context.Context, tokens []bot.Token) (string, bool, error) {
	bu := b.manager.Get()
	return classify.Classify(ctx, bu.Recall, tokens, DefaultThreshold)
}

// Tokenize runs the bundle's tokenizer over query.
func (b *Bot) Tokenize(ctx context.Context, query string) ([]bot.Token, error) {
	return b.manager.Get().Tokenizer.Tokenize(ctx, query)
}

// ChatResult is what one chat() call reports back to the caller.
type ChatResult struct {
	Reply    *dialog.Reply
	Session  *session.Session
	Resolved bool
}

// Chat implements "chat(payload, query, builtins, session) -> reply"
// (spec.md §6). If sess is unbound (IntentName == ""), Chat classifies
// first and binds the session to the winning intent before running the
// turn; ErrNoMatchedIntent propagates when classification finds nothing,
// per spec.md §7.
func (b *Bot) Chat(ctx context.Context, query string, builtins []bot.SysdictEntity, sess *session.Session) (*ChatResult, error) {
	bu := b.manager.Get()

	tokens, err := bu.Tokenizer.Tokenize(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("botsvc: tokenize: %w", err)
	}

	if sess.IntentName == "" {
		intentName, ok, err := classify.Classify(ctx, bu.Recall, tokens, DefaultThreshold)
		if err != nil {
			return nil, fmt.Errorf("botsvc: classify: %w", err)
		}
		if !ok {
			return nil, bot.ErrNoMatchedIntent
		}
		if !session.SetEntitiesByIntentName(bu.Profile, intentName, sess) {
			return nil, bot.ErrNoMatchedIntent
		}
	}

	terms := make([]string, len(tokens))
	pos := make([]string, len(tokens))
	for i, t := range tokens {
		terms[i] = t.Term
		pos[i] = t.POS
	}

	turn := dialog.Turn{
		Profile:  bu.Profile,
		Trie:     bu.Trie,
		KV:       bu.KV,
		Tagger:   bu.Tagger,
		Query:    query,
		Terms:    terms,
		POS:      pos,
		Builtins: builtins,
	}

	reply, err := dialog.RunTurn(ctx, turn, sess)
	if err != nil {
		return nil, err
	}

	return &ChatResult{Reply: reply, Session: sess, Resolved: sess.Resolved}, nil
}

// GetReferredSysdicts returns the profile's distinct referenced system
// dictionaries, for the caller to resolve before the next Chat call.
func (b *Bot) GetReferredSysdicts() []string {
	return b.manager.Get().Profile.ReferredSysdicts()
}

// HasReferredSysdict reports whether dictName is one of the profile's
// referenced system dictionaries.
func (b *Bot) HasReferredSysdict(dictName string) bool {
	return b.manager.Get().Profile.HasReferredSysdict(dictName)
}

// PatchSysdictsRequestEntities builds the entity list a system-dictionary
// resolution request should carry: one (dict_name, surface_text) pair per
// session entity still unfilled whose dict_name is a referred system
// dictionary, surface_text being the raw query since system dictionaries
// resolve against the whole utterance, not a NER-extracted span.
func (b *Bot) PatchSysdictsRequestEntities(query string, sess *session.Session) []bot.SysdictEntity {
	var out []bot.SysdictEntity
	for _, e := range sess.Entities {
		if e.Builtin && e.Val == "" {
			out = append(out, bot.SysdictEntity{DictName: e.DictName, Val: query})
		}
	}
	return out
}

// GetBuildver returns the build version of the currently loaded bundle.
func (b *Bot) GetBuildver() string {
	return b.manager.Get().BuildVersion
}
