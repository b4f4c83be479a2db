// Package bundle loads and hot-reloads one bot's compiled assets: the
// tokenizer, recall index, CRF model, custom-dictionary trie and KV store,
// and profile. Init order follows spec.md §4.1: tokenizer, recall, CRF
// (soft-fail), trie, KV, profile. Close only stops the hot-reload watcher;
// the loaded assets hold no handles that need releasing, and the shared DB
// connection is left open.
package bundle

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chatopera/clause/internal/domain/bot"
	"github.com/chatopera/clause/internal/domain/profile"
	"github.com/chatopera/clause/internal/infrastructure/crf"
	"github.com/chatopera/clause/internal/infrastructure/dictkv"
	"github.com/chatopera/clause/internal/infrastructure/recall"
	"github.com/chatopera/clause/internal/infrastructure/tokenizer"
	"github.com/chatopera/clause/internal/infrastructure/triedict"
	"github.com/chatopera/clause/pkg/safego"
)

// Paths names the on-disk layout of one build version's compiled assets,
// relative to a build-version directory such as
// <bots_root>/<bot_id>/<build_version>/.
type Paths struct {
	Corpus  string // recall.Save output, e.g. corpus.bin
	Model   string // crf.Save output, e.g. ner.model
	Trie    string // triedict.Compile output, e.g. dictwords.trie.bin
	Profile string // gob-compiled profile.pbs
}

// DefaultPaths returns the conventional file names under dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Corpus:  filepath.Join(dir, "corpus.bin"),
		Model:   filepath.Join(dir, "ner.model"),
		Trie:    filepath.Join(dir, "dictwords.trie.bin"),
		Profile: filepath.Join(dir, "profile.pbs"),
	}
}

// Bundle is one bot's loaded, swappable-at-runtime asset set.
type Bundle struct {
	BotID        string
	BuildVersion string

	Tokenizer bot.Tokenizer
	Recall    bot.Recall
	Tagger    bot.Tagger
	Trie      bot.Trie
	KV        bot.KV
	Profile   *profile.Profile
}

// current is what Manager.Get hands callers: an atomically swappable
// snapshot so a reload never blocks or races an in-flight turn.
type current struct {
	bundle *Bundle
}

// Manager owns one bot's live Bundle and watches its build-version
// directory for on-disk changes, swapping in a freshly loaded Bundle when
// the compiled assets change underneath it.
type Manager struct {
	botID string
	dir   string
	db    *gorm.DB
	log   *zap.Logger

	ptr     atomic.Pointer[current]
	mu      sync.Mutex // serializes reloads
	watcher *fsnotify.Watcher
}

// NewManager loads dir's assets once and returns a ready Manager. db is the
// shared GORM connection the KV store is opened against.
func NewManager(ctx context.Context, botID, buildVersion, dir string, db *gorm.DB, log *zap.Logger) (*Manager, error) {
	m := &Manager{botID: botID, dir: dir, db: db, log: log}

	b, err := load(ctx, botID, buildVersion, dir, db)
	if err != nil {
		return nil, err
	}
	m.ptr.Store(&current{bundle: b})

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn("bundle: fsnotify unavailable, hot-reload disabled", zap.Error(err))
		return m, nil
	}
	if err := watcher.Add(dir); err != nil {
		log.Warn("bundle: watch failed, hot-reload disabled", zap.String("dir", dir), zap.Error(err))
		watcher.Close()
		return m, nil
	}
	m.watcher = watcher

	safego.Go(log, fmt.Sprintf("bundle-watch-%s", botID), func() {
		m.watchLoop(ctx, buildVersion)
	})

	return m, nil
}

func (m *Manager) watchLoop(ctx context.Context, buildVersion string) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := m.Reload(ctx, buildVersion); err != nil {
				m.log.Error("bundle: reload failed", zap.String("bot_id", m.botID), zap.Error(err))
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.log.Error("bundle: watcher error", zap.Error(err))
		}
	}
}

// Reload rebuilds the bundle from disk and swaps it in atomically.
func (m *Manager) Reload(ctx context.Context, buildVersion string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := load(ctx, m.botID, buildVersion, m.dir, m.db)
	if err != nil {
		return err
	}

	if err := b.Recall.Reopen(ctx); err != nil {
		return err
	}

	old := m.ptr.Load()
	m.ptr.Store(&current{bundle: b})
	if old != nil {
		_ = old.bundle // nothing to tear down besides the DB handle, which Manager owns and shares
	}
	m.log.Info("bundle: reloaded", zap.String("bot_id", m.botID), zap.String("build_version", buildVersion))
	return nil
}

// Get returns the currently live Bundle.
func (m *Manager) Get() *Bundle {
	return m.ptr.Load().bundle
}

// Close stops the hot-reload watcher. Close order mirrors spec.md §4.1's
// teardown sequence conceptually: the watcher stops first so no reload
// races the remaining shutdown, and the shared DB handle outlives the
// Manager since callers may hold other Managers against the same handle.
func (m *Manager) Close() error {
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}

// load performs the init sequence from spec.md §4.1: tokenizer, recall,
// CRF (soft-fail — a missing/corrupt model degrades NER, it never aborts
// load), trie, KV, profile.
func load(ctx context.Context, botID, buildVersion, dir string, db *gorm.DB) (*Bundle, error) {
	paths := DefaultPaths(dir)

	tok := tokenizer.New()

	idx := recall.New(paths.Corpus)
	if err := idx.Reopen(ctx); err != nil {
		return nil, fmt.Errorf("bundle: load recall: %w", err)
	}

	tagger := crf.New()
	if _, err := tagger.Open(paths.Model); err != nil {
		return nil, fmt.Errorf("bundle: load crf: %w", err)
	}

	trie, err := triedict.Load(paths.Trie)
	if err != nil {
		return nil, fmt.Errorf("bundle: load trie: %w", err)
	}

	kv, err := dictkv.Open(db)
	if err != nil {
		return nil, fmt.Errorf("bundle: open dictkv: %w", err)
	}

	prof, err := profile.Load(paths.Profile)
	if err != nil {
		return nil, fmt.Errorf("bundle: load profile: %w", err)
	}
	if err := prof.Validate(); err != nil {
		return nil, fmt.Errorf("bundle: invalid profile: %w", err)
	}

	return &Bundle{
		BotID:        botID,
		BuildVersion: buildVersion,
		Tokenizer:    tok,
		Recall:       idx,
		Tagger:       tagger,
		Trie:         trie,
		KV:           kv,
		Profile:      prof,
	}, nil
}
