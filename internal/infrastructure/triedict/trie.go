// Package triedict implements C3, the custom-dictionary trie. Keys are
// indexed rune-by-rune so CJK text
// matches the same character-is-the-atom convention as the tokenizer and
// feature builder. The compiled artifact is gob-encoded then
// deflate-compressed with klauspost/compress, the same library the
// teacher pack already pulls in for asset compression.
package triedict

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/flate"
)

// entry is one (key -> dict_name) binding compiled into the trie.
type entry struct {
	Key      string
	DictName string
}

type node struct {
	children map[rune]*node
	dictSet  map[string]bool // dict_names this node terminates a key for; nil when non-terminal
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// Trie is a rune-indexed prefix trie implementing bot.Trie.
type Trie struct {
	root *node
}

// New creates an empty trie.
func New() *Trie {
	return &Trie{root: newNode()}
}

// Insert adds key bound to dictName. The same key may be inserted under
// several different dict_names; each terminates the shared path
// independently so a lookup scoped to one dict_name doesn't see a hit
// belonging to another.
func (t *Trie) Insert(key, dictName string) {
	n := t.root
	for _, r := range key {
		child, ok := n.children[r]
		if !ok {
			child = newNode()
			n.children[r] = child
		}
		n = child
	}
	if n.dictSet == nil {
		n.dictSet = make(map[string]bool)
	}
	n.dictSet[dictName] = true
}

// LongestPrefix implements bot.Trie: find the longest key bound to
// targetDict that is a prefix of query. If no prefix of the full
// query matches targetDict, retry against the suffix starting at each
// subsequent rune in turn (the "suffix-retry fallback" so a match doesn't
// have to start at query[0]), scanning past hits that belong to a
// different dict_name rather than stopping at the first trie hit
// (mirrors extract_slotvalue_from_utterence_with_triedata, which checks
// the dict name at every retry position).
func (t *Trie) LongestPrefix(query, targetDict string) (string, bool) {
	runes := []rune(query)
	for start := 0; start < len(runes); start++ {
		if key, ok := t.longestPrefixFrom(runes[start:], targetDict); ok {
			return key, true
		}
	}
	return "", false
}

func (t *Trie) longestPrefixFrom(runes []rune, targetDict string) (string, bool) {
	n := t.root
	bestEnd := -1

	for i, r := range runes {
		child, ok := n.children[r]
		if !ok {
			break
		}
		n = child
		if n.dictSet[targetDict] {
			bestEnd = i
		}
	}

	if bestEnd < 0 {
		return "", false
	}
	return string(runes[:bestEnd+1]), true
}

// Load decompresses and gob-decodes a compiled trie artifact.
func Load(path string) (*Trie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("triedict: read %s: %w", path, err)
	}

	fr := flate.NewReader(bytes.NewReader(data))
	defer fr.Close()

	raw, err := io.ReadAll(fr)
	if err != nil {
		return nil, fmt.Errorf("triedict: inflate %s: %w", path, err)
	}

	var entries []entry
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&entries); err != nil {
		return nil, fmt.Errorf("triedict: decode %s: %w", path, err)
	}

	t := New()
	for _, e := range entries {
		t.Insert(e.Key, e.DictName)
	}
	return t, nil
}

// Compile builds a trie from words (keyed by dict_name -> words) and
// writes it to path in the format Load expects.
func Compile(words map[string][]string, path string) error {
	var entries []entry
	for dictName, ws := range words {
		for _, w := range ws {
			entries = append(entries, entry{Key: w, DictName: dictName})
		}
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(entries); err != nil {
		return fmt.Errorf("triedict: encode: %w", err)
	}

	var out bytes.Buffer
	fw, err := flate.NewWriter(&out, flate.BestCompression)
	if err != nil {
		return fmt.Errorf("triedict: new deflate writer: %w", err)
	}
	if _, err := fw.Write(raw.Bytes()); err != nil {
		return fmt.Errorf("triedict: deflate: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("triedict: close deflate writer: %w", err)
	}

	return os.WriteFile(path, out.Bytes(), 0o644)
}
