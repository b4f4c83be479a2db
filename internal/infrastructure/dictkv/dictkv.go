// Package dictkv implements C4, the system/custom-dictionary membership
// store (spec.md §4.5 "KV.Contains(dict_name, word)"), persisted through
// the teacher's GORM+SQLite/Postgres stack (internal/infrastructure/persistence).
package dictkv

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Word is the single table this store owns: one row per (dict_name, word)
// membership.
type Word struct {
	DictName string `gorm:"primaryKey;column:dict_name"`
	Word     string `gorm:"primaryKey;column:word"`
}

// TableName pins the table name regardless of GORM's pluralization rules.
func (Word) TableName() string { return "dict_words" }

// Store implements bot.KV against a GORM-backed table.
type Store struct {
	db *gorm.DB
}

// Open opens (and migrates) the KV store's table.
func Open(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Word{}); err != nil {
		return nil, fmt.Errorf("dictkv: automigrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Contains implements bot.KV.
func (s *Store) Contains(ctx context.Context, dictName, word string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&Word{}).
		Where("dict_name = ? AND word = ?", dictName, word).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("dictkv: contains(%s, %s): %w", dictName, word, err)
	}
	return count > 0, nil
}

// Put inserts or reaffirms a single membership. No command in cmd/cli
// calls it; the hot dialog path only ever calls Contains.
func (s *Store) Put(ctx context.Context, dictName, word string) error {
	row := Word{DictName: dictName, Word: word}
	err := s.db.WithContext(ctx).
		Where(Word{DictName: dictName, Word: word}).
		FirstOrCreate(&row).Error
	if err != nil {
		return fmt.Errorf("dictkv: put(%s, %s): %w", dictName, word, err)
	}
	return nil
}

// PutBatch inserts many words under dictName in one transaction.
func (s *Store) PutBatch(ctx context.Context, dictName string, words []string) error {
	if len(words) == 0 {
		return nil
	}

	rows := make([]Word, len(words))
	for i, w := range words {
		rows[i] = Word{DictName: dictName, Word: w}
	}

	err := s.db.WithContext(ctx).CreateInBatches(rows, 500).Error
	if err != nil {
		return fmt.Errorf("dictkv: put batch into %s: %w", dictName, err)
	}
	return nil
}
