package dictkv

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}
	store, err := Open(db)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return store
}

func TestPutAndContains(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	ok, err := store.Contains(ctx, "city", "上海")
	if err != nil {
		t.Fatalf("Contains() error = %v", err)
	}
	if ok {
		t.Fatal("Contains() = true before Put, want false")
	}

	if err := store.Put(ctx, "city", "上海"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	ok, err = store.Contains(ctx, "city", "上海")
	if err != nil {
		t.Fatalf("Contains() error = %v", err)
	}
	if !ok {
		t.Fatal("Contains() = false after Put, want true")
	}
}

func TestContainsIsDictScoped(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if err := store.Put(ctx, "city", "上海"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	ok, err := store.Contains(ctx, "landmark", "上海")
	if err != nil {
		t.Fatalf("Contains() error = %v", err)
	}
	if ok {
		t.Fatal("Contains() = true for a different dict_name, want false")
	}
}

func TestPutBatch(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if err := store.PutBatch(ctx, "city", []string{"上海", "北京", "广州"}); err != nil {
		t.Fatalf("PutBatch() error = %v", err)
	}

	for _, word := range []string{"上海", "北京", "广州"} {
		ok, err := store.Contains(ctx, "city", word)
		if err != nil {
			t.Fatalf("Contains(%s) error = %v", word, err)
		}
		if !ok {
			t.Errorf("Contains(%s) = false, want true", word)
		}
	}
}
