package telegram

import "testing"

func TestIsAllowedUser(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		userID   int64
		expected bool
	}{
		{"disabled policy rejects everyone", &Config{DMPolicy: "disabled"}, 1, false},
		{"allowlist policy accepts listed user", &Config{DMPolicy: "allowlist", AllowedUserIDs: []int64{1, 2}}, 2, true},
		{"allowlist policy rejects unlisted user", &Config{DMPolicy: "allowlist", AllowedUserIDs: []int64{1, 2}}, 3, false},
		{"open policy with no list accepts anyone", &Config{DMPolicy: "open"}, 99, true},
		{"default policy with a list still enforces it", &Config{AllowedUserIDs: []int64{5}}, 6, false},
		{"default policy with no list accepts anyone", &Config{}, 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Adapter{config: tt.config}
			if got := a.isAllowedUser(tt.userID); got != tt.expected {
				t.Errorf("isAllowedUser(%d) = %v, want %v", tt.userID, got, tt.expected)
			}
		})
	}
}

func TestIsAllowedGroup(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		chatID   int64
		expected bool
	}{
		{"disabled policy rejects every group", &Config{GroupPolicy: "disabled"}, 100, false},
		{"allowlist policy accepts listed chat", &Config{GroupPolicy: "allowlist", GroupAllowFrom: []string{"100"}}, 100, true},
		{"allowlist policy rejects unlisted chat", &Config{GroupPolicy: "allowlist", GroupAllowFrom: []string{"100"}}, 200, false},
		{"open policy accepts any group", &Config{GroupPolicy: "open"}, 999, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Adapter{config: tt.config}
			if got := a.isAllowedGroup(tt.chatID); got != tt.expected {
				t.Errorf("isAllowedGroup(%d) = %v, want %v", tt.chatID, got, tt.expected)
			}
		})
	}
}

func TestIsAllowedChat(t *testing.T) {
	a := &Adapter{config: &Config{
		DMPolicy:       "allowlist",
		AllowedUserIDs: []int64{1},
		GroupPolicy:    "allowlist",
		GroupAllowFrom: []string{"100"},
	}}

	if !a.isAllowedChat(0, 1, false) {
		t.Error("expected allowed DM for listed user")
	}
	if a.isAllowedChat(0, 2, false) {
		t.Error("expected rejected DM for unlisted user")
	}
	if !a.isAllowedChat(100, 0, true) {
		t.Error("expected allowed group for listed chat")
	}
	if a.isAllowedChat(200, 0, true) {
		t.Error("expected rejected group for unlisted chat")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 200); got != "short" {
		t.Errorf("truncate(short) = %q, want unchanged", got)
	}
	if got := truncate("0123456789", 5); got != "01234..." {
		t.Errorf("truncate(long) = %q, want '01234...'", got)
	}
}
