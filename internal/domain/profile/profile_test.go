package profile

import "testing"

func TestNewDerivesReferredSysdicts(t *testing.T) {
	p := New([]Intent{
		{
			Name: "book_flight",
			Slots: []Slot{
				{Name: "origin", DictName: "city"},
				{Name: "date", DictName: "@date"},
				{Name: "pax", DictName: "@number"},
			},
		},
		{
			Name: "book_hotel",
			Slots: []Slot{
				{Name: "checkin", DictName: "@date"},
			},
		},
	})

	got := p.ReferredSysdicts()
	want := []string{"@date", "@number"}
	if len(got) != len(want) {
		t.Fatalf("ReferredSysdicts() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ReferredSysdicts()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if !p.HasReferredSysdict("@date") {
		t.Error("HasReferredSysdict(@date) = false, want true")
	}
	if p.HasReferredSysdict("city") {
		t.Error("HasReferredSysdict(city) = true, want false (not a sysdict)")
	}
}

func TestSlotIsBuiltin(t *testing.T) {
	cases := []struct {
		dictName string
		want     bool
	}{
		{"@date", true},
		{"@number", true},
		{"city", false},
		{"", false},
	}
	for _, c := range cases {
		s := Slot{DictName: c.dictName}
		if got := s.IsBuiltin(); got != c.want {
			t.Errorf("Slot{DictName: %q}.IsBuiltin() = %v, want %v", c.dictName, got, c.want)
		}
	}
}

func TestIntentSlotByName(t *testing.T) {
	intent := Intent{
		Name: "book_flight",
		Slots: []Slot{
			{Name: "origin", DictName: "city"},
		},
	}

	if _, ok := intent.SlotByName("origin"); !ok {
		t.Error("SlotByName(origin) not found")
	}
	if _, ok := intent.SlotByName("missing"); ok {
		t.Error("SlotByName(missing) unexpectedly found")
	}
}

func TestProfileByName(t *testing.T) {
	p := New([]Intent{{Name: "book_flight"}})

	if _, ok := p.ByName("book_flight"); !ok {
		t.Error("ByName(book_flight) not found")
	}
	if _, ok := p.ByName("nope"); ok {
		t.Error("ByName(nope) unexpectedly found")
	}
}
