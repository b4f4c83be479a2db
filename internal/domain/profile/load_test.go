package profile

import "testing"

func TestEncodeDecodeRoundtrip(t *testing.T) {
	p := New([]Intent{
		{Name: "book_flight", Slots: []Slot{
			{Name: "origin", DictName: "city", Requires: true, Question: "Where from?"},
			{Name: "date", DictName: "@date", Requires: true, Question: "When?"},
		}},
	})

	data, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(got.Intents) != 1 || got.Intents[0].Name != "book_flight" {
		t.Fatalf("Decode() intents = %+v", got.Intents)
	}
	if len(got.Intents[0].Slots) != 2 {
		t.Fatalf("Decode() slots = %+v", got.Intents[0].Slots)
	}
	if !got.HasReferredSysdict("@date") {
		t.Error("decoded profile lost its derived referredSysdicts")
	}
}

func TestDecodeRejectsInvalidProfile(t *testing.T) {
	p := New([]Intent{{Name: "bad", Slots: []Slot{{Name: "x", DictName: ""}}}})
	data, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if _, err := Decode(data); err == nil {
		t.Fatal("Decode() = nil error, want validation failure for empty dict_name")
	}
}
