package profile

import "testing"

func TestValidateOK(t *testing.T) {
	p := New([]Intent{
		{Name: "book_flight", Slots: []Slot{{Name: "origin", DictName: "city"}}},
		{Name: "book_hotel", Slots: []Slot{{Name: "checkin", DictName: "@date"}}},
	})
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateDuplicateIntentName(t *testing.T) {
	p := New([]Intent{
		{Name: "dup", Slots: []Slot{{Name: "a", DictName: "x"}}},
		{Name: "dup", Slots: []Slot{{Name: "b", DictName: "y"}}},
	})
	if err := p.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for duplicate intent name")
	}
}

func TestValidateDuplicateSlotName(t *testing.T) {
	p := New([]Intent{
		{Name: "book_flight", Slots: []Slot{
			{Name: "origin", DictName: "city"},
			{Name: "origin", DictName: "city2"},
		}},
	})
	if err := p.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for duplicate slot name")
	}
}

func TestValidateEmptyDictName(t *testing.T) {
	p := New([]Intent{
		{Name: "book_flight", Slots: []Slot{{Name: "origin", DictName: ""}}},
	})
	if err := p.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for empty dict_name")
	}
}

func TestValidateEmptyIntentName(t *testing.T) {
	p := New([]Intent{{Name: ""}})
	if err := p.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for empty intent name")
	}
}
