package nlp

import "testing"

func TestExtractCandidatesBasicSpan(t *testing.T) {
	terms := []string{"上", "海", "到", "北", "京"}
	tags := []string{"B-origin", "I-origin", "O", "B-dest", "I-dest"}

	got := ExtractCandidates(terms, tags)
	want := []Candidate{
		{SlotName: "origin", Surface: "上海"},
		{SlotName: "dest", Surface: "北京"},
	}

	if len(got) != len(want) {
		t.Fatalf("ExtractCandidates() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ExtractCandidates()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestExtractCandidatesSkipsBuiltinPOSTags(t *testing.T) {
	terms := []string{"明", "天"}
	tags := []string{"B-@date", "I-@date"}

	got := ExtractCandidates(terms, tags)
	if got != nil {
		t.Fatalf("ExtractCandidates() = %+v, want nil (B-@ tags are POS, not entities)", got)
	}
}

func TestExtractCandidatesBreaksOnMismatchedContinuation(t *testing.T) {
	terms := []string{"a", "b", "c"}
	tags := []string{"B-x", "I-y", "O"}

	got := ExtractCandidates(terms, tags)
	want := []Candidate{{SlotName: "x", Surface: "a"}}
	if len(got) != 1 || got[0] != want[0] {
		t.Fatalf("ExtractCandidates() = %+v, want %+v", got, want)
	}
}

func TestExtractCandidatesLengthMismatchReturnsNil(t *testing.T) {
	if got := ExtractCandidates([]string{"a"}, nil); got != nil {
		t.Fatalf("ExtractCandidates() = %+v, want nil", got)
	}
}

func TestExtractCandidatesEmpty(t *testing.T) {
	if got := ExtractCandidates(nil, nil); got != nil {
		t.Fatalf("ExtractCandidates() = %+v, want nil", got)
	}
}
