package nlp

import (
	"reflect"
	"testing"
)

func TestCharSegment(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"上海", []string{"上", "海"}},
		{"ab", []string{"a", "b"}},
		{"", nil},
	}

	for _, c := range cases {
		got := CharSegment(c.in)
		if len(got) != len(c.want) {
			t.Errorf("CharSegment(%q) = %v, want %v", c.in, got, c.want)
			continue
		}
		if len(got) > 0 && !reflect.DeepEqual(got, c.want) {
			t.Errorf("CharSegment(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
