package nlp

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuildFeaturesThreeTokenWindow(t *testing.T) {
	terms := []string{"a", "b", "c"}
	pos := []string{"N", "V", "N"}

	items, err := BuildFeatures(terms, pos)
	if err != nil {
		t.Fatalf("BuildFeatures() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}

	wantFirst := []string{
		"w[t]=a", "pos[t]=@N",
		"w[t+1]=b", "pos[t+1]=@V",
		"w[t]|w[t+1]=a|b", "pos[t]|pos[t+1]=@N|@V",
		"w[t+2]=c", "pos[t+2]=@N",
		"pos[t+1]|pos[t+2]=@V|@N",
		"pos[t]|pos[t+1]|pos[t+2]=@N|@V|@N",
		"__BOS__",
	}
	if !reflect.DeepEqual(items[0].Features, wantFirst) {
		t.Errorf("items[0].Features =\n%v\nwant\n%v", items[0].Features, wantFirst)
	}

	wantLast := []string{
		"w[t-2]=a", "pos[t-2]=@N",
		"pos[t-2]|pos[t-1]=@N|@V",
		"pos[t-2]|pos[t-1]|pos[t]=@N|@V|@N",
		"w[t-1]=b", "pos[t-1]=@V",
		"w[t-1]|w[t]=b|c", "pos[t-1]|pos[t]=@V|@N",
		"w[t]=c", "pos[t]=@N",
		"__EOS__",
	}
	if !reflect.DeepEqual(items[2].Features, wantLast) {
		t.Errorf("items[2].Features =\n%v\nwant\n%v", items[2].Features, wantLast)
	}
}

func TestBuildFeaturesSingleToken(t *testing.T) {
	items, err := BuildFeatures([]string{"a"}, []string{"N"})
	if err != nil {
		t.Fatalf("BuildFeatures() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	want := []string{"w[t]=a", "pos[t]=@N", "__BOS__", "__EOS__"}
	if !reflect.DeepEqual(items[0].Features, want) {
		t.Errorf("items[0].Features = %v, want %v", items[0].Features, want)
	}
}

func TestBuildFeaturesLengthMismatch(t *testing.T) {
	_, err := BuildFeatures([]string{"a", "b"}, []string{"N"})
	if !errors.Is(err, ErrInvalidLabelingData) {
		t.Fatalf("BuildFeatures() error = %v, want ErrInvalidLabelingData", err)
	}
}

func TestBuildFeaturesEmpty(t *testing.T) {
	items, err := BuildFeatures(nil, nil)
	if err != nil {
		t.Fatalf("BuildFeatures() error = %v", err)
	}
	if items != nil {
		t.Fatalf("BuildFeatures() items = %v, want nil", items)
	}
}
