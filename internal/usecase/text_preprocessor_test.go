package usecase

import (
	"testing"

	"github.com/furnishly/backend/internal/domain"
)

func TestTextPreprocessor_PreprocessQuery(t *testing.T) {
	p := NewTextPreprocessor(false)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "lower-cases and strips punctuation", input: "Mid-Century Sofa!", want: "mid century sofa"},
		{name: "removes measurements", input: `72" walnut bookshelf`, want: "walnut bookshelf"},
		{name: "removes piece counts", input: "dining chairs set of 4", want: "dining chairs"},
		{name: "removes noise words", input: "looking for the best leather couch please", want: "for the leather couch"},
		{name: "falls back when only noise remains", input: "best quality furniture", want: "best quality furniture"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.PreprocessQuery(tt.input); got != tt.want {
				t.Errorf("PreprocessQuery(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTextPreprocessor_PreprocessQueryTruncates(t *testing.T) {
	p := NewTextPreprocessor(false)

	long := ""
	for i := 0; i < 60; i++ {
		long += "walnut "
	}

	got := p.PreprocessQuery(long)
	if len(got) > maxQueryLength {
		t.Errorf("PreprocessQuery() length = %d, want <= %d", len(got), maxQueryLength)
	}
	if got[len(got)-1] == ' ' {
		t.Errorf("PreprocessQuery() = %q, should not end with a space", got)
	}
}

func TestTextPreprocessor_CombinedText(t *testing.T) {
	p := NewTextPreprocessor(false)
	product := domain.Product{
		domain.FieldTitle:       "Oak Table",
		domain.FieldBrand:       "Nordic",
		domain.FieldDescription: "Solid, sturdy.",
		domain.FieldCategories:  "['Dining Room', 'Tables']",
		domain.FieldMaterial:    "Oak",
	}

	want := "oak table nordic solid sturdy dining room oak"
	if got := p.CombinedText(product); got != want {
		t.Errorf("CombinedText() = %q, want %q", got, want)
	}
}

func TestCleanText(t *testing.T) {
	if got := CleanText("  Hello,\tWORLD -- 2024 "); got != "hello world 2024" {
		t.Errorf("CleanText() = %q, want %q", got, "hello world 2024")
	}
}
