package validation_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/edulink/mentorhub/internal/pkg/validation"
)

func TestNormalizeTags(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"lowercases and trims", []string{" Go ", "SQL"}, []string{"go", "sql"}},
		{"deduplicates", []string{"go", "Go", " go "}, []string{"go"}},
		{"drops empties", []string{"", "   ", "go"}, []string{"go"}},
		{"drops oversized", []string{strings.Repeat("x", validation.TagMaxLength + 1), "go"}, []string{"go"}},
		{"nil input", nil, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := validation.NormalizeTags(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("NormalizeTags(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeTagsCap(t *testing.T) {
	in := make([]string, validation.MaxTags+5)
	for i := range in {
		in[i] = strings.Repeat("a", i+1)
	}
	got := validation.NormalizeTags(in)
	if len(got) != validation.MaxTags {
		t.Fatalf("expected cap at %d tags, got %d", validation.MaxTags, len(got))
	}
}

func TestEmailPattern(t *testing.T) {
	valid := []string{"user@example.com", "a.b+c@sub.domain.org"}
	invalid := []string{"", "user", "user@", "@example.com", "User@Example.com"}

	for _, e := range valid {
		if !validation.CompiledPatterns.Email.MatchString(e) {
			t.Errorf("expected %q to be valid", e)
		}
	}
	for _, e := range invalid {
		if validation.CompiledPatterns.Email.MatchString(e) {
			t.Errorf("expected %q to be invalid", e)
		}
	}
}
