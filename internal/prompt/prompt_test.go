package prompt

import (
	"reflect"
	"testing"
	"time"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, nil},
		{"sorted", []string{"writing", "coding"}, []string{"coding", "writing"}},
		{"trimmed", []string{"  coding ", "writing"}, []string{"coding", "writing"}},
		{"blank dropped", []string{"coding", "", "  "}, []string{"coding"}},
		{"case dedup first wins", []string{"Coding", "coding", "CODING"}, []string{"Coding"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTags(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeTags(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHasTag(t *testing.T) {
	p := &Prompt{Tags: []string{"coding", "Review"}}

	if !p.HasTag("CODING") {
		t.Error("HasTag should match case-insensitively")
	}
	if !p.HasTag("review") {
		t.Error("HasTag should match case-insensitively")
	}
	if p.HasTag("writing") {
		t.Error("HasTag matched an absent tag")
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Coding Assistant", "coding-assistant"},
		{"  My  Prompt!  ", "my-prompt"},
		{"Q&A: part 2", "q-a-part-2"},
		{"---", "prompt"},
		{"", "prompt"},
	}

	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	now := time.Now()
	valid := Prompt{ID: "abc", Name: "ok", Version: 1, Created: now, Updated: now}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate on complete prompt: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Prompt)
	}{
		{"missing id", func(p *Prompt) { p.ID = "" }},
		{"missing name", func(p *Prompt) { p.Name = "   " }},
		{"zero version", func(p *Prompt) { p.Version = 0 }},
		{"missing created", func(p *Prompt) { p.Created = time.Time{} }},
		{"missing updated", func(p *Prompt) { p.Updated = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			if err := p.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestHashContent(t *testing.T) {
	a := HashContent("hello")
	b := HashContent("hello")
	c := HashContent("hello ")

	if a != b {
		t.Error("hash should be deterministic")
	}
	if a == c {
		t.Error("distinct content should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
	if got, want := HashContent("hello"), "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"; got != want {
		t.Errorf("HashContent(hello) = %s, want %s", got, want)
	}
}
