package service

import (
	"testing"

	"github.com/folio/internal/db"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "punctuation stripped", title: "Hello, World!", want: "hello-world"},
		{name: "whitespace runs", title: "  Go   is\tfun  ", want: "go-is-fun"},
		{name: "hyphen runs", title: "A -- B", want: "a-b"},
		{name: "underscore is a word char", title: "snake_case title", want: "snake_case-title"},
		{name: "digits kept", title: "Top 10 Tips (2024)", want: "top-10-tips-2024"},
		{name: "unicode letters kept", title: "Café Olé", want: "café-olé"},
		{name: "already a slug", title: "hello-world", want: "hello-world"},
		{name: "only symbols", title: "!!!", want: ""},
		{name: "unit separator splits words", title: "foo\x1fbar", want: "foo-bar"},
		{name: "control separators trimmed", title: "\x1c title \x1e", want: "title"},
		{name: "dotted capital i", title: "İstanbul", want: "istanbul"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.title); got != tt.want {
				t.Fatalf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSlugifyIsIdempotent(t *testing.T) {
	titles := []string{
		"Hello, World!",
		"  Mixed CASE -- and   spaces ",
		"İstanbul’da bir gün",
		"Ünïcödé & émojis 🚀 everywhere",
		"-leading and trailing-",
		"tabs\tand\nnewlines",
	}

	for _, title := range titles {
		once := Slugify(title)
		twice := Slugify(once)
		if once != twice {
			t.Fatalf("Slugify not idempotent for %q: %q then %q", title, once, twice)
		}
	}
}

func TestDeriveArticleSlug(t *testing.T) {
	article := &db.Article{Title: "Hello, World!"}
	DeriveArticleSlug(article)
	if article.Slug != "hello-world" {
		t.Fatalf("expected derived slug hello-world, got %q", article.Slug)
	}

	custom := &db.Article{Title: "Hello, World!", Slug: "custom-slug"}
	DeriveArticleSlug(custom)
	if custom.Slug != "custom-slug" {
		t.Fatalf("operator supplied slug should be kept, got %q", custom.Slug)
	}

	untitled := &db.Article{}
	DeriveArticleSlug(untitled)
	if untitled.Slug != "" {
		t.Fatalf("expected empty slug without a title, got %q", untitled.Slug)
	}
}
