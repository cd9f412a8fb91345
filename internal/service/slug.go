package service

import (
	"strings"
	"unicode"

	"github.com/folio/internal/db"
)

// Slugify turns a title into a lowercase, hyphen separated identifier.
// Non-word characters are dropped and every run of whitespace or hyphens
// becomes a single hyphen. Slugify(Slugify(s)) == Slugify(s).
//
// Lowercasing uses simple case mapping, so U+0130 becomes a plain "i".
func Slugify(title string) string {
	kept := strings.Map(func(r rune) rune {
		if isWordRune(r) || r == '-' || isSlugSpace(r) {
			return r
		}
		return -1
	}, title)
	kept = strings.ToLower(strings.TrimFunc(kept, isSlugSpace))

	var b strings.Builder
	b.Grow(len(kept))
	pendingSep := false
	for _, r := range kept {
		if r == '-' || isSlugSpace(r) {
			pendingSep = true
			continue
		}
		if pendingSep {
			b.WriteByte('-')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	if pendingSep {
		b.WriteByte('-')
	}
	return b.String()
}

// isSlugSpace also counts the ASCII file, group, record and unit
// separators as whitespace.
func isSlugSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// DeriveArticleSlug fills an empty slug from the title. It never overwrites
// a slug the operator supplied.
func DeriveArticleSlug(article *db.Article) {
	if strings.TrimSpace(article.Slug) != "" {
		return
	}
	if strings.TrimSpace(article.Title) == "" {
		return
	}
	article.Slug = Slugify(article.Title)
}
