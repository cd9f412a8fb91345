package admin

import (
	"html/template"
	"path"
	"strings"
	"time"
)

// Text escapes a plain value for a list cell.
func Text(value string) template.HTML {
	return template.HTML(template.HTMLEscapeString(value))
}

// YesNo renders a boolean cell.
func YesNo(value bool) template.HTML {
	if value {
		return "Yes"
	}
	return "No"
}

// ImagePreview renders a small thumbnail for an article image. Absolute
// http(s) URLs are used as-is, anything else is resolved under staticURL.
func ImagePreview(staticURL, value string) template.HTML {
	src := strings.TrimSpace(value)
	if src == "" {
		return ""
	}
	if !strings.HasPrefix(src, "http") {
		src = path.Join("/", staticURL, src)
	}
	return template.HTML(`<img src="` + template.HTMLEscapeString(src) + `" alt="" style="height:40px">`)
}

// Truncate shortens value to at most limit runes, appending an ellipsis.
func Truncate(value string, limit int) string {
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}
	return string(runes[:limit]) + "…"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}
