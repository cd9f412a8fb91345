package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/folio/internal/db"
)

func TestShowHomeSamplesAtMostThreeArticles(t *testing.T) {
	app := setupTestApp(t, false)
	for i := 1; i <= 5; i++ {
		seedArticle(t, app.gdb, fmt.Sprintf("Post %d", i), fmt.Sprintf("post-%d", i), "body")
	}

	w := app.browser(t).get("/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got := strings.Count(w.Body.String(), `<article class="card">`); got != 3 {
		t.Fatalf("expected 3 featured articles, got %d", got)
	}
}

func TestShowHomeWithFewArticles(t *testing.T) {
	app := setupTestApp(t, false)
	seedArticle(t, app.gdb, "Only One", "only-one", "body")

	w := app.browser(t).get("/")
	if got := strings.Count(w.Body.String(), `<article class="card">`); got != 1 {
		t.Fatalf("expected 1 featured article, got %d", got)
	}
}

func TestShowArticlesListsNewestFirst(t *testing.T) {
	app := setupTestApp(t, false)
	older := db.Article{Title: "Older Post", Slug: "older", PublishedOn: time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)}
	if err := app.gdb.Create(&older).Error; err != nil {
		t.Fatalf("seed older: %v", err)
	}
	seedArticle(t, app.gdb, "Newer Post", "newer", "body")

	body := app.browser(t).get("/articles").Body.String()
	newer := strings.Index(body, "Newer Post")
	old := strings.Index(body, "Older Post")
	if newer < 0 || old < 0 || newer > old {
		t.Fatalf("expected newer article before older one")
	}
}

func TestShowArticleUnknownSlugReturns404(t *testing.T) {
	app := setupTestApp(t, false)

	b := app.browser(t)

	responses := map[string]*httptest.ResponseRecorder{
		"GET":  b.get("/articles/missing"),
		"POST": b.postForm("/articles/missing", url.Values{"name": {"a"}, "content": {"b"}}),
	}
	for method, w := range responses {
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", method, w.Code)
		}
		if !strings.Contains(w.Body.String(), "does not exist") {
			t.Fatalf("%s: expected custom 404 page", method)
		}
	}
}

func TestShowArticleRendersSanitizedMarkdown(t *testing.T) {
	app := setupTestApp(t, false)
	seedArticle(t, app.gdb, "Markdown", "markdown", "**bold** text\n\n<script>alert(1)</script>\n\n<em>kept</em>\n\n| a | b |\n|---|---|\n| 1 | 2 |")

	w := app.browser(t).get("/articles/markdown")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<strong>bold</strong>") {
		t.Fatalf("expected markdown to be rendered")
	}
	if !strings.Contains(body, "<em>kept</em>") {
		t.Fatalf("expected safe inline html to survive")
	}
	if !strings.Contains(body, "<table>") || !strings.Contains(body, "<td>1</td>") {
		t.Fatalf("expected table markup to be rendered")
	}
	if strings.Contains(body, "<script>") {
		t.Fatalf("script tag must be stripped")
	}
}

func TestPostCommentListsNewestFirst(t *testing.T) {
	app := setupTestApp(t, false)
	seedArticle(t, app.gdb, "Commented", "commented", "body")
	b := app.browser(t)

	for _, name := range []string{"Early Bird", "Late Owl"} {
		w := b.postForm("/articles/commented", url.Values{"name": {name}, "content": {"Hello from " + name}})
		if w.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/articles/commented" {
			t.Fatalf("unexpected redirect %q", loc)
		}
	}

	body := b.get("/articles/commented").Body.String()
	late := strings.Index(body, "Late Owl")
	early := strings.Index(body, "Early Bird")
	if late < 0 || early < 0 || late > early {
		t.Fatalf("expected newest comment first")
	}
}

func TestPostCommentValidation(t *testing.T) {
	app := setupTestApp(t, false)
	seedArticle(t, app.gdb, "Strict", "strict", "body")

	w := app.browser(t).postForm("/articles/strict", url.Values{"name": {"   "}, "content": {"kept text"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Name is required.") {
		t.Fatalf("expected name error in page")
	}
	if !strings.Contains(body, "kept text") {
		t.Fatalf("expected submitted content to be kept")
	}

	var count int64
	app.gdb.Model(&db.Comment{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no stored comment, got %d", count)
	}
}

func TestContactSubmissionFlashes(t *testing.T) {
	app := setupTestApp(t, false)
	b := app.browser(t)

	w := b.postForm("/contact", url.Values{"name": {"Ana"}, "email": {"ana@example.com"}, "message": {"Hi"}})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/contact" {
		t.Fatalf("expected 303 to /contact, got %d %q", w.Code, w.Header().Get("Location"))
	}

	body := b.get("/contact").Body.String()
	if !strings.Contains(body, "Thank you! Your message has been sent.") {
		t.Fatalf("expected flash message on contact page")
	}

	body = b.get("/contact").Body.String()
	if strings.Contains(body, "Thank you! Your message has been sent.") {
		t.Fatalf("flash should only be shown once")
	}
}

func TestCSRFProtectsPublicForms(t *testing.T) {
	app := setupTestApp(t, true)
	seedArticle(t, app.gdb, "Guarded", "guarded", "body")
	b := app.browser(t)

	w := b.postForm("/articles/guarded", url.Values{"name": {"Ana"}, "content": {"hi"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without token, got %d", w.Code)
	}

	token := csrfTokenFrom(t, b.get("/articles/guarded").Body.String())
	w = b.postForm("/articles/guarded", url.Values{"name": {"Ana"}, "content": {"hi"}, "csrf_token": {token}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 with token, got %d", w.Code)
	}

	w = b.postForm("/contact", url.Values{"message": {"hi"}, "csrf_token": {"forged"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 with forged token, got %d", w.Code)
	}
}

func TestStaticPagesRender(t *testing.T) {
	app := setupTestApp(t, false)
	b := app.browser(t)

	pages := map[string]string{
		"/about":    "About",
		"/projects": "Projects",
		"/tools":    "Tools",
		"/contact":  "Contact",
	}
	for path, heading := range pages {
		w := b.get(path)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "<h1>"+heading+"</h1>") {
			t.Fatalf("%s: expected heading %q", path, heading)
		}
	}
}

func TestUnknownRouteRendersNotFoundPage(t *testing.T) {
	app := setupTestApp(t, false)

	w := app.browser(t).get("/nowhere")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "does not exist") {
		t.Fatalf("expected custom 404 page")
	}
}
