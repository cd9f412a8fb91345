package handler_test

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/folio/internal/db"
	"github.com/folio/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testBaseURL = "http://folio.test"

var ginOnce sync.Once

type testApp struct {
	gdb       *gorm.DB
	handler   http.Handler
	staticDir string
}

func setupTestApp(t *testing.T, csrf bool) *testApp {
	t.Helper()

	ginOnce.Do(func() {
		gin.SetMode(gin.TestMode)
	})

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(dsn, logger.Silent)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	staticDir := t.TempDir()
	r := router.SetupRouter(gdb, router.Options{
		SecretKey:   "test-secret",
		CSRFEnabled: csrf,
		StaticDir:   staticDir,
		Logger:      zerolog.Nop(),
	})
	return &testApp{gdb: gdb, handler: r, staticDir: staticDir}
}

// browser replays cookies between requests against the in-process handler.
type browser struct {
	t       *testing.T
	handler http.Handler
	jar     http.CookieJar
}

func (app *testApp) browser(t *testing.T) *browser {
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &browser{t: t, handler: app.handler, jar: jar}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, cookie := range b.jar.Cookies(req.URL) {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)
	b.jar.SetCookies(req.URL, w.Result().Cookies())
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, testBaseURL+path, nil))
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, testBaseURL+path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) login(email, password string) *httptest.ResponseRecorder {
	return b.postForm("/admin/login", url.Values{"email": {email}, "password": {password}})
}

var csrfPattern = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

func csrfTokenFrom(t *testing.T, body string) string {
	t.Helper()
	match := csrfPattern.FindStringSubmatch(body)
	if match == nil {
		t.Fatalf("no csrf token in page")
	}
	return match[1]
}

func seedUser(t *testing.T, gdb *gorm.DB, email, password string, admin bool) db.User {
	t.Helper()
	user := db.User{Email: email, IsAdmin: admin}
	if err := user.SetPassword(password); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedArticle(t *testing.T, gdb *gorm.DB, title, slug, content string) db.Article {
	t.Helper()
	article := db.Article{Title: title, Slug: slug, Content: content, Summary: "About " + title}
	if err := gdb.Create(&article).Error; err != nil {
		t.Fatalf("seed article: %v", err)
	}
	return article
}
