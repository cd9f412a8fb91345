package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/folio/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(dsn, logger.Silent)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func seedArticle(t *testing.T, gdb *gorm.DB, title string, publishedOn time.Time) db.Article {
	t.Helper()
	article := db.Article{
		Title:       title,
		Slug:        Slugify(title),
		Tag:         "notes",
		Summary:     "summary of " + title,
		Content:     "content of " + title,
		PublishedOn: publishedOn,
	}
	if err := gdb.Create(&article).Error; err != nil {
		t.Fatalf("failed to seed article %q: %v", title, err)
	}
	return article
}
