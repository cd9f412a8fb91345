package main

import (
	"fmt"
	"testing"
	"time"

	"github.com/folio/internal/db"
	"gorm.io/gorm/logger"
)

func TestSeedArticlesIsIdempotent(t *testing.T) {
	dsn := fmt.Sprintf("file:seed-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(dsn, logger.Silent)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	created, err := seedArticles(gdb, now)
	if err != nil {
		t.Fatalf("seedArticles returned error: %v", err)
	}
	if created != len(samples) {
		t.Fatalf("expected %d articles, got %d", len(samples), created)
	}

	again, err := seedArticles(gdb, now)
	if err != nil {
		t.Fatalf("second seedArticles returned error: %v", err)
	}
	if again != 0 {
		t.Fatalf("expected no new articles on rerun, got %d", again)
	}

	var article db.Article
	if err := gdb.Where("slug = ?", "building-a-small-blog-with-go-and-gin").First(&article).Error; err != nil {
		t.Fatalf("expected derived slug to exist: %v", err)
	}
	if article.Author != db.DefaultAuthor {
		t.Fatalf("expected default author, got %q", article.Author)
	}

	var comments int64
	if err := gdb.Model(&db.Comment{}).Count(&comments).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if comments != 3 {
		t.Fatalf("expected 3 seeded comments, got %d", comments)
	}
}
