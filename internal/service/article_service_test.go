package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestArticleServiceListNewestFirst(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewArticleService(gdb)

	seedArticle(t, gdb, "Older", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	seedArticle(t, gdb, "Newest", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	seedArticle(t, gdb, "Middle", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	articles, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list articles: %v", err)
	}

	want := []string{"Newest", "Middle", "Older"}
	if len(articles) != len(want) {
		t.Fatalf("expected %d articles, got %d", len(want), len(articles))
	}
	for i, title := range want {
		if articles[i].Title != title {
			t.Fatalf("position %d: expected %q, got %q", i, title, articles[i].Title)
		}
	}
}

func TestArticleServiceGetBySlug(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewArticleService(gdb)
	seeded := seedArticle(t, gdb, "Hello, World!", time.Now())

	article, err := svc.GetBySlug(context.Background(), "hello-world")
	if err != nil {
		t.Fatalf("GetBySlug returned error: %v", err)
	}
	if article.ID != seeded.ID {
		t.Fatalf("expected article %d, got %d", seeded.ID, article.ID)
	}

	for _, slug := range []string{"missing", "", "   "} {
		if _, err := svc.GetBySlug(context.Background(), slug); !errors.Is(err, ErrArticleNotFound) {
			t.Fatalf("slug %q: expected ErrArticleNotFound, got %v", slug, err)
		}
	}
}

func TestArticleServiceFeaturedCount(t *testing.T) {
	for _, total := range []int{0, 1, 2, 3, 4, 10} {
		t.Run(fmt.Sprintf("%d articles", total), func(t *testing.T) {
			gdb := setupServiceTestDB(t)
			svc := NewArticleService(gdb)
			for i := 0; i < total; i++ {
				seedArticle(t, gdb, fmt.Sprintf("Article %d", i), time.Now())
			}

			featured, err := svc.Featured(context.Background(), FeaturedLimit)
			if err != nil {
				t.Fatalf("Featured returned error: %v", err)
			}

			if want := min(FeaturedLimit, total); len(featured) != want {
				t.Fatalf("expected %d featured articles, got %d", want, len(featured))
			}

			seen := make(map[uint]bool)
			for _, article := range featured {
				if seen[article.ID] {
					t.Fatalf("article %d sampled twice", article.ID)
				}
				seen[article.ID] = true
			}
		})
	}
}

func TestArticleServiceFeaturedUsesSample(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewArticleService(gdb)
	var titles []string
	for i := 0; i < 5; i++ {
		article := seedArticle(t, gdb, fmt.Sprintf("Sampled %d", i), time.Now())
		titles = append(titles, article.Title)
	}

	svc.perm = func(n int) []int {
		// reversed order
		out := make([]int, n)
		for i := range out {
			out[i] = n - 1 - i
		}
		return out
	}

	featured, err := svc.Featured(context.Background(), FeaturedLimit)
	if err != nil {
		t.Fatalf("Featured returned error: %v", err)
	}

	want := []string{titles[4], titles[3], titles[2]}
	for i, title := range want {
		if featured[i].Title != title {
			t.Fatalf("position %d: expected %q, got %q", i, title, featured[i].Title)
		}
	}
}

func TestSampleIDs(t *testing.T) {
	identity := func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}

	if got := sampleIDs(nil, 3, identity); len(got) != 0 {
		t.Fatalf("expected empty sample, got %v", got)
	}
	if got := sampleIDs([]uint{7, 8}, 3, identity); len(got) != 2 {
		t.Fatalf("expected all ids when fewer than limit, got %v", got)
	}
	if got := sampleIDs([]uint{1, 2, 3, 4}, 3, identity); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("unexpected sample %v", got)
	}
}
