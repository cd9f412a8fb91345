package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"

	"github.com/folio/internal/db"
	"gorm.io/gorm"
)

var ErrArticleNotFound = errors.New("article not found")

// FeaturedLimit is the number of articles sampled for the home page.
const FeaturedLimit = 3

// ArticleService wraps article related database operations.
type ArticleService struct {
	db   *gorm.DB
	perm func(n int) []int
}

// NewArticleService creates an ArticleService instance.
func NewArticleService(gdb *gorm.DB) *ArticleService {
	return &ArticleService{db: gdb, perm: rand.Perm}
}

// List returns all articles, newest publication first.
func (s *ArticleService) List(ctx context.Context) ([]db.Article, error) {
	var articles []db.Article
	if err := s.db.WithContext(ctx).
		Order("published_on desc").
		Order("id desc").
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// GetBySlug fetches one article by its slug.
func (s *ArticleService) GetBySlug(ctx context.Context, slug string) (*db.Article, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, ErrArticleNotFound
	}

	var article db.Article
	if err := s.db.WithContext(ctx).Where("slug = ?", trimmed).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

// Featured samples up to limit distinct articles uniformly at random.
// Fewer articles than limit means all of them are returned.
func (s *ArticleService) Featured(ctx context.Context, limit int) ([]db.Article, error) {
	if limit <= 0 {
		return []db.Article{}, nil
	}

	var ids []uint
	if err := s.db.WithContext(ctx).Model(&db.Article{}).Order("id asc").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	picked := sampleIDs(ids, limit, s.perm)
	if len(picked) == 0 {
		return []db.Article{}, nil
	}

	var rows []db.Article
	if err := s.db.WithContext(ctx).Where("id IN ?", picked).Find(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]db.Article, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	featured := make([]db.Article, 0, len(picked))
	for _, id := range picked {
		if article, ok := byID[id]; ok {
			featured = append(featured, article)
		}
	}
	return featured, nil
}

func sampleIDs(ids []uint, limit int, perm func(int) []int) []uint {
	n := min(limit, len(ids))
	picked := make([]uint, 0, n)
	for _, idx := range perm(len(ids))[:n] {
		picked = append(picked, ids[idx])
	}
	return picked
}

// Count returns the number of stored articles.
func (s *ArticleService) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&db.Article{}).Count(&count).Error
	return count, err
}
