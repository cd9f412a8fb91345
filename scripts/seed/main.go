// Command seed fills an empty database with sample articles and comments
// for local development.
package main

import (
	"os"
	"time"

	"github.com/folio/internal/config"
	"github.com/folio/internal/db"
	"github.com/folio/internal/service"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type sampleArticle struct {
	title    string
	tag      string
	summary  string
	content  string
	image    string
	daysAgo  int
	comments []db.Comment
}

var samples = []sampleArticle{
	{
		title:   "Building a Small Blog with Go and Gin",
		tag:     "go",
		summary: "Routing, templates and sessions: the minimum needed to ship a personal site.",
		content: "## Why Go\n\nA single binary and a tiny memory footprint make hosting cheap.\n\n" +
			"## Routing\n\nGin groups keep the admin routes behind one middleware.",
		image:   "https://images.unsplash.com/photo-1523475472560-d2df97ec485c?auto=format&fit=crop&w=1600&q=80",
		daysAgo: 2,
		comments: []db.Comment{
			{Name: "Ana", Content: "Great write-up, the middleware part helped a lot."},
			{Name: "Leo", Content: "Would love a follow-up on deployment."},
		},
	},
	{
		title:   "SQLite Locally, Postgres in Production",
		tag:     "databases",
		summary: "Keeping one ORM model and switching drivers by connection string.",
		content: "Local development runs on a file database. Production reads `DATABASE_URL` and talks to Postgres.",
		daysAgo: 9,
		comments: []db.Comment{
			{Name: "Sam", Content: "Do foreign keys behave the same on both?"},
		},
	},
	{
		title:   "Notes on Markdown Rendering",
		tag:     "web",
		summary: "Goldmark for parsing, bluemonday for keeping the output safe.",
		content: "Render first, sanitize second.\n\n| Step | Library |\n|---|---|\n| parse | goldmark |\n| clean | bluemonday |",
		daysAgo: 21,
	},
	{
		title:   "What I Learned Moving to Render",
		tag:     "deployment",
		summary: "Secure cookies, environment variables and a health check endpoint.",
		content: "Set `RENDER` and cookies switch to secure mode. The `/healthz` endpoint pings the database.",
		image:   "img/projects/folio.png",
		daysAgo: 40,
	},
}

func main() {
	cfg := config.Load()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// 初始化数据库
	if err := db.Init(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}

	created, err := seedArticles(db.DB, time.Now())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to seed articles")
	}
	logger.Info().Int("articles", created).Msg("seed finished")
}

// seedArticles inserts the samples whose slug is not taken yet and returns
// how many were created.
func seedArticles(gdb *gorm.DB, now time.Time) (int, error) {
	created := 0
	err := gdb.Transaction(func(tx *gorm.DB) error {
		for _, sample := range samples {
			slug := service.Slugify(sample.title)

			var count int64
			if err := tx.Model(&db.Article{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			article := db.Article{
				Title:       sample.title,
				Slug:        slug,
				Tag:         sample.tag,
				Summary:     sample.summary,
				Content:     sample.content,
				Image:       sample.image,
				PublishedOn: now.AddDate(0, 0, -sample.daysAgo),
			}
			if err := tx.Create(&article).Error; err != nil {
				return err
			}
			for i, comment := range sample.comments {
				comment.ArticleID = article.ID
				comment.CreatedAt = now.Add(-time.Duration(len(sample.comments)-i) * time.Hour)
				if err := tx.Omit("Article").Create(&comment).Error; err != nil {
					return err
				}
			}
			created++
		}
		return nil
	})
	return created, err
}
