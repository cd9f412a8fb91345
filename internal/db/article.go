package db

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// DefaultAuthor is used when an article is saved without an author.
const DefaultAuthor = "Mauricio Aragon"

// ErrSlugRequired is returned when an article would be persisted without a slug.
var ErrSlugRequired = errors.New("article slug is required")

// Article 定义了文章模型
type Article struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:200;not null"`
	Slug        string    `gorm:"size:200;uniqueIndex;not null"`
	Tag         string    `gorm:"size:50;index"`
	Summary     string    `gorm:"type:text"`
	Image       string    `gorm:"size:200"`
	Author      string    `gorm:"size:100"`
	PublishedOn time.Time `gorm:"index"`
	Content     string    `gorm:"type:text"`
	Comments    []Comment `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName keeps the singular table name.
func (Article) TableName() string {
	return "article"
}

// BeforeSave rejects articles without a slug.
func (a *Article) BeforeSave(*gorm.DB) error {
	a.Slug = strings.TrimSpace(a.Slug)
	if a.Slug == "" {
		return ErrSlugRequired
	}
	return nil
}

// BeforeCreate fills the author and publication day defaults.
func (a *Article) BeforeCreate(*gorm.DB) error {
	if strings.TrimSpace(a.Author) == "" {
		a.Author = DefaultAuthor
	}
	if a.PublishedOn.IsZero() {
		a.PublishedOn = time.Now()
	}
	a.PublishedOn = TruncateDay(a.PublishedOn)
	return nil
}

// TruncateDay drops the clock part so published_on behaves as a date.
func TruncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
