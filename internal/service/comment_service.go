package service

import (
	"context"
	"errors"
	"strings"

	"github.com/folio/internal/db"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

// CommentInput carries the reader supplied comment fields.
type CommentInput struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Validate checks required presence and column limits.
func (in CommentInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name,
			validation.Required.Error("Name is required."),
			validation.RuneLength(1, 100).Error("Name must be at most 100 characters."),
		),
		validation.Field(&in.Content,
			validation.Required.Error("Comment is required."),
			validation.RuneLength(1, 5000).Error("Comment must be at most 5000 characters."),
		),
	)
}

// CommentService wraps comment related database operations.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// ListForArticle returns the comments of one article, newest first.
func (s *CommentService) ListForArticle(ctx context.Context, articleID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at desc").
		Order("id desc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Create validates the input and stores a comment for the article.
// Validation failures are returned as validation.Errors.
func (s *CommentService) Create(ctx context.Context, articleID uint, input CommentInput) (*db.Comment, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Content = strings.TrimSpace(input.Content)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	comment := db.Comment{
		ArticleID: articleID,
		Name:      input.Name,
		Content:   input.Content,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&db.Article{}).Where("id = ?", articleID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return ErrArticleNotFound
		}
		return tx.Omit("Article").Create(&comment).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// IsValidationError reports whether err carries field validation errors.
func IsValidationError(err error) bool {
	var fieldErrs validation.Errors
	return errors.As(err, &fieldErrs)
}
