package db

import "time"

// Comment is a reader comment attached to an article.
type Comment struct {
	ID        uint      `gorm:"primaryKey"`
	ArticleID uint      `gorm:"not null;index"`
	Article   *Article  `gorm:"foreignKey:ArticleID"`
	Name      string    `gorm:"size:100;not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName keeps the singular table name.
func (Comment) TableName() string {
	return "comment"
}
