package db

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
)

// User 定义了用户模型
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	IsAdmin      bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName keeps the singular table name.
func (User) TableName() string {
	return "user"
}

// NormalizeEmail trims and lowercases an email address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword stores a bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

// CheckPassword compares password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// EnsureAdmin 创建或提升管理员：账号不存在时创建，存在时提升为管理员并重置密码。
// It reports whether a new user was created.
func EnsureAdmin(gdb *gorm.DB, email, password string) (bool, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return false, ErrEmailRequired
	}
	if strings.TrimSpace(password) == "" {
		return false, ErrPasswordRequired
	}
	if gdb == nil {
		return false, errors.New("database not initialized")
	}

	created := false
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var user User
		err := tx.Where("email = ?", normalized).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = User{Email: normalized}
			created = true
		case err != nil:
			return err
		}

		user.IsAdmin = true
		if err := user.SetPassword(password); err != nil {
			return err
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		return false, err
	}
	return created, nil
}
