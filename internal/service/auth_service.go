package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/folio/internal/db"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownPrincipal   = errors.New("unknown principal")
)

// Principal is the identity attached to a logged in session.
type Principal struct {
	UserID  uint
	Email   string
	IsAdmin bool
}

// Authenticated reports whether p represents a logged in user.
func (p *Principal) Authenticated() bool {
	return p != nil && p.UserID != 0
}

// CanAccessAdmin is the admin panel access predicate.
func (p *Principal) CanAccessAdmin() bool {
	return p.Authenticated() && p.IsAdmin
}

// Authenticator 定义登录能力：校验凭据、会话序列化与反序列化。
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*Principal, error)
	Serialize(principal *Principal) string
	Deserialize(ctx context.Context, token string) (*Principal, error)
}

// AuthService authenticates users stored in the user table.
type AuthService struct {
	db *gorm.DB
}

var _ Authenticator = (*AuthService)(nil)

// NewAuthService creates an AuthService instance.
func NewAuthService(gdb *gorm.DB) *AuthService {
	return &AuthService{db: gdb}
}

// Authenticate checks the credentials. Every failure is reported as
// ErrInvalidCredentials so callers cannot tell which field was wrong.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*Principal, error) {
	normalized := db.NormalizeEmail(email)
	if normalized == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user db.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalized).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return principalFor(&user), nil
}

// Serialize returns the session token for the principal.
func (s *AuthService) Serialize(principal *Principal) string {
	if !principal.Authenticated() {
		return ""
	}
	return strconv.FormatUint(uint64(principal.UserID), 10)
}

// Deserialize reloads the principal behind a session token.
func (s *AuthService) Deserialize(ctx context.Context, token string) (*Principal, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(token), 10, 64)
	if err != nil || id == 0 {
		return nil, ErrUnknownPrincipal
	}

	var user db.User
	if err := s.db.WithContext(ctx).First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownPrincipal
		}
		return nil, err
	}
	return principalFor(&user), nil
}

func principalFor(user *db.User) *Principal {
	return &Principal{UserID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin}
}
