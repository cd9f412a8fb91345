package service

import (
	"context"
	"errors"
	"testing"

	"github.com/folio/internal/db"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, gdb *gorm.DB, email, password string, admin bool) db.User {
	t.Helper()
	user := db.User{Email: email, IsAdmin: admin}
	if err := user.SetPassword(password); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestAuthServiceAuthenticate(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewAuthService(gdb)
	user := seedUser(t, gdb, "admin@example.com", "correct horse", true)

	principal, err := svc.Authenticate(context.Background(), "  ADMIN@example.com ", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if principal.UserID != user.ID || !principal.CanAccessAdmin() {
		t.Fatalf("unexpected principal %+v", principal)
	}

	failures := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "admin@example.com", password: "battery staple"},
		{name: "unknown email", email: "nobody@example.com", password: "correct horse"},
		{name: "empty password", email: "admin@example.com", password: ""},
		{name: "empty email", email: "", password: "correct horse"},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Authenticate(context.Background(), tt.email, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthServiceSessionRoundTrip(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewAuthService(gdb)
	user := seedUser(t, gdb, "editor@example.com", "pw", false)

	token := svc.Serialize(&Principal{UserID: user.ID})
	principal, err := svc.Deserialize(context.Background(), token)
	if err != nil {
		t.Fatalf("Deserialize returned error: %v", err)
	}
	if principal.Email != "editor@example.com" {
		t.Fatalf("unexpected principal %+v", principal)
	}
	if !principal.Authenticated() || principal.CanAccessAdmin() {
		t.Fatal("non-admin user must be authenticated but not admin")
	}

	if err := gdb.Delete(&db.User{}, user.ID).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := svc.Deserialize(context.Background(), token); !errors.Is(err, ErrUnknownPrincipal) {
		t.Fatalf("expected ErrUnknownPrincipal after delete, got %v", err)
	}

	for _, bad := range []string{"", "abc", "0", "-1"} {
		if _, err := svc.Deserialize(context.Background(), bad); !errors.Is(err, ErrUnknownPrincipal) {
			t.Fatalf("token %q: expected ErrUnknownPrincipal, got %v", bad, err)
		}
	}

	if svc.Serialize(nil) != "" {
		t.Fatal("anonymous principal should serialize to an empty token")
	}
}
