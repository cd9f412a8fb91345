package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Init opens the database behind databaseURL, runs the schema migration and
// stores the handle in DB. An empty URL falls back to folio.db.
func Init(databaseURL string) error {
	gdb, err := Open(databaseURL, logger.Warn)
	if err != nil {
		return err
	}
	DB = gdb
	return nil
}

// Open connects and migrates without touching the global handle.
func Open(databaseURL string, level logger.LogLevel) (*gorm.DB, error) {
	dialector, err := dialectorFor(databaseURL)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate creates or updates the article, comment and user tables.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&Article{}, &Comment{}, &User{})
}

// IsPostgresURL reports whether the connection string targets postgres.
func IsPostgresURL(databaseURL string) bool {
	lower := strings.ToLower(strings.TrimSpace(databaseURL))
	return strings.HasPrefix(lower, "postgres://") ||
		strings.HasPrefix(lower, "postgresql://") ||
		strings.Contains(lower, "host=")
}

func dialectorFor(databaseURL string) (gorm.Dialector, error) {
	trimmed := strings.TrimSpace(databaseURL)
	if trimmed == "" {
		trimmed = "folio.db"
	}

	if IsPostgresURL(trimmed) {
		return postgres.Open(trimmed), nil
	}

	path := sqlitePath(trimmed)
	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
	}
	return sqlite.Open(withForeignKeys(path)), nil
}

// sqlitePath accepts both bare paths and sqlite:/// style URLs.
func sqlitePath(raw string) string {
	for _, prefix := range []string{"sqlite:///", "sqlite://"} {
		if strings.HasPrefix(raw, prefix) {
			return strings.TrimPrefix(raw, prefix)
		}
	}
	return raw
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=1"
	}
	if dsn == ":memory:" {
		return dsn
	}
	return dsn + "?_foreign_keys=1"
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
