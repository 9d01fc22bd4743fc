package shared

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// DriverName maps a configured driver ("sqlite" or "postgres") to its registered database/sql driver.
func DriverName(driver string) (string, error) {
	switch strings.ToLower(driver) {
	case "", "sqlite", "sqlite3":
		return "sqlite3", nil
	case "postgres", "postgresql", "pgx":
		return "pgx", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// NewDatabase opens and pings the database described by cfg.
//
// For sqlite the URL is a file path or ":memory:". An in-memory database is pinned to a
// single connection since every new connection would otherwise open an empty database.
// For postgres the username and password, when set, replace the URL's user info.
func NewDatabase(cfg DatabaseConfig) (*sql.DB, error) {
	driver, err := DriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn := cfg.URL
	if driver == "pgx" {
		if dsn, err = withCredentials(cfg.URL, cfg.Username, cfg.Password); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == "sqlite3" && strings.Contains(dsn, ":memory:") {
		ConfigureDatabase(db, 1, 1)
	} else if cfg.MaxOpenConns > 0 {
		ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
	}

	return db, nil
}

// ConfigureDatabase sets connection pool settings for the database.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
}

// withCredentials replaces the user info of a postgres URL. A password needs a username.
func withCredentials(raw, username, password string) (string, error) {
	if username == "" {
		if password != "" {
			return "", fmt.Errorf("%w: database.password is set without database.username", ErrMissingCredentials)
		}
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: database url: %w", ErrInvalidConfig, err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("%w: database url %q has no scheme", ErrInvalidConfig, raw)
	}

	if password == "" {
		u.User = url.User(username)
	} else {
		u.User = url.UserPassword(username, password)
	}
	return u.String(), nil
}
