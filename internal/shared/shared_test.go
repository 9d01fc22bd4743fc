package shared

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestLogger(t *testing.T) {
	t.Run("WithLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "run", "abc")
		logger.Info("hello")

		if !strings.Contains(buf.String(), "run=abc") {
			t.Errorf("expected run key in %q", buf.String())
		}
	})

	t.Run("ApplyLogLevel", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		if err := ApplyLogLevel(logger, "debug"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if logger.GetLevel() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", logger.GetLevel())
		}

		if err := ApplyLogLevel(logger, ""); err != nil {
			t.Errorf("empty level should be ignored: %v", err)
		}

		if err := ApplyLogLevel(logger, "chatty"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "carvy.log")
		logger, closer, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}
		logger.Info("written")
		closer.Close()

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "written") {
			t.Errorf("expected log line in file, got %q", data)
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected distinct ids")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("expected uuid, got %q", a)
	}
}

func TestDatabase(t *testing.T) {
	t.Run("DriverName", func(t *testing.T) {
		tc := map[string]string{"": "sqlite3", "sqlite": "sqlite3", "SQLite3": "sqlite3", "postgres": "pgx", "pgx": "pgx"}
		for in, want := range tc {
			got, err := DriverName(in)
			if err != nil || got != want {
				t.Errorf("DriverName(%q) = %q, %v; want %q", in, got, err, want)
			}
		}

		if _, err := DriverName("mysql"); !errors.Is(err, ErrUnsupportedDriver) {
			t.Errorf("expected ErrUnsupportedDriver, got %v", err)
		}
	})

	t.Run("withCredentials", func(t *testing.T) {
		got, err := withCredentials("postgres://db:5432/carvy?sslmode=disable", "dealer", "s3cret")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "postgres://dealer:s3cret@db:5432/carvy?sslmode=disable" {
			t.Errorf("unexpected dsn %q", got)
		}

		unchanged, err := withCredentials("postgres://u@db/carvy", "", "")
		if err != nil || unchanged != "postgres://u@db/carvy" {
			t.Errorf("expected url unchanged without username, got %q, %v", unchanged, err)
		}

		if _, err := withCredentials("db/carvy", "dealer", ""); err == nil {
			t.Error("expected error for url without scheme")
		}

		if _, err := withCredentials("postgres://db/carvy", "", "s3cret"); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials for password without username, got %v", err)
		}
	})

	t.Run("NewDatabase memory", func(t *testing.T) {
		db, err := NewDatabase(DatabaseConfig{Driver: "sqlite", URL: ":memory:"})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if db.Stats().MaxOpenConnections != 1 {
			t.Errorf("expected in-memory database pinned to one connection, got %d", db.Stats().MaxOpenConnections)
		}
	})
}
