package mapper

import (
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/carvy/internal/shared"
	"github.com/mattn/go-sqlite3"
)

// Dialect captures the differences between the supported SQL backends.
type Dialect struct {
	Name string
	// Driver is the database/sql driver name registered for the dialect.
	Driver string
	// Returning reports whether generated ids are read back with RETURNING
	// instead of [database/sql.Result.LastInsertId].
	Returning bool
	// TimeLayouts are tried in order when a timestamp column comes back as text.
	TimeLayouts []string
	// Sequences reports whether ids come from a sequence that an explicit-id insert does not advance.
	Sequences bool
	numbered  bool
}

// Placeholder returns the bind variable for the n-th (1-based) parameter.
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

var (
	SQLite = Dialect{
		Name:        "sqlite",
		Driver:      "sqlite3",
		TimeLayouts: sqlite3.SQLiteTimestampFormats,
	}

	Postgres = Dialect{
		Name:      "postgres",
		Driver:    "pgx",
		Returning: true,
		Sequences: true,
		TimeLayouts: []string{
			time.RFC3339Nano,
			"2006-01-02 15:04:05.999999999-07",
			"2006-01-02 15:04:05.999999999",
			time.DateTime,
		},
		numbered: true,
	}
)

// DialectFor resolves a configured driver name ("sqlite", "sqlite3", "postgres", "pgx").
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("%w: %s", shared.ErrUnsupportedDriver, driver)
	}
}
