package mapper

import (
	"fmt"
	"strings"
)

// Statements synthesizes the CRUD statements of one table for a [Dialect].
// Table and id column names always come from the [TableBinding].
type Statements struct {
	binding       TableBinding
	updateColumns []string
	dialect       Dialect
}

// NewStatements builds the statements for binding; updateColumns are the columns
// written by UPDATE, without the id column.
func NewStatements(binding TableBinding, updateColumns []string, d Dialect) Statements {
	return Statements{binding: binding, updateColumns: updateColumns, dialect: d}
}

// Insert returns "INSERT INTO <table> (<c1>, ...) VALUES (<p1>, ...)".
func (s Statements) Insert(columns []string) string {
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = s.dialect.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.binding.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
}

// InsertReturning is [Statements.Insert] reading back the generated id.
func (s Statements) InsertReturning(columns []string) string {
	return s.Insert(columns) + " RETURNING " + s.binding.IDColumn
}

// Update returns "UPDATE <table> SET <c>=<p>, ... WHERE <id>=<p>".
func (s Statements) Update() string {
	sets := make([]string, len(s.updateColumns))
	for i, c := range s.updateColumns {
		sets[i] = c + " = " + s.dialect.Placeholder(i+1)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		s.binding.Table, strings.Join(sets, ", "), s.binding.IDColumn, s.dialect.Placeholder(len(sets)+1))
}

// UpdateArity is the number of parameters [Statements.Update] expects.
func (s Statements) UpdateArity() int {
	return len(s.updateColumns) + 1
}

// SelectByID returns "SELECT * FROM <table> WHERE <id>=<p>".
func (s Statements) SelectByID() string {
	return fmt.Sprintf("SELECT * FROM %s WHERE %s = %s", s.binding.Table, s.binding.IDColumn, s.dialect.Placeholder(1))
}

// SelectAll returns "SELECT * FROM <table>".
func (s Statements) SelectAll() string {
	return "SELECT * FROM " + s.binding.Table
}

// Delete returns "DELETE FROM <table> WHERE <id>=<p>".
func (s Statements) Delete() string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = %s", s.binding.Table, s.binding.IDColumn, s.dialect.Placeholder(1))
}

// SyncSequence returns the statement moving the id sequence past the highest stored id,
// or "" when the dialect has no sequences.
func (s Statements) SyncSequence() string {
	if !s.dialect.Sequences {
		return ""
	}
	return fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', '%s'), (SELECT MAX(%s) FROM %s))",
		s.binding.Table, s.binding.IDColumn, s.binding.IDColumn, s.binding.Table)
}
