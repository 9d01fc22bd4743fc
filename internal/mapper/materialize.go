package mapper

import (
	"database/sql"
	"strings"
)

// Materialize builds a T from a row keyed by column name.
//
// Columns missing from the row and NULL values leave the field at its zero value.
// Reference and collection fields are never populated here.
func (s *Schema[T]) Materialize(row map[string]any, layouts []string) (*T, error) {
	e := new(T)
	for _, c := range s.columns {
		if c.field.set == nil {
			continue
		}
		raw, ok := row[c.name]
		if !ok || raw == nil {
			continue
		}
		if err := c.field.set(e, raw, layouts); err != nil {
			return nil, &BindingError{Table: s.binding.Table, Column: c.name, Err: err}
		}
	}
	return e, nil
}

// scanRow reads the current row of rows into a map keyed by lower-cased column name.
func scanRow(rows *sql.Rows, columns []string) (map[string]any, error) {
	values := make([]any, len(columns))
	targets := make([]any, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}

	if err := rows.Scan(targets...); err != nil {
		return nil, err
	}

	row := make(map[string]any, len(columns))
	for i, name := range columns {
		row[strings.ToLower(name)] = values[i]
	}
	return row, nil
}
