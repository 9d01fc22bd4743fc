package mapper

import (
	"fmt"
	"strings"
)

// column pairs a stored field with its column name.
type column[T any] struct {
	name  string
	field Field[T]
}

// Schema is the table layout derived from the field descriptors of one entity kind.
type Schema[T any] struct {
	kind    Kind
	binding TableBinding
	fields  []Field[T]
	columns []column[T]
	id      column[T]
}

// NewSchema derives the layout of kind from fields, in declaration order.
//
// It fails with a [*SchemaError] when kind has no binding in tables, when no field is
// eligible to be a column, or when none of the columns is the bound id column.
func NewSchema[T any](kind Kind, tables TableMap, fields ...Field[T]) (*Schema[T], error) {
	binding, err := tables.Lookup(kind)
	if err != nil {
		return nil, err
	}

	s := &Schema[T]{kind: kind, binding: binding, fields: fields}
	seen := make(map[string]bool)
	for _, f := range fields {
		if !isColumn(f) {
			continue
		}
		name := ToSnakeCase(f.Name)
		if seen[name] {
			continue
		}
		seen[name] = true
		s.columns = append(s.columns, column[T]{name: name, field: f})
	}

	if len(s.columns) == 0 {
		return nil, &SchemaError{Kind: kind, Reason: "no persistable fields"}
	}

	found := false
	for _, c := range s.columns {
		if c.name != binding.IDColumn {
			continue
		}
		if _, ok := c.field.get(new(T)).(int64); !ok || c.field.set == nil {
			return nil, &SchemaError{Kind: kind, Reason: fmt.Sprintf("id column %s is not an int64 field", c.name)}
		}
		s.id = c
		found = true
	}
	if !found {
		return nil, &SchemaError{Kind: kind, Reason: fmt.Sprintf("id column %s has no field", binding.IDColumn)}
	}
	return s, nil
}

// isColumn excludes collections and the car/client reference roles, whose scalar
// carId/clientId counterparts carry the stored value.
func isColumn[T any](f Field[T]) bool {
	if f.Coercion == Collection {
		return false
	}
	return !isReferenceRole(f.Name)
}

func isReferenceRole(name string) bool {
	return name == "car" || name == "client"
}

// ToSnakeCase inserts an underscore before every uppercase letter after the first
// character and lower-cases the result: "carId" becomes "car_id".
func ToSnakeCase(s string) string {
	var b strings.Builder
	for i, ch := range s {
		if i > 0 && ch >= 'A' && ch <= 'Z' {
			b.WriteRune('_')
		}
		b.WriteRune(ch)
	}
	return strings.ToLower(b.String())
}

// Kind returns the entity kind the schema was built for.
func (s *Schema[T]) Kind() Kind { return s.kind }

// Binding returns the table and id column of the schema.
func (s *Schema[T]) Binding() TableBinding { return s.binding }

// Columns returns every column name in field declaration order, id included.
func (s *Schema[T]) Columns() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.name
	}
	return names
}

// UpdateColumns returns the columns written by an UPDATE: every column except the id.
func (s *Schema[T]) UpdateColumns() []string {
	names := make([]string, 0, len(s.columns)-1)
	for _, c := range s.columns {
		if c.name != s.binding.IDColumn {
			names = append(names, c.name)
		}
	}
	return names
}

// ID returns the id of e.
func (s *Schema[T]) ID(e *T) int64 {
	id, _ := s.id.field.get(e).(int64)
	return id
}

// SetID assigns id to e.
func (s *Schema[T]) SetID(e *T, id int64) error {
	return s.id.field.set(e, id, nil)
}

// InsertArgs returns the columns and bound values of an INSERT for e. The id column
// is only included when withID is set.
func (s *Schema[T]) InsertArgs(e *T, withID bool) ([]string, []any, error) {
	var cols []column[T]
	for _, c := range s.columns {
		if c.name == s.binding.IDColumn && !withID {
			continue
		}
		cols = append(cols, c)
	}

	args, err := s.bind(e, cols)
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names, args, nil
}

// UpdateArgs returns the values of [Schema.UpdateColumns] followed by the id of e.
func (s *Schema[T]) UpdateArgs(e *T) ([]any, error) {
	var cols []column[T]
	for _, c := range s.columns {
		if c.name != s.binding.IDColumn {
			cols = append(cols, c)
		}
	}
	cols = append(cols, s.id)
	return s.bind(e, cols)
}

// bind produces one coerced value per column, in column order.
func (s *Schema[T]) bind(e *T, cols []column[T]) ([]any, error) {
	args := make([]any, 0, len(cols))
	for _, c := range cols {
		if isReferenceRole(c.field.Name) {
			continue
		}
		v, err := toStorage(c.field.Coercion, c.field.get(e))
		if err != nil {
			return nil, &BindingError{Table: s.binding.Table, Column: c.name, Err: err}
		}
		args = append(args, v)
	}
	if len(args) != len(cols) {
		return nil, &BindingError{
			Table: s.binding.Table,
			Err:   fmt.Errorf("bound %d values for %d columns", len(args), len(cols)),
		}
	}
	return args, nil
}
