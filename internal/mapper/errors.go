package mapper

import "fmt"

// SchemaError reports an entity kind the mapper cannot derive a table layout for.
type SchemaError struct {
	Kind   Kind
	Reason string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error for %s: %s", e.Kind, e.Reason)
}

// BindingError reports a value that could not be converted between its field and its column,
// or a parameter list that does not line up with the statement it is bound to.
type BindingError struct {
	Table  string
	Column string
	Err    error
}

// Error implements the error interface.
func (e *BindingError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("binding error on %s: %v", e.Table, e.Err)
	}
	return fmt.Sprintf("binding error on %s.%s: %v", e.Table, e.Column, e.Err)
}

// Unwrap returns the underlying error.
func (e *BindingError) Unwrap() error {
	return e.Err
}

// StorageError wraps a failure reported by the database while executing op against table.
type StorageError struct {
	Op    string
	Table string
	Err   error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Table, e.Err)
}

// Unwrap returns the underlying driver error.
func (e *StorageError) Unwrap() error {
	return e.Err
}
