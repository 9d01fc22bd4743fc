package mapper

import (
	"fmt"
	"strings"
	"time"
)

// Coercion selects how a field value is converted on its way to and from the store.
type Coercion int

const (
	Plain Coercion = iota
	Enum
	Timestamp
	Reference
	Float32
	Collection
)

func (c Coercion) String() string {
	switch c {
	case Plain:
		return "plain"
	case Enum:
		return "enum"
	case Timestamp:
		return "timestamp"
	case Reference:
		return "reference"
	case Float32:
		return "float32"
	case Collection:
		return "collection"
	default:
		return fmt.Sprintf("coercion(%d)", int(c))
	}
}

// Field describes one logical field of T: its camelCase name, its coercion and
// closures reading the field and assigning a raw column value to it.
// A nil set means the field is never materialized from a row.
type Field[T any] struct {
	Name     string
	Coercion Coercion
	get      func(*T) any
	set      func(e *T, raw any, layouts []string) error
}

// Int64Field describes an int64 field such as an id or foreign key.
func Int64Field[T any](name string, ptr func(*T) *int64) Field[T] {
	return Field[T]{
		Name:     name,
		Coercion: Plain,
		get:      func(e *T) any { return *ptr(e) },
		set: func(e *T, raw any, _ []string) error {
			v, err := asInt64(raw)
			if err != nil {
				return err
			}
			*ptr(e) = v
			return nil
		},
	}
}

// IntField describes an int field.
func IntField[T any](name string, ptr func(*T) *int) Field[T] {
	return Field[T]{
		Name:     name,
		Coercion: Plain,
		get:      func(e *T) any { return *ptr(e) },
		set: func(e *T, raw any, _ []string) error {
			v, err := asInt64(raw)
			if err != nil {
				return err
			}
			*ptr(e) = int(v)
			return nil
		},
	}
}

// StringField describes a string field.
func StringField[T any](name string, ptr func(*T) *string) Field[T] {
	return Field[T]{
		Name:     name,
		Coercion: Plain,
		get:      func(e *T) any { return *ptr(e) },
		set: func(e *T, raw any, _ []string) error {
			*ptr(e) = asString(raw)
			return nil
		},
	}
}

// Float32Field describes a float32 field; wider values read from the store are narrowed.
func Float32Field[T any](name string, ptr func(*T) *float32) Field[T] {
	return Field[T]{
		Name:     name,
		Coercion: Float32,
		get:      func(e *T) any { return *ptr(e) },
		set: func(e *T, raw any, _ []string) error {
			v, err := asFloat32(raw)
			if err != nil {
				return err
			}
			*ptr(e) = v
			return nil
		},
	}
}

// TimeField describes a [time.Time] field.
func TimeField[T any](name string, ptr func(*T) *time.Time) Field[T] {
	return Field[T]{
		Name:     name,
		Coercion: Timestamp,
		get:      func(e *T) any { return *ptr(e) },
		set: func(e *T, raw any, layouts []string) error {
			v, err := asTime(raw, layouts)
			if err != nil {
				return err
			}
			*ptr(e) = v
			return nil
		},
	}
}

// EnumField describes a string-backed enum field whose stored form is matched
// case-insensitively against values. An empty stored string reads back as the zero value.
func EnumField[T any, E ~string](name string, ptr func(*T) *E, values []E) Field[T] {
	return Field[T]{
		Name:     name,
		Coercion: Enum,
		get:      func(e *T) any { return string(*ptr(e)) },
		set: func(e *T, raw any, _ []string) error {
			s := strings.TrimSpace(asString(raw))
			if s == "" {
				*ptr(e) = ""
				return nil
			}
			for _, v := range values {
				if strings.EqualFold(string(v), s) {
					*ptr(e) = v
					return nil
				}
			}
			return fmt.Errorf("%q is not a valid %s", s, name)
		},
	}
}

// ReferenceField describes a pointer to another entity. The referenced entity's id is
// written; the field itself is never materialized and has to be hydrated by the caller.
func ReferenceField[T any, R any](name string, ptr func(*T) **R) Field[T] {
	return Field[T]{
		Name:     name,
		Coercion: Reference,
		get: func(e *T) any {
			ref := *ptr(e)
			if ref == nil {
				return nil
			}
			return ref
		},
	}
}

// CollectionField marks a slice-valued field that is never stored.
func CollectionField[T any](name string) Field[T] {
	return Field[T]{Name: name, Coercion: Collection}
}
