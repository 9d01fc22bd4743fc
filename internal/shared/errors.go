package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrUnsupportedDriver  = fmt.Errorf("unsupported database driver")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Storage errors
	ErrNotFound     = fmt.Errorf("entity not found")
	ErrDuplicateID  = fmt.Errorf("entity id already exists")
	ErrCorruptStore = fmt.Errorf("malformed record in store")

	// Dealership rules
	ErrCarUnavailable = fmt.Errorf("car is not available")
	ErrInvalidLeasing = fmt.Errorf("invalid leasing terms")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
