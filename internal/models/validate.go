package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/desertthunder/carvy/internal/shared"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags of an entity and flattens any failures into a single
// error wrapping [shared.ErrInvalidInput], one "field: tag" entry per failing field.
func Validate(entity any) error {
	switch err := validate.Struct(entity).(type) {
	case nil:
		return nil
	case *validator.InvalidValidationError:
		return fmt.Errorf("cannot validate %T: %w", entity, err)
	case validator.ValidationErrors:
		fieldErrs := make(map[string][]string)
		for _, ferr := range err {
			fieldErrs[ferr.Field()] = append(fieldErrs[ferr.Field()], describe(ferr))
		}
		return fmt.Errorf("%w: %s", shared.ErrInvalidInput, joinFieldErrors(fieldErrs))
	default:
		return errors.Join(shared.ErrInvalidInput, err)
	}
}

func describe(ferr validator.FieldError) string {
	if ferr.Param() == "" {
		return ferr.Tag()
	}
	return ferr.Tag() + "=" + ferr.Param()
}

func joinFieldErrors(fieldErrs map[string][]string) string {
	names := make([]string, 0, len(fieldErrs))
	for name := range fieldErrs {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(fieldErrs[name], ", "))
	}
	return strings.Join(parts, "; ")
}
