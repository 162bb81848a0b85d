package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports which fields of a request violated their
// constraints. The whole operation fails; nothing is written.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// newValidationError translates validator failures into a
// ValidationError keyed by the offending JSON field names.
func newValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		// e.Field() is the JSON name, via the tag name func registered
		// by NewInventoryService.
		fields[e.Field()] = fmt.Sprintf("failed on the '%s' rule", e.Tag())
	}
	return &ValidationError{Fields: fields}
}
