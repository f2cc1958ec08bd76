package domain

import (
	"fmt"
	"strings"
)

// ValidateName checks that name can be used as a single path element.
// Template and dataset names map directly onto file and directory names,
// so separators and relative elements are rejected.
func ValidateName(kind, name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%s name is empty: %w", kind, ErrInvalidInput)
	case name == "." || name == "..":
		return fmt.Errorf("%s name %q is reserved: %w", kind, name, ErrInvalidInput)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%s name %q contains a path separator: %w", kind, name, ErrInvalidInput)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%s name contains a NUL byte: %w", kind, ErrInvalidInput)
	}
	return nil
}
