package safety

import (
	"errors"
	"fmt"
)

// Configuration errors returned by the registration calls.
var (
	// ErrDuplicateName indicates a name already registered in the same registry.
	ErrDuplicateName = errors.New("safety: duplicate name")

	// ErrNotFound indicates a name absent from the registry.
	ErrNotFound = errors.New("safety: no component with that name")

	// ErrEmptyName indicates an empty registration name.
	ErrEmptyName = errors.New("safety: empty name")

	// ErrNilComponent indicates a nil generator or constraint.
	ErrNilComponent = errors.New("safety: nil component")
)

// ConfigError wraps a registry error with the registry kind and the name
// involved.
type ConfigError struct {
	Kind    string
	Name    string
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Name, e.Wrapped)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}
