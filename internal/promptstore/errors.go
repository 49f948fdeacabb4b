package promptstore

import (
	"errors"
	"fmt"
)

// Expected, recoverable conditions. Callers present these as user
// guidance, not crashes; check with errors.Is.
var (
	// ErrNotFound means no live prompt matched the given id or name.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName means a live prompt already has the requested name.
	ErrDuplicateName = errors.New("duplicate name")
)

// ValidationError reports malformed input to a CRUD operation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Reason)
}

func notFound(what, key string) error {
	return fmt.Errorf("%s %q: %w", what, key, ErrNotFound)
}

func duplicateName(name string) error {
	return fmt.Errorf("prompt named %q already exists: %w", name, ErrDuplicateName)
}
