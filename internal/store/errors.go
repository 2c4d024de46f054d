package store

import (
	"errors"
	"fmt"

	"github.com/joss/hbnb/internal/domain"
)

// Common store errors.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrCorrupt indicates the backing file is not a JSON object.
	ErrCorrupt = errors.New("backing file is corrupt")
)

// NotFoundError wraps ErrNotFound with entity details.
type NotFoundError struct {
	Kind domain.Kind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a typed not found error.
func NewNotFoundError(kind domain.Kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCorrupt checks if an error reports an unreadable backing file.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorrupt)
}
