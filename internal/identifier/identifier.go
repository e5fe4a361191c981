package identifier

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	hyphenatedLength = 36
	compactLength    = 32
)

var (
	// ErrInvalidFormat indicates textual input that is not a canonical identifier.
	ErrInvalidFormat = errors.New("identifier: invalid format")
	// ErrInvalidType indicates input that is neither text, 16 raw bytes, nor a uuid.UUID.
	ErrInvalidType = errors.New("identifier: invalid type")
)

// Validate normalizes raw input into a uuid.UUID.
//
// Accepted inputs are a 36-character hyphenated string, a 32-digit hex string,
// a 16-byte slice or array, and an existing uuid.UUID.
func Validate(raw any) (uuid.UUID, error) {
	switch value := raw.(type) {
	case uuid.UUID:
		return value, nil
	case *uuid.UUID:
		if value == nil {
			return uuid.Nil, fmt.Errorf("%w: nil *uuid.UUID", ErrInvalidType)
		}
		return *value, nil
	case string:
		return parseText(value)
	case []byte:
		if len(value) != len(uuid.UUID{}) {
			return uuid.Nil, fmt.Errorf("%w: %d bytes, want %d", ErrInvalidType, len(value), len(uuid.UUID{}))
		}
		return uuid.FromBytes(value)
	case [16]byte:
		return uuid.UUID(value), nil
	default:
		return uuid.Nil, fmt.Errorf("%w: %T", ErrInvalidType, raw)
	}
}

func parseText(value string) (uuid.UUID, error) {
	if len(value) != hyphenatedLength && len(value) != compactLength {
		return uuid.Nil, fmt.Errorf("%w: %q has %d characters", ErrInvalidFormat, value, len(value))
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return parsed, nil
}

// Provider issues new identifiers.
type Provider interface {
	NewID() (uuid.UUID, error)
}

type v7Provider struct{}

// NewV7Provider constructs a Provider that issues UUIDv7 identifiers.
func NewV7Provider() Provider {
	return &v7Provider{}
}

func (p *v7Provider) NewID() (uuid.UUID, error) {
	return uuid.NewV7()
}
