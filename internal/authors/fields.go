package authors

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Storage budgets in bytes.
const (
	MaxAvatarURLLength       = 140
	MaxActivationTokenLength = 32
	MaxEmailLength           = 140
	MaxPasswordHashLength    = 97
	MaxUsernameLength        = 32
)

const (
	fieldID              = "id"
	fieldAvatarURL       = "avatar url"
	fieldActivationToken = "activation token"
	fieldEmail           = "email"
	fieldPasswordHash    = "password hash"
	fieldUsername        = "username"
)

// markupPattern matches a tag, or an unterminated tag through the end of input.
// A '<' followed by whitespace is literal text.
var markupPattern = regexp.MustCompile(`<(?:[^\s>][^>]*)?(?:>|$)`)

// sanitizeText drops invalid UTF-8, trims the value, strips markup and control
// characters, and trims again. Quotes are kept verbatim.
func sanitizeText(raw string) string {
	value := strings.TrimSpace(strings.ToValidUTF8(raw, ""))
	value = markupPattern.ReplaceAllString(value, "")
	value = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
	return strings.TrimSpace(value)
}

// validateText applies the shared text field contract with the provided byte budget.
func validateText(field, raw string, maxLength int) (string, error) {
	value := sanitizeText(raw)
	if err := validation.Validate(value, validation.Required); err != nil {
		return "", &FieldError{Field: field, Err: fmt.Errorf("%w: %w", ErrEmptyOrUnsafeValue, err)}
	}
	if err := validation.Validate(value, validation.Length(0, maxLength)); err != nil {
		return "", &FieldError{Field: field, Err: fmt.Errorf("%w: %d bytes: %w", ErrValueTooLong, len(value), err)}
	}
	return value, nil
}

func validateAvatarURL(raw string) (string, error) {
	return validateText(fieldAvatarURL, raw, MaxAvatarURLLength)
}

func validateActivationToken(raw string) (string, error) {
	return validateText(fieldActivationToken, raw, MaxActivationTokenLength)
}

// validateEmail enforces presence and length only.
func validateEmail(raw string) (string, error) {
	return validateText(fieldEmail, raw, MaxEmailLength)
}

func validatePasswordHash(raw string) (string, error) {
	return validateText(fieldPasswordHash, raw, MaxPasswordHashLength)
}

func validateUsername(raw string) (string, error) {
	return validateText(fieldUsername, raw, MaxUsernameLength)
}
