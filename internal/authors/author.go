package authors

import (
	"github.com/MarcoPoloResearchLab/authors/internal/identifier"
	"github.com/google/uuid"
)

// Author is a validated account record. Every field is reachable only through
// New or a Set method, so a constructed Author always satisfies all field rules.
type Author struct {
	id              uuid.UUID
	avatarURL       string
	activationToken string
	email           string
	passwordHash    string
	username        string
}

// New validates raw input and returns an Author. The first invalid field aborts construction.
// rawID accepts anything identifier.Validate accepts.
func New(rawID any, avatarURL, activationToken, email, passwordHash, username string) (*Author, error) {
	author := &Author{}
	if err := author.SetID(rawID); err != nil {
		return nil, err
	}
	if err := author.SetAvatarURL(avatarURL); err != nil {
		return nil, err
	}
	if err := author.SetActivationToken(activationToken); err != nil {
		return nil, err
	}
	if err := author.SetEmail(email); err != nil {
		return nil, err
	}
	if err := author.SetPasswordHash(passwordHash); err != nil {
		return nil, err
	}
	if err := author.SetUsername(username); err != nil {
		return nil, err
	}
	return author, nil
}

// ID returns the author identifier.
func (a *Author) ID() uuid.UUID {
	return a.id
}

// SetID validates and stores the author identifier.
func (a *Author) SetID(rawID any) error {
	value, err := identifier.Validate(rawID)
	if err != nil {
		return &FieldError{Field: fieldID, Err: err}
	}
	a.id = value
	return nil
}

func (a *Author) AvatarURL() string {
	return a.avatarURL
}

func (a *Author) SetAvatarURL(raw string) error {
	value, err := validateAvatarURL(raw)
	if err != nil {
		return err
	}
	a.avatarURL = value
	return nil
}

func (a *Author) ActivationToken() string {
	return a.activationToken
}

func (a *Author) SetActivationToken(raw string) error {
	value, err := validateActivationToken(raw)
	if err != nil {
		return err
	}
	a.activationToken = value
	return nil
}

func (a *Author) Email() string {
	return a.email
}

// SetEmail stores the email address. Only presence and length are checked.
func (a *Author) SetEmail(raw string) error {
	value, err := validateEmail(raw)
	if err != nil {
		return err
	}
	a.email = value
	return nil
}

func (a *Author) PasswordHash() string {
	return a.passwordHash
}

func (a *Author) SetPasswordHash(raw string) error {
	value, err := validatePasswordHash(raw)
	if err != nil {
		return err
	}
	a.passwordHash = value
	return nil
}

func (a *Author) Username() string {
	return a.username
}

func (a *Author) SetUsername(raw string) error {
	value, err := validateUsername(raw)
	if err != nil {
		return err
	}
	a.username = value
	return nil
}
