package authors

import (
	"context"
	"errors"
	"fmt"

	"github.com/MarcoPoloResearchLab/authors/internal/identifier"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates that no author matches the requested identifier.
	ErrNotFound = errors.New("authors: author not found")

	errMissingDatabase       = errors.New("database handle is required")
	errMissingIDProvider     = errors.New("id provider is required")
	errMissingPasswordHasher = errors.New("password hasher is required")
	errMissingTokenSource    = errors.New("activation token source is required")
	noOpLogger               = zap.NewNop()
)

const (
	opServiceNew = "authors.service.new"
	opRegister   = "authors.register"
	opGet        = "authors.get"
	opList       = "authors.list"
	opChange     = "authors.change"
	opRemove     = "authors.remove"
)

// PasswordHasher turns a plaintext password into a storable hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// ServiceConfig describes the dependencies of the author service.
type ServiceConfig struct {
	Database        *gorm.DB
	IDProvider      identifier.Provider
	PasswordHasher  PasswordHasher
	ActivationToken func() (string, error)
	Logger          *zap.Logger
}

// Service registers and maintains authors on top of the entity persistence operations.
type Service struct {
	db              *gorm.DB
	idProvider      identifier.Provider
	hasher          PasswordHasher
	activationToken func() (string, error)
	logger          *zap.Logger
}

// NewService validates cfg and returns a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("%s: %w", opServiceNew, errMissingDatabase)
	}
	if cfg.IDProvider == nil {
		return nil, fmt.Errorf("%s: %w", opServiceNew, errMissingIDProvider)
	}
	if cfg.PasswordHasher == nil {
		return nil, fmt.Errorf("%s: %w", opServiceNew, errMissingPasswordHasher)
	}
	if cfg.ActivationToken == nil {
		return nil, fmt.Errorf("%s: %w", opServiceNew, errMissingTokenSource)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Service{
		db:              cfg.Database,
		idProvider:      cfg.IDProvider,
		hasher:          cfg.PasswordHasher,
		activationToken: cfg.ActivationToken,
		logger:          logger,
	}, nil
}

// Registration carries the caller-supplied fields for a new author.
type Registration struct {
	AvatarURL string
	Email     string
	Password  string
	Username  string
}

// Register issues an identifier and activation token, hashes the password, and inserts the author.
func (s *Service) Register(ctx context.Context, registration Registration) (*Author, error) {
	authorID, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opRegister, "id_generation_failed", err)
		return nil, fmt.Errorf("%s: %w", opRegister, err)
	}
	token, err := s.activationToken()
	if err != nil {
		s.logError(opRegister, "token_generation_failed", err)
		return nil, fmt.Errorf("%s: %w", opRegister, err)
	}
	passwordHash, err := s.hasher.Hash(registration.Password)
	if err != nil {
		s.logError(opRegister, "hash_failed", err, zap.String("author_id", authorID.String()))
		return nil, fmt.Errorf("%s: %w", opRegister, err)
	}

	author, err := New(authorID, registration.AvatarURL, token, registration.Email, passwordHash, registration.Username)
	if err != nil {
		return nil, err
	}
	if err := author.Insert(ctx, s.db); err != nil {
		s.logError(opRegister, "insert_failed", err, zap.String("author_id", authorID.String()))
		return nil, err
	}

	s.logger.Info("author registered", zap.String("author_id", authorID.String()))
	return author, nil
}

// Get loads one author; found is false when no row matches.
func (s *Service) Get(ctx context.Context, rawID any) (*Author, bool, error) {
	author, found, err := FindByID(ctx, s.db, rawID)
	if err != nil {
		s.logError(opGet, "find_failed", err)
		return nil, false, err
	}
	return author, found, nil
}

// List loads every author.
func (s *Service) List(ctx context.Context) ([]*Author, error) {
	authors, err := FindAll(ctx, s.db)
	if err != nil {
		s.logError(opList, "find_failed", err)
		return nil, err
	}
	return authors, nil
}

// Changes lists optional replacements; nil fields are left untouched.
// Password is plaintext and is hashed before it is stored.
type Changes struct {
	AvatarURL       *string
	ActivationToken *string
	Email           *string
	Password        *string
	Username        *string
}

// Change applies changes to an existing author inside one transaction.
// No row is written when any change fails validation.
func (s *Service) Change(ctx context.Context, rawID any, changes Changes) (*Author, error) {
	var updated *Author
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		author, found, err := FindByID(ctx, tx, rawID)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		if err := s.applyChanges(author, changes); err != nil {
			return err
		}
		if err := author.Update(ctx, tx); err != nil {
			return err
		}
		updated = author
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, ErrPersistence) {
			s.logError(opChange, "update_failed", txErr)
		}
		return nil, txErr
	}

	s.logger.Info("author updated", zap.String("author_id", updated.ID().String()))
	return updated, nil
}

func (s *Service) applyChanges(author *Author, changes Changes) error {
	if changes.AvatarURL != nil {
		if err := author.SetAvatarURL(*changes.AvatarURL); err != nil {
			return err
		}
	}
	if changes.ActivationToken != nil {
		if err := author.SetActivationToken(*changes.ActivationToken); err != nil {
			return err
		}
	}
	if changes.Email != nil {
		if err := author.SetEmail(*changes.Email); err != nil {
			return err
		}
	}
	if changes.Password != nil {
		passwordHash, err := s.hasher.Hash(*changes.Password)
		if err != nil {
			s.logError(opChange, "hash_failed", err, zap.String("author_id", author.ID().String()))
			return fmt.Errorf("%s: %w", opChange, err)
		}
		if err := author.SetPasswordHash(passwordHash); err != nil {
			return err
		}
	}
	if changes.Username != nil {
		if err := author.SetUsername(*changes.Username); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes an existing author.
func (s *Service) Remove(ctx context.Context, rawID any) error {
	var removed *Author
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		author, found, err := FindByID(ctx, tx, rawID)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		if err := author.Delete(ctx, tx); err != nil {
			return err
		}
		removed = author
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, ErrPersistence) {
			s.logError(opRemove, "delete_failed", txErr)
		}
		return txErr
	}

	s.logger.Info("author removed", zap.String("author_id", removed.ID().String()))
	return nil
}

func (s *Service) loggerOrDefault() *zap.Logger {
	if s == nil || s.logger == nil {
		return noOpLogger
	}
	return s.logger
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.loggerOrDefault().Error("authors service error", attrs...)
}
