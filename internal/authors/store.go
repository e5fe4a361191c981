package authors

import (
	"context"
	"errors"

	"github.com/MarcoPoloResearchLab/authors/internal/identifier"
	"gorm.io/gorm"
)

var errMissingHandle = errors.New("storage handle is required")

const (
	insertStatement = `INSERT INTO author (id, avatar_url, activation_token, email, password_hash, username)
VALUES (@id, @avatar_url, @activation_token, @email, @password_hash, @username)`
	updateStatement = `UPDATE author SET avatar_url = @avatar_url, activation_token = @activation_token,
email = @email, password_hash = @password_hash, username = @username WHERE id = @id`
	deleteStatement     = `DELETE FROM author WHERE id = @id`
	selectByIDStatement = `SELECT id, avatar_url, activation_token, email, password_hash, username FROM author WHERE id = @id`
	selectAllStatement  = `SELECT id, avatar_url, activation_token, email, password_hash, username FROM author`
)

// Record is the row layout of the author table.
type Record struct {
	ID              []byte `gorm:"column:id;primaryKey;size:16;not null"`
	AvatarURL       string `gorm:"column:avatar_url;size:140;not null"`
	ActivationToken string `gorm:"column:activation_token;size:32;not null"`
	Email           string `gorm:"column:email;size:140;not null"`
	PasswordHash    string `gorm:"column:password_hash;size:97;not null"`
	Username        string `gorm:"column:username;size:32;not null"`
}

// TableName provides the explicit table binding for GORM.
func (Record) TableName() string {
	return "author"
}

// fromRecord reconstructs an Author through the same validation as New.
func fromRecord(record Record) (*Author, error) {
	return New(record.ID, record.AvatarURL, record.ActivationToken, record.Email, record.PasswordHash, record.Username)
}

func (a *Author) parameters() map[string]any {
	return map[string]any{
		"id":               a.id[:],
		"avatar_url":       a.avatarURL,
		"activation_token": a.activationToken,
		"email":            a.email,
		"password_hash":    a.passwordHash,
		"username":         a.username,
	}
}

// Insert writes the author as a new row. Duplicate identifiers and connection
// failures surface as a PersistenceError; there is no retry.
func (a *Author) Insert(ctx context.Context, handle *gorm.DB) error {
	if handle == nil {
		return newPersistenceError(opInsert, "missing_handle", errMissingHandle)
	}
	if err := handle.WithContext(ctx).Exec(insertStatement, a.parameters()).Error; err != nil {
		return newPersistenceError(opInsert, "exec_failed", err)
	}
	return nil
}

// Update rewrites the mutable columns of the row matching the author id.
func (a *Author) Update(ctx context.Context, handle *gorm.DB) error {
	if handle == nil {
		return newPersistenceError(opUpdate, "missing_handle", errMissingHandle)
	}
	if err := handle.WithContext(ctx).Exec(updateStatement, a.parameters()).Error; err != nil {
		return newPersistenceError(opUpdate, "exec_failed", err)
	}
	return nil
}

// Delete removes the row matching the author id.
func (a *Author) Delete(ctx context.Context, handle *gorm.DB) error {
	if handle == nil {
		return newPersistenceError(opDelete, "missing_handle", errMissingHandle)
	}
	parameters := map[string]any{"id": a.id[:]}
	if err := handle.WithContext(ctx).Exec(deleteStatement, parameters).Error; err != nil {
		return newPersistenceError(opDelete, "exec_failed", err)
	}
	return nil
}

// FindByID loads one author. A missing row is reported as found == false with a nil error.
// Identifier validation failures are returned as a PersistenceError that still matches
// identifier.ErrInvalidFormat or identifier.ErrInvalidType.
func FindByID(ctx context.Context, handle *gorm.DB, rawID any) (*Author, bool, error) {
	if handle == nil {
		return nil, false, newPersistenceError(opFindByID, "missing_handle", errMissingHandle)
	}
	authorID, err := identifier.Validate(rawID)
	if err != nil {
		return nil, false, newPersistenceError(opFindByID, "invalid_id", err)
	}

	var records []Record
	if err := handle.WithContext(ctx).Raw(selectByIDStatement, map[string]any{"id": authorID[:]}).Scan(&records).Error; err != nil {
		return nil, false, newPersistenceError(opFindByID, "query_failed", err)
	}
	if len(records) == 0 {
		return nil, false, nil
	}

	author, err := fromRecord(records[0])
	if err != nil {
		return nil, false, newPersistenceError(opFindByID, "row_invalid", err)
	}
	return author, true, nil
}

// FindAll loads every author in store order. A row that fails validation fails the whole call.
func FindAll(ctx context.Context, handle *gorm.DB) ([]*Author, error) {
	if handle == nil {
		return nil, newPersistenceError(opFindAll, "missing_handle", errMissingHandle)
	}

	var records []Record
	if err := handle.WithContext(ctx).Raw(selectAllStatement).Scan(&records).Error; err != nil {
		return nil, newPersistenceError(opFindAll, "query_failed", err)
	}

	authors := make([]*Author, 0, len(records))
	for _, record := range records {
		author, err := fromRecord(record)
		if err != nil {
			return nil, newPersistenceError(opFindAll, "row_invalid", err)
		}
		authors = append(authors, author)
	}
	return authors, nil
}
