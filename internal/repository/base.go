// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"

	"scribe/internal/models"

	"gorm.io/gorm"
)

// newestFirst is the default ordering of posts and comments.
const newestFirst = "created_at DESC, id ASC"

// translate maps GORM errors onto the application error taxonomy.
func translate(err error, resource string, id any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.NewConstraintError(resource+" already exists", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return models.NewConstraintError(resource+" references a missing record", err)
	default:
		return err
	}
}
