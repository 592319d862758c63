package database

import (
	"errors"

	"snapgram/internal/core/apperr"

	"gorm.io/gorm"
)

// notFound turns gorm's missing-record error into the use case error kind.
func notFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.ErrNotFound, message)
	}
	return err
}
