package repository

import (
	"errors"

	repo "plantstore/internal/repository"

	"gorm.io/gorm"
)

// translate はドライバのエラーをrepositoryのエラーにそろえる
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repo.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repo.ErrDuplicate
	default:
		return err
	}
}
