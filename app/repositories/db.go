package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// conn picks the transaction when a caller runs inside one.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
