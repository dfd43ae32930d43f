package implementation

import (
	"errors"

	"notekeeper-be/internal/repository/contract"
	"notekeeper-be/internal/repository/specification"

	"gorm.io/gorm"
)

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// translateWriteError relies on gorm.Config.TranslateError being enabled.
func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return contract.ErrDuplicateKey
	}
	return err
}
