package persistence

import (
	"errors"

	"github.com/quamilek/ralph-pricing/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps gorm.ErrRecordNotFound to shared.ErrNotFound
func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
