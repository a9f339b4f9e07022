package repo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/resale_market/internal/models"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("record already exists")
	ErrTokenRevoked = errors.New("token expired or revoked")
)

type GormRepo struct {
	DB *gorm.DB
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
