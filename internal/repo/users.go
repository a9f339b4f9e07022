package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/resale_market/internal/models"
)

func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("email = ?", u.Email).FirstOrCreate(u)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrDuplicate
	}
	return nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *GormRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

func (r *GormRepo) SetUserRole(ctx context.Context, email string, role models.Role) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) SaveRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func refreshUsable(db *gorm.DB, jti string) error {
	var t models.RefreshToken
	if err := db.Where("jti = ?", jti).First(&t).Error; err != nil {
		return notFound(err)
	}
	if t.Revoked || t.ExpiresAt < time.Now().Unix() {
		return ErrTokenRevoked
	}
	return nil
}

// RotateRefreshToken revokes oldJTI and stores next. It fails with
// ErrTokenRevoked when the old token was already used or has expired.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI string, next *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := refreshUsable(tx, oldJTI); err != nil {
			return err
		}
		res := tx.Model(&models.RefreshToken{}).
			Where("jti = ? AND revoked = ?", oldJTI, false).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTokenRevoked
		}
		return tx.Create(next).Error
	})
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	return r.DB.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}
