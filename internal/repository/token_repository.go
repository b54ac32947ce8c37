package repository

import (
	"context"
	"time"

	"cavea/internal/models"

	"gorm.io/gorm"
)

type TokenRepository interface {
	Create(ctx context.Context, token *models.AccessToken) error
	GetByHash(ctx context.Context, hash string) (*models.AccessToken, error)
	TouchLastUsed(ctx context.Context, id uint, at time.Time) error
	Delete(ctx context.Context, id uint) error
	DeleteByUser(ctx context.Context, userID uint) error
	DeleteIdleSince(ctx context.Context, cutoff time.Time) (int64, error)
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *models.AccessToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepository) GetByHash(ctx context.Context, hash string) (*models.AccessToken, error) {
	var token models.AccessToken
	err := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) TouchLastUsed(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.AccessToken{}).
		Where("id = ?", id).
		Update("last_used_at", at).
		Error
}

func (r *tokenRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.AccessToken{}, id).Error
}

func (r *tokenRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.AccessToken{}).
		Error
}

// DeleteIdleSince removes tokens whose last activity predates cutoff. Tokens
// never used at all are judged by creation time.
func (r *tokenRepository) DeleteIdleSince(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("COALESCE(last_used_at, created_at) < ?", cutoff).
		Delete(&models.AccessToken{})
	return res.RowsAffected, res.Error
}
