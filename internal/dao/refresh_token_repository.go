package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/model"

	"github.com/jinzhu/copier"
)

// refreshTokenRepository 实现 domain.RefreshTokenRepository 接口
type refreshTokenRepository struct {
	dao *Dao
}

// NewRefreshTokenRepository 创建 RefreshTokenRepository 实例
func NewRefreshTokenRepository(dao *Dao) domain.RefreshTokenRepository {
	return &refreshTokenRepository{dao: dao}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m := &model.RefreshToken{}
	_ = copier.Copy(m, token)
	return r.dao.WithContext(ctx).Create(m).Error
}

// GetByToken 不存在时返回 gorm.ErrRecordNotFound
func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var m model.RefreshToken
	if err := r.dao.WithContext(ctx).Where("token = ?", token).First(&m).Error; err != nil {
		return nil, err
	}
	out := &domain.RefreshToken{}
	_ = copier.Copy(out, &m)
	return out, nil
}

// Revoke 只作废尚未作废的 token，并发轮换同一 token 时只有一个调用返回 true
func (r *refreshTokenRepository) Revoke(ctx context.Context, token string, at time.Time) (bool, error) {
	res := r.dao.WithContext(ctx).Model(&model.RefreshToken{}).
		Where("token = ? AND revoked = ?", token, false).
		Updates(map[string]any{"revoked": true, "revoked_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *refreshTokenRepository) RevokeAllByUser(ctx context.Context, userID string, at time.Time) error {
	return r.dao.WithContext(ctx).Model(&model.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Updates(map[string]any{"revoked": true, "revoked_at": at}).Error
}

// DeleteStale 删除已过期的 token，以及作废时间早于 revokedBefore 的 token
func (r *refreshTokenRepository) DeleteStale(ctx context.Context, expiredBefore, revokedBefore time.Time) (int64, error) {
	res := r.dao.WithContext(ctx).
		Where("expires_at < ?", expiredBefore).
		Or("revoked = ? AND revoked_at < ?", true, revokedBefore).
		Delete(&model.RefreshToken{})
	return res.RowsAffected, res.Error
}

var _ domain.RefreshTokenRepository = (*refreshTokenRepository)(nil)
