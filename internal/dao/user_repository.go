package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/model"

	"github.com/jinzhu/copier"
)

// userRepository 实现 domain.UserRepository 接口
type userRepository struct {
	dao *Dao
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(dao *Dao) domain.UserRepository {
	return &userRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *userRepository) toDomain(m *model.User) *domain.User {
	if m == nil {
		return nil
	}
	u := &domain.User{}
	_ = copier.Copy(u, m)
	return u
}

// toModel 将领域模型转换为数据库模型
func (r *userRepository) toModel(user *domain.User) *model.User {
	m := &model.User{}
	_ = copier.Copy(m, user)
	return m
}

func (r *userRepository) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var m model.User
	if err := r.dao.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetByID 根据 ID 获取用户，不存在时返回 gorm.ErrRecordNotFound
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail 根据邮箱获取用户
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

// GetByConfirmToken 根据邮箱确认 Token 获取用户
func (r *userRepository) GetByConfirmToken(ctx context.Context, token string) (*domain.User, error) {
	return r.first(ctx, "confirm_token = ?", token)
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m := r.toModel(user)
	if err := r.dao.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// Update 保存用户全部字段
func (r *userRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	m := r.toModel(user)
	if err := r.dao.WithContext(ctx).Save(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// ClearConfirmTokens 清除过期的邮箱确认 Token，用户可重新申请确认邮件
func (r *userRepository) ClearConfirmTokens(ctx context.Context, sentBefore time.Time) (int64, error) {
	res := r.dao.WithContext(ctx).Model(&model.User{}).
		Where("confirm_token <> ? AND confirm_sent_at < ?", "", sentBefore).
		Update("confirm_token", "")
	return res.RowsAffected, res.Error
}

// 确保 userRepository 实现了 domain.UserRepository 接口
var _ domain.UserRepository = (*userRepository)(nil)
