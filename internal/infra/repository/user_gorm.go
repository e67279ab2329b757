package repository

import (
	"context"
	"errors"
	"time"

	"plantstore/internal/domain/model"
	domainrepo "plantstore/internal/repository"

	"gorm.io/gorm"
)

type userGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewUserGormRepository(db *gorm.DB) domainrepo.UserRepository {
	return &userGormRepository{db: db}
}

// Create はユーザーを新規作成（メール重複はErrDuplicate）
func (r *userGormRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err)
	}
	return nil
}

// emailでユーザーを1件取得。無ければErrNotFound
func (r *userGormRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", email)
}

// IDでユーザーを1件取得
func (r *userGormRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userGormRepository) FindByEmailOrPhone(ctx context.Context, email, phone string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("email = ? OR phone = ?", email, phone).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// 期限切れのトークンは見つからない扱い
func (r *userGormRepository) FindByResetTokenHash(ctx context.Context, tokenHash string) (*model.User, error) {
	return r.first(ctx, "reset_password_token_hash = ? AND reset_password_expire > ?", tokenHash, time.Now())
}

// ユーザーを更新。
func (r *userGormRepository) Update(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *userGormRepository) DeleteUnverified(ctx context.Context, email, phone string) error {
	return r.db.WithContext(ctx).
		Where("account_verified = ? AND (email = ? OR phone = ?)", false, email, phone).
		Delete(&model.User{}).Error
}

func (r *userGormRepository) first(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).
		Where(query, args...).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainrepo.ErrNotFound
		}
		return nil, err
	}

	return &u, nil
}
