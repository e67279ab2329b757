package repository

import (
	"context"

	"plantstore/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//登録済みチェック用。どちらかが一致すれば返す
	FindByEmailOrPhone(ctx context.Context, email, phone string) ([]model.User, error)
	//有効期限内のリセットトークン（ハッシュ）で検索
	FindByResetTokenHash(ctx context.Context, tokenHash string) (*model.User, error)
	// ユーザー情報の更新
	Update(ctx context.Context, user *model.User) error
	//未認証の同一メール/電話のアカウントを消す（再登録用）
	DeleteUnverified(ctx context.Context, email, phone string) error
}
