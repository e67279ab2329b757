package repository

import (
	"context"

	"plantstore/internal/domain/model"
)

type CartRepository interface {
	//明細込みで取得。無ければErrNotFound
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)

	// Save は (id, version) が一致したときだけ明細と合計を書き換え、versionを+1する。
	// 一致しなければErrConflict。
	Save(ctx context.Context, cart *model.Cart) error
}
