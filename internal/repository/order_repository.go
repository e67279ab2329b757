package repository

import (
	"context"
	"time"

	"plantstore/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page     int
	Limit    int
	Status   *model.OrderStatus
	MinPrice *int64
	MaxPrice *int64
	//部分一致（大文字小文字を区別しない）
	State string
	City  string
	From  *time.Time
	To    *time.Time
}

type OrderRepository interface {
	//明細込み
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	Create(ctx context.Context, order *model.Order) error

	// UpdateStatus は現在のステータスがfromのときだけtoに変える。
	// 注文が無ければErrNotFound、fromと一致しなければErrConflict。
	UpdateStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) error

	//検索（同じキーなら同じ結果を返す）
	FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error)
	//管理者用の注文一覧（Userをpreload）
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
