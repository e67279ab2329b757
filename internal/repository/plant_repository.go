package repository

import (
	"context"

	"plantstore/internal/domain/model"
)

// 一覧検索
type PlantListQuery struct {
	Page     int
	Limit    int
	Search   string
	Category *model.Category
	MinPrice *int64
	MaxPrice *int64
	InStock  *bool
	Sort     string
}

// 商品の永続化（保存・取得）だけを約束。
type PlantRepository interface {
	List(ctx context.Context, q PlantListQuery) ([]model.Plant, int64, error)
	FindByID(ctx context.Context, id int64) (model.Plant, error)
	//カート/注文の表示用。見つからないIDは結果に含まれない
	FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Plant, error)

	Create(ctx context.Context, p model.Plant) (model.Plant, error)
	Update(ctx context.Context, p model.Plant) error
	UpdateStock(ctx context.Context, id int64, inStock bool) error
	Delete(ctx context.Context, id int64) error
}
