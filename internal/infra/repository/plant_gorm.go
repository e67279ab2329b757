package repository

import (
	"context"
	"encoding/json"
	"strings"

	"plantstore/internal/domain/model"
	repo "plantstore/internal/repository"

	"gorm.io/gorm"
)

type PlantGormRepository struct {
	db *gorm.DB
}

// DI
func NewPlantGormRepository(db *gorm.DB) *PlantGormRepository {
	return &PlantGormRepository{db: db}
}

// 検索/カテゴリ/価格帯/在庫/ソート/ページング付きで返す。
func (r *PlantGormRepository) List(ctx context.Context, q repo.PlantListQuery) ([]model.Plant, int64, error) {
	var plants []model.Plant
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Plant{})

	// 名前と説明を対象
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}

	// categoriesはjsonb配列
	if q.Category != nil {
		b, err := json.Marshal([]model.Category{*q.Category})
		if err != nil {
			return []model.Plant{}, 0, err
		}
		tx = tx.Where("categories @> ?::jsonb", string(b))
	}

	//価格帯
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}

	if q.InStock != nil {
		tx = tx.Where("in_stock = ?", *q.InStock)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Plant{}, 0, err
	}

	//sort
	switch q.Sort {
	case "priceAsc":
		tx = tx.Order("price asc").Order("id asc")
	case "priceDesc":
		tx = tx.Order("price desc").Order("id desc")
	case "oldest":
		tx = tx.Order("created_at asc").Order("id asc")
	default:
		tx = tx.Order("created_at desc").Order("id desc")
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Offset(offset).Limit(q.Limit).Find(&plants).Error; err != nil {
		return []model.Plant{}, 0, err
	}

	return plants, total, nil
}

// IDで商品を取得
func (r *PlantGormRepository) FindByID(ctx context.Context, id int64) (model.Plant, error) {
	var p model.Plant
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return model.Plant{}, translate(err)
	}
	return p, nil
}

func (r *PlantGormRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Plant, error) {
	out := make(map[int64]model.Plant, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var plants []model.Plant
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&plants).Error; err != nil {
		return nil, err
	}
	for _, p := range plants {
		out[p.ID] = p
	}
	return out, nil
}

// 商品の作成（名前重複はErrDuplicate）
func (r *PlantGormRepository) Create(ctx context.Context, p model.Plant) (model.Plant, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Plant{}, translate(err)
	}
	return p, nil
}

// 商品の更新（nameは変更しない）
func (r *PlantGormRepository) Update(ctx context.Context, p model.Plant) error {
	//mapでのUpdatesはserializerを通らないので自前でJSONにする
	cats, err := json.Marshal(p.Categories)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Model(&model.Plant{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"price":       p.Price,
		"categories":  gorm.Expr("?::jsonb", string(cats)),
		"in_stock":    p.InStock,
		"description": p.Description,
		"image":       p.Image,
		"image_key":   p.ImageKey,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PlantGormRepository) UpdateStock(ctx context.Context, id int64, inStock bool) error {
	res := r.db.WithContext(ctx).Model(&model.Plant{}).
		Where("id = ?", id).
		Update("in_stock", inStock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 商品削除（カート/注文の明細はスナップショットで残る）
func (r *PlantGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Plant{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
