package repository

import (
	"context"
	"errors"
	"time"

	"plantstore/internal/domain/model"
	repo "plantstore/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

func (r *CartGormRepository) preloadItems(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	})
}

// ユーザーのカートを明細込みで取得
func (r *CartGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart

	err := r.preloadItems(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return model.Cart{}, translate(err)
	}
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	return cart, nil
}

// ユーザーのカートを取得し、無ければ作成
func (r *CartGormRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	cart, err := r.FindByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.Cart{}, err
	}

	// 同時作成はuser_idの一意制約で片方だけ通る
	now := time.Now()
	newCart := model.Cart{UserID: userID, CreatedAt: now, UpdatedAt: now}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&newCart).Error; err != nil {
		return model.Cart{}, err
	}

	return r.FindByUserID(ctx, userID)
}

// (id, version)が一致したときだけ保存する
func (r *CartGormRepository) Save(ctx context.Context, cart *model.Cart) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Cart{}).
			Where("id = ? AND version = ?", cart.ID, cart.Version).
			Updates(map[string]interface{}{
				"total_price": cart.TotalPrice,
				"version":     gorm.Expr("version + 1"),
				"updated_at":  time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrConflict
		}

		//明細は入れ替え
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return nil
		}

		items := make([]model.CartItem, len(cart.Items))
		for i, it := range cart.Items {
			it.ID = 0
			it.CartID = cart.ID
			items[i] = it
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		copy(cart.Items, items)
		return nil
	})
	if err != nil {
		return err
	}

	cart.Version++
	return nil
}
