package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"plantstore/internal/domain/model"
	repo "plantstore/internal/repository"
)

// 楽観ロックに負けたときの再試行回数
const maxCartRetries = 3

// CartUsecase は /cart の業務ロジックです。
type CartUsecase struct {
	carts  repo.CartRepository
	plants repo.PlantRepository
}

func NewCartUsecase(carts repo.CartRepository, plants repo.PlantRepository) *CartUsecase {
	return &CartUsecase{carts: carts, plants: plants}
}

// GetCart はカート取得。まだ無ければ空の形を返す（エラーにしない）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartView, error) {
	cart, err := u.carts.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartView{User: userID, Items: []LineItemView{}}, nil
	}
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.view(ctx, cart)
}

// AddItem はカートに追加（同一商品は数量加算、価格は最初のまま）。
func (u *CartUsecase) AddItem(ctx context.Context, userID, plantID, qty int64) (CartView, error) {
	if plantID <= 0 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "Please provide plantId")
	}
	if qty < 1 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "Quantity must be at least 1")
	}

	p, err := u.plants.FindByID(ctx, plantID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartView{}, NewHTTPError(http.StatusNotFound, "Plant not found")
	}
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.InStock {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "Plant is out of stock")
	}

	cart, err := u.mutate(ctx, userID, true, func(c *model.Cart) error {
		if err := c.AddItem(p, qty); err != nil {
			return quantityLimitError()
		}
		return nil
	})
	if err != nil {
		return CartView{}, err
	}
	return u.view(ctx, cart)
}

// UpdateItem は数量を置き換える。0以下なら明細を削除。
func (u *CartUsecase) UpdateItem(ctx context.Context, userID, plantID, qty int64) (CartView, error) {
	if plantID <= 0 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "Please provide plantId")
	}

	cart, err := u.mutate(ctx, userID, false, func(c *model.Cart) error {
		err := c.UpdateItem(plantID, qty)
		if errors.Is(err, model.ErrItemNotInCart) {
			return NewHTTPError(http.StatusNotFound, "Item not found in cart")
		}
		if err != nil {
			return quantityLimitError()
		}
		return nil
	})
	if err != nil {
		return CartView{}, err
	}
	return u.view(ctx, cart)
}

// RemoveItem は明細を削除。無い明細の削除は何もしない。
func (u *CartUsecase) RemoveItem(ctx context.Context, userID, plantID int64) (CartView, error) {
	if plantID <= 0 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "Please provide plantId")
	}

	cart, err := u.mutate(ctx, userID, false, func(c *model.Cart) error {
		c.RemoveItem(plantID)
		return nil
	})
	if err != nil {
		return CartView{}, err
	}
	return u.view(ctx, cart)
}

func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) (CartView, error) {
	cart, err := u.mutate(ctx, userID, false, func(c *model.Cart) error {
		c.Clear()
		return nil
	})
	if err != nil {
		return CartView{}, err
	}
	return u.view(ctx, cart)
}

// mutate は 読む→変更→versionつき保存 を、競合したら読み直してやり直す。
func (u *CartUsecase) mutate(ctx context.Context, userID int64, create bool, fn func(c *model.Cart) error) (model.Cart, error) {
	for attempt := 0; attempt < maxCartRetries; attempt++ {
		var (
			cart model.Cart
			err  error
		)
		if create {
			cart, err = u.carts.GetOrCreateByUserID(ctx, userID)
		} else {
			cart, err = u.carts.FindByUserID(ctx, userID)
		}
		if errors.Is(err, repo.ErrNotFound) {
			return model.Cart{}, NewHTTPError(http.StatusNotFound, "Cart not found")
		}
		if err != nil {
			return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := fn(&cart); err != nil {
			return model.Cart{}, err
		}

		err = u.carts.Save(ctx, &cart)
		if errors.Is(err, repo.ErrConflict) {
			continue
		}
		if err != nil {
			return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return cart, nil
	}

	return model.Cart{}, NewHTTPError(http.StatusConflict, "Cart was modified concurrently, please retry")
}

func quantityLimitError() error {
	return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Quantity must not exceed %d per plant", model.MaxLineQuantity))
}

func (u *CartUsecase) view(ctx context.Context, cart model.Cart) (CartView, error) {
	plants, err := u.plants.FindByIDs(ctx, cartPlantIDs(cart))
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toCartView(cart, plants), nil
}
