package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"plantstore/internal/domain/model"
	repo "plantstore/internal/repository"
)

type OrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
	plants repo.PlantRepository
}

func NewOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository, plants repo.PlantRepository) *OrderUsecase {
	return &OrderUsecase{tx: tx, orders: orders, plants: plants}
}

type PlaceOrderInput struct {
	Address        model.ShippingAddress
	PaymentMethod  string
	IdempotencyKey string
}

// PlaceOrder はカートから注文を作り、同じトランザクションでカートを空にする。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderView, error) {
	addr := in.Address.Trimmed()
	if missing := addr.MissingFields(); len(missing) > 0 {
		return OrderView{}, NewHTTPError(http.StatusBadRequest, "Please provide complete shipping address: "+strings.Join(missing, ", "))
	}
	pm, ok := model.ParsePaymentMethod(strings.TrimSpace(in.PaymentMethod))
	if !ok {
		return OrderView{}, NewHTTPError(http.StatusBadRequest, "Invalid payment method")
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if len(key) > 255 {
		return OrderView{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency key")
	}

	var out model.Order

	for attempt := 0; attempt < maxCartRetries; attempt++ {
		//注文処理はトランザクション
		err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			// 同じキーなら同じ結果
			if key != "" {
				existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				if found {
					out = existing
					return nil
				}
			}

			cart, err := r.Carts().FindByUserID(ctx, userID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusBadRequest, "Cart is empty")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if cart.IsEmpty() {
				return NewHTTPError(http.StatusBadRequest, "Cart is empty")
			}

			//価格はカートの値をそのまま使う（カタログは読み直さない）
			items, total, err := model.OrderItemsFromCart(cart)
			if err != nil {
				return NewHTTPError(http.StatusBadRequest, "Cart total is too large")
			}
			order := model.Order{
				UserID:        userID,
				Items:         items,
				TotalPrice:    total,
				Status:        model.OrderStatusPending,
				Address:       addr,
				PaymentMethod: pm,
			}
			if key != "" {
				order.IdempotencyKey = &key
			}
			if err := r.Orders().Create(ctx, &order); err != nil {
				if errors.Is(err, repo.ErrDuplicate) {
					return err
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			cart.Clear()
			if err := r.Carts().Save(ctx, &cart); err != nil {
				if errors.Is(err, repo.ErrConflict) {
					return err
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			out = order
			return nil
		})

		switch {
		case err == nil:
			return u.view(ctx, out)
		case errors.Is(err, repo.ErrConflict):
			//カートが途中で変わった。ロールバック済みなので読み直す
			continue
		case errors.Is(err, repo.ErrDuplicate) && key != "":
			//同じキーの同時送信。先に入った注文を返す
			existing, found, ferr := u.orders.FindByIdempotencyKey(ctx, userID, key)
			if ferr == nil && found {
				return u.view(ctx, existing)
			}
			return OrderView{}, NewHTTPError(http.StatusConflict, "idempotency conflict")
		default:
			if _, ok := AsHTTPError(err); ok {
				return OrderView{}, err
			}
			return OrderView{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return OrderView{}, NewHTTPError(http.StatusConflict, "Cart was modified concurrently, please retry")
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderView, error) {
	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	plants, err := u.plants.FindByIDs(ctx, orderPlantIDs(orders...))
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderView(o, plants))
	}
	return out, nil
}

// 他人の注文は「無い」扱い
func (u *OrderUsecase) GetMyOrder(ctx context.Context, userID, orderID int64) (OrderView, error) {
	o, err := u.findOwned(ctx, userID, orderID)
	if err != nil {
		return OrderView{}, err
	}
	return u.view(ctx, o)
}

// CancelOrder はPending/Processingのときだけキャンセルできる。
func (u *OrderUsecase) CancelOrder(ctx context.Context, userID, orderID int64) (OrderView, error) {
	o, err := u.findOwned(ctx, userID, orderID)
	if err != nil {
		return OrderView{}, err
	}
	if !o.Status.Cancellable() {
		return OrderView{}, NewHTTPError(http.StatusBadRequest, "Order cannot be cancelled at status "+string(o.Status))
	}

	//同時に発送されたらCASで負ける
	err = u.orders.UpdateStatus(ctx, o.ID, o.Status, model.OrderStatusCancelled)
	if errors.Is(err, repo.ErrConflict) {
		return OrderView{}, NewHTTPError(http.StatusConflict, "Order status changed, please retry")
	}
	if errors.Is(err, repo.ErrNotFound) {
		return OrderView{}, NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		return OrderView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	o.Status = model.OrderStatusCancelled
	return u.view(ctx, o)
}

func (u *OrderUsecase) findOwned(ctx context.Context, userID, orderID int64) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID != userID {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "Order not found")
	}
	return o, nil
}

func (u *OrderUsecase) view(ctx context.Context, o model.Order) (OrderView, error) {
	plants, err := u.plants.FindByIDs(ctx, orderPlantIDs(o))
	if err != nil {
		return OrderView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderView(o, plants), nil
}
