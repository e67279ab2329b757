package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"plantstore/internal/domain/model"
	repo "plantstore/internal/repository"
)

// 管理者一覧の1ページの件数
const adminOrdersPerPage = 25

type AdminOrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
	plants repo.PlantRepository
}

func NewAdminOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository, plants repo.PlantRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, orders: orders, plants: plants}
}

type AdminOrderListInput struct {
	Status   string
	MinPrice *int64
	MaxPrice *int64
	State    string
	City     string
	From     *time.Time
	To       *time.Time
	Page     int
}

type OrderCustomer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AdminOrderView struct {
	OrderView
	Customer *OrderCustomer `json:"customer,omitempty"`
}

type AdminOrderList struct {
	TotalOrders    int64            `json:"totalOrders"`
	ResultsPerPage int              `json:"resultsPerPage"`
	CurrentPage    int              `json:"currentPage"`
	TotalPages     int              `json:"totalPages"`
	Count          int              `json:"count"`
	Orders         []AdminOrderView `json:"orders"`
}

// 注文一覧（新しい順、25件ずつ）
func (u *AdminOrderUsecase) List(ctx context.Context, in AdminOrderListInput) (AdminOrderList, error) {
	f := repo.AdminOrderListFilter{
		Page:     in.Page,
		Limit:    adminOrdersPerPage,
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		State:    in.State,
		City:     in.City,
		From:     in.From,
		To:       in.To,
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if s := strings.TrimSpace(in.Status); s != "" {
		st, ok := model.ParseOrderStatus(s)
		if !ok {
			return AdminOrderList{}, NewHTTPError(http.StatusBadRequest, "Invalid order status")
		}
		f.Status = &st
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return AdminOrderList{}, NewHTTPError(http.StatusBadRequest, "minPrice must not exceed maxPrice")
	}

	orders, total, err := u.orders.ListAdmin(ctx, f)
	if err != nil {
		return AdminOrderList{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	plants, err := u.plants.FindByIDs(ctx, orderPlantIDs(orders...))
	if err != nil {
		return AdminOrderList{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	views := make([]AdminOrderView, 0, len(orders))
	for _, o := range orders {
		v := AdminOrderView{OrderView: toOrderView(o, plants)}
		if o.User != nil {
			v.Customer = &OrderCustomer{
				ID:    o.User.ID,
				Name:  strings.TrimSpace(o.User.FirstName + " " + o.User.LastName),
				Email: o.User.Email,
			}
		}
		views = append(views, v)
	}

	return AdminOrderList{
		TotalOrders:    total,
		ResultsPerPage: adminOrdersPerPage,
		CurrentPage:    f.Page,
		TotalPages:     int((total + adminOrdersPerPage - 1) / adminOrdersPerPage),
		Count:          len(views),
		Orders:         views,
	}, nil
}

// ステータス更新。前進のみ、キャンセルはPending/Processingから、終端からは動かさない。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, status string) (OrderView, error) {
	if orderID <= 0 {
		return OrderView{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	next, ok := model.ParseOrderStatus(strings.TrimSpace(status))
	if !ok {
		return OrderView{}, NewHTTPError(http.StatusBadRequest, "Invalid order status")
	}

	var out model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 注文取得
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// すでに同じなら何もしない（200）
		if o.Status == next {
			out = o
			return nil
		}
		if !o.Status.CanTransitionTo(next) {
			return NewHTTPError(http.StatusBadRequest, "Cannot change order status from "+string(o.Status)+" to "+string(next))
		}

		// ステータス更新（読んだ時点のステータスとのCAS）
		before := o.Status
		err = r.Orders().UpdateStatus(ctx, orderID, before, next)
		if errors.Is(err, repo.ErrConflict) {
			return NewHTTPError(http.StatusConflict, "Order status changed, please retry")
		}
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 監査ログ（UPDATE_ORDER_STATUS）
		beforeJSON, _ := json.Marshal(map[string]model.OrderStatus{"status": before})
		afterJSON, _ := json.Marshal(map[string]model.OrderStatus{"status": next})
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   string(beforeJSON),
			AfterJSON:    string(afterJSON),
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o.Status = next
		out = o
		return nil
	})
	if err != nil {
		return OrderView{}, err
	}

	plants, err := u.plants.FindByIDs(ctx, orderPlantIDs(out))
	if err != nil {
		return OrderView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderView(out, plants), nil
}
