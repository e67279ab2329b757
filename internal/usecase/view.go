package usecase

import (
	"time"

	"plantstore/internal/domain/model"
)

// 明細に付ける商品の表示情報。商品が削除済みならスナップショットから作る。
type PlantView struct {
	ID         int64            `json:"id"`
	Name       string           `json:"name"`
	Price      int64            `json:"price"`
	Image      string           `json:"image"`
	Categories []model.Category `json:"categories"`
	InStock    bool             `json:"inStock"`
	Deleted    bool             `json:"deleted,omitempty"`
}

type LineItemView struct {
	Plant       PlantView `json:"plant"`
	Quantity    int64     `json:"quantity"`
	PriceAtTime int64     `json:"priceAtTime"`
}

type CartView struct {
	ID         int64          `json:"id,omitempty"`
	User       int64          `json:"user"`
	Items      []LineItemView `json:"items"`
	TotalPrice int64          `json:"totalPrice"`
	UpdatedAt  *time.Time     `json:"updatedAt,omitempty"`
}

type OrderView struct {
	ID            int64                 `json:"id"`
	User          int64                 `json:"user"`
	Items         []LineItemView        `json:"items"`
	TotalPrice    int64                 `json:"totalPrice"`
	Status        model.OrderStatus     `json:"status"`
	Address       model.ShippingAddress `json:"address"`
	PaymentMethod model.PaymentMethod   `json:"paymentMethod"`
	Paid          bool                  `json:"paid"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

func plantView(id int64, name, image string, price int64, plants map[int64]model.Plant) PlantView {
	if p, ok := plants[id]; ok {
		return PlantView{
			ID:         p.ID,
			Name:       p.Name,
			Price:      p.Price,
			Image:      p.Image,
			Categories: p.Categories,
			InStock:    p.InStock,
		}
	}
	return PlantView{
		ID:         id,
		Name:       name,
		Price:      price,
		Image:      image,
		Categories: []model.Category{},
		Deleted:    true,
	}
}

func toCartView(c model.Cart, plants map[int64]model.Plant) CartView {
	items := make([]LineItemView, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, LineItemView{
			Plant:       plantView(it.PlantID, it.NameSnapshot, it.ImageSnapshot, it.PriceAtTime, plants),
			Quantity:    it.Quantity,
			PriceAtTime: it.PriceAtTime,
		})
	}
	updated := c.UpdatedAt
	return CartView{
		ID:         c.ID,
		User:       c.UserID,
		Items:      items,
		TotalPrice: c.TotalPrice,
		UpdatedAt:  &updated,
	}
}

func toOrderView(o model.Order, plants map[int64]model.Plant) OrderView {
	items := make([]LineItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, LineItemView{
			Plant:       plantView(it.PlantID, it.NameSnapshot, it.ImageSnapshot, it.PriceAtTime, plants),
			Quantity:    it.Quantity,
			PriceAtTime: it.PriceAtTime,
		})
	}
	return OrderView{
		ID:            o.ID,
		User:          o.UserID,
		Items:         items,
		TotalPrice:    o.TotalPrice,
		Status:        o.Status,
		Address:       o.Address,
		PaymentMethod: o.PaymentMethod,
		Paid:          o.Paid,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func cartPlantIDs(c model.Cart) []int64 {
	ids := make([]int64, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.PlantID)
	}
	return ids
}

func orderPlantIDs(orders ...model.Order) []int64 {
	seen := map[int64]struct{}{}
	var ids []int64
	for _, o := range orders {
		for _, it := range o.Items {
			if _, ok := seen[it.PlantID]; ok {
				continue
			}
			seen[it.PlantID] = struct{}{}
			ids = append(ids, it.PlantID)
		}
	}
	return ids
}
