package model

import (
	"errors"
	"math"
	"time"
)

// 1明細あたりの数量上限
const MaxLineQuantity int64 = 10000

var (
	// カートに該当商品の明細が無い
	ErrItemNotInCart = errors.New("item not in cart")
	// 数量が上限を超える、または合計がint64に収まらない
	ErrQuantityLimit = errors.New("quantity limit exceeded")
)

// 1ユーザーにつき1つ。Versionは楽観ロック用で、保存のたびに+1される。
type Cart struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64      `gorm:"not null;uniqueIndex" json:"user"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	TotalPrice int64      `gorm:"not null;default:0" json:"totalPrice"`
	Version    int64      `gorm:"not null;default:0" json:"-"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// AddItem は商品を追加する。既存明細は数量だけ加算し、追加時点の価格は変えない。
// 上限を超える場合はErrQuantityLimitを返し、カートは変更しない。
func (c *Cart) AddItem(p Plant, qty int64) error {
	if qty > MaxLineQuantity {
		return ErrQuantityLimit
	}

	items := append([]CartItem(nil), c.Items...)
	if i := c.indexOf(p.ID); i >= 0 {
		//両方とも上限以下なので足し算はあふれない
		next := items[i].Quantity + qty
		if next > MaxLineQuantity {
			return ErrQuantityLimit
		}
		items[i].Quantity = next
		return c.replaceItems(items)
	}

	items = append(items, CartItem{
		CartID:        c.ID,
		PlantID:       p.ID,
		Quantity:      qty,
		PriceAtTime:   p.Price,
		NameSnapshot:  p.Name,
		ImageSnapshot: p.Image,
	})
	return c.replaceItems(items)
}

// UpdateItem は数量を置き換える。0以下なら明細ごと削除。
func (c *Cart) UpdateItem(plantID int64, qty int64) error {
	i := c.indexOf(plantID)
	if i < 0 {
		return ErrItemNotInCart
	}
	if qty > MaxLineQuantity {
		return ErrQuantityLimit
	}

	items := append([]CartItem(nil), c.Items...)
	if qty <= 0 {
		items = append(items[:i], items[i+1:]...)
	} else {
		items[i].Quantity = qty
	}
	return c.replaceItems(items)
}

// RemoveItem は明細を削除する。無ければ何もしない。
func (c *Cart) RemoveItem(plantID int64) {
	if i := c.indexOf(plantID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
	c.Recalculate()
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.TotalPrice = 0
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Recalculate は合計 = Σ(数量 × 追加時点の価格) を計算し直す。
func (c *Cart) Recalculate() int64 {
	total, _ := sumLines(c.Items)
	c.TotalPrice = total
	return total
}

func (c *Cart) replaceItems(items []CartItem) error {
	total, ok := sumLines(items)
	if !ok {
		return ErrQuantityLimit
	}
	c.Items = items
	c.TotalPrice = total
	return nil
}

// sumLines は Σ(数量 × 価格)。途中でint64を超えたらfalse。
func sumLines(items []CartItem) (int64, bool) {
	var total int64
	for _, it := range items {
		if it.Quantity < 0 || it.PriceAtTime < 0 {
			return 0, false
		}
		if it.Quantity > 0 && it.PriceAtTime > math.MaxInt64/it.Quantity {
			return 0, false
		}
		line := it.Quantity * it.PriceAtTime
		if total > math.MaxInt64-line {
			return 0, false
		}
		total += line
	}
	return total, true
}

func (c *Cart) indexOf(plantID int64) int {
	for i, it := range c.Items {
		if it.PlantID == plantID {
			return i
		}
	}
	return -1
}
