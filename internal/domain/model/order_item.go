package model

// 注文明細。カートの明細をそのままコピーする（カタログ価格は読み直さない）。
type OrderItem struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID       int64  `gorm:"not null;index" json:"-"`
	PlantID       int64  `gorm:"not null;index" json:"plant"`
	Quantity      int64  `gorm:"not null" json:"quantity"`
	PriceAtTime   int64  `gorm:"not null" json:"priceAtTime"`
	NameSnapshot  string `gorm:"type:varchar(100);not null" json:"-"`
	ImageSnapshot string `gorm:"type:text;not null;default:''" json:"-"`
}

// OrderItemsFromCart は明細のスナップショットと合計を作る。
// 合計がint64に収まらなければErrQuantityLimit。
func OrderItemsFromCart(c Cart) ([]OrderItem, int64, error) {
	total, ok := sumLines(c.Items)
	if !ok {
		return nil, 0, ErrQuantityLimit
	}

	items := make([]OrderItem, 0, len(c.Items))
	for _, ci := range c.Items {
		items = append(items, OrderItem{
			PlantID:       ci.PlantID,
			Quantity:      ci.Quantity,
			PriceAtTime:   ci.PriceAtTime,
			NameSnapshot:  ci.NameSnapshot,
			ImageSnapshot: ci.ImageSnapshot,
		})
	}
	return items, total, nil
}
