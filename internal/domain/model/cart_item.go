package model

import "time"

// カートの明細
// 追加時点の価格と表示用スナップショットを必ず保存。
// PlantIDは弱い参照（商品が削除されても明細は残る）。
type CartItem struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	CartID        int64     `gorm:"not null;uniqueIndex:idx_cart_items_cart_plant" json:"-"`
	PlantID       int64     `gorm:"not null;uniqueIndex:idx_cart_items_cart_plant" json:"plant"`
	Quantity      int64     `gorm:"not null" json:"quantity"`
	PriceAtTime   int64     `gorm:"not null" json:"priceAtTime"`
	NameSnapshot  string    `gorm:"type:varchar(100);not null;default:''" json:"-"`
	ImageSnapshot string    `gorm:"type:text;not null;default:''" json:"-"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}
