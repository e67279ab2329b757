package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// 正常系の進行順。Cancelledは含まない。
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusProcessing: 1,
	OrderStatusShipped:    2,
	OrderStatusDelivered:  3,
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), true
	default:
		return "", false
	}
}

// Terminal はDelivered/Cancelled。ここから先へは遷移できない。
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Cancellable はPending/Processingのときだけtrue。
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

// CanTransitionTo は s -> next が許可されるか。
// 正常系は前進のみ（飛ばしは可）、Cancelledへはキャンセル可能な状態からのみ。
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return s.Cancellable()
	}

	from, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	to, ok := orderStatusRank[next]
	if !ok {
		return false
	}
	return to > from
}

type PaymentMethod string

const (
	PaymentMethodCOD        PaymentMethod = "COD"
	PaymentMethodUPI        PaymentMethod = "UPI"
	PaymentMethodCard       PaymentMethod = "Card"
	PaymentMethodNetbanking PaymentMethod = "Netbanking"
)

// ParsePaymentMethod は空文字ならCOD。
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case "":
		return PaymentMethodCOD, true
	case PaymentMethodCOD, PaymentMethodUPI, PaymentMethodCard, PaymentMethodNetbanking:
		return PaymentMethod(s), true
	default:
		return "", false
	}
}

// 作成後は明細・合計を変更しない。変わるのはStatusだけ。
type Order struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64           `gorm:"not null;index;uniqueIndex:idx_orders_user_idem" json:"user"`
	User          *User           `gorm:"foreignKey:UserID" json:"-"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalPrice    int64           `gorm:"not null;index" json:"totalPrice"`
	Status        OrderStatus     `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	Address       ShippingAddress `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null;default:'COD'" json:"paymentMethod"`
	Paid          bool            `gorm:"not null;default:false" json:"paid"`

	//二重送信防止キー（任意）。NULLは重複可。
	IdempotencyKey *string `gorm:"type:varchar(255);uniqueIndex:idx_orders_user_idem" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
