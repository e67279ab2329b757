package model

import "time"

// 商品更新、注文ステータス更新など。
type AuditAction string

const (
	//商品を登録した操作。
	AuditActionCreatePlant AuditAction = "CREATE_PLANT"
	//商品を更新した操作。
	AuditActionUpdatePlant AuditAction = "UPDATE_PLANT"
	//在庫フラグを更新した操作。
	AuditActionUpdateStock AuditAction = "UPDATE_STOCK"
	//商品を削除した操作。
	AuditActionDeletePlant AuditAction = "DELETE_PLANT"
	//注文ステータスを更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
)

// 何に対する操作か
type AuditResourceType string

const (
	//商品に対する操作。
	AuditResourcePlant AuditResourceType = "plant"

	//注文に対する操作。
	AuditResourceOrder AuditResourceType = "order"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した管理者のID。
	ActorUserID int64 `gorm:"not null;index" json:"actorUserId"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	//対象の種類（plant / order）。
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resourceType"`

	ResourceID int64 `gorm:"not null;index" json:"resourceId"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before"`
	AfterJSON  string `gorm:"type:text" json:"after"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}
