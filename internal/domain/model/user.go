package model

import "time"

// Role は閉じた列挙。文字列比較ではなく ParseRole を通して扱う。
type Role string

const (
	RoleCustomer Role = "Customer"
	RoleAdmin    Role = "Admin"
)

// ParseRole は入力文字列をRoleに変換する。列挙外ならfalse。
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName  string `gorm:"type:varchar(100);not null" json:"lastName"`
	Email     string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone     string `gorm:"type:varchar(20);index;not null" json:"phone"`

	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'Customer'" json:"role"`

	//パスワード再設定で+1して発行済みcookieを無効にする
	TokenVersion int `gorm:"not null;default:0" json:"-"`

	//OTP認証
	AccountVerified        bool       `gorm:"not null;default:false" json:"accountVerified"`
	VerificationCodeHash   string     `gorm:"type:varchar(64)" json:"-"`
	VerificationCodeExpire *time.Time `json:"-"`

	//パスワード再設定
	ResetPasswordTokenHash string     `gorm:"type:varchar(64);index" json:"-"`
	ResetPasswordExpire    *time.Time `json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
