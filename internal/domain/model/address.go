package model

import "strings"

// 配送先住所（注文に埋め込む）
type ShippingAddress struct {
	//宛名
	FullName string `gorm:"type:varchar(255);not null" json:"fullName"`

	//電話番号
	Phone string `gorm:"type:varchar(30);not null" json:"phone"`

	//番地など
	Street string `gorm:"type:varchar(255);not null" json:"street"`

	//目印（任意）
	Landmark string `gorm:"type:varchar(255)" json:"landmark,omitempty"`

	//市区町村
	City string `gorm:"type:varchar(255);not null;index" json:"city"`

	//州
	State string `gorm:"type:varchar(255);not null;index" json:"state"`

	//郵便番号
	Pincode string `gorm:"type:varchar(20);not null" json:"pincode"`
}

// MissingFields は必須項目のうち空のものを返す。
func (a ShippingAddress) MissingFields() []string {
	var missing []string
	check := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	check("fullName", a.FullName)
	check("phone", a.Phone)
	check("street", a.Street)
	check("city", a.City)
	check("state", a.State)
	check("pincode", a.Pincode)
	return missing
}

func (a ShippingAddress) Trimmed() ShippingAddress {
	return ShippingAddress{
		FullName: strings.TrimSpace(a.FullName),
		Phone:    strings.TrimSpace(a.Phone),
		Street:   strings.TrimSpace(a.Street),
		Landmark: strings.TrimSpace(a.Landmark),
		City:     strings.TrimSpace(a.City),
		State:    strings.TrimSpace(a.State),
		Pincode:  strings.TrimSpace(a.Pincode),
	}
}
