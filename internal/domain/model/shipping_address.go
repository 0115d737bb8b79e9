package model

import "strings"

// 配送先住所。注文に埋め込んで保存する。
type ShippingAddress struct {
	Street  string `gorm:"type:varchar(255);not null" json:"street" validate:"required,max=255"`
	City    string `gorm:"type:varchar(255);not null" json:"city" validate:"required,max=255"`
	State   string `gorm:"type:varchar(100);not null" json:"state" validate:"required,max=100"`
	ZipCode string `gorm:"type:varchar(20);not null" json:"zipCode" validate:"required,max=20"`
	Country string `gorm:"type:varchar(100);not null" json:"country" validate:"required,max=100"`
}

func (a ShippingAddress) Normalize() ShippingAddress {
	return ShippingAddress{
		Street:  strings.TrimSpace(a.Street),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		ZipCode: strings.TrimSpace(a.ZipCode),
		Country: strings.TrimSpace(a.Country),
	}
}

// 空欄のフィールド名を返す（全部埋まっていれば空）
func (a ShippingAddress) MissingFields() []string {
	var missing []string
	n := a.Normalize()
	if n.Street == "" {
		missing = append(missing, "street")
	}
	if n.City == "" {
		missing = append(missing, "city")
	}
	if n.State == "" {
		missing = append(missing, "state")
	}
	if n.ZipCode == "" {
		missing = append(missing, "zipCode")
	}
	if n.Country == "" {
		missing = append(missing, "country")
	}
	return missing
}
