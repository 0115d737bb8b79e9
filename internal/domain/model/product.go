package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	// 在庫はマイナスにならない（DB側でもcheck）
	Stock      int64          `gorm:"not null;default:0;check:chk_products_stock_non_negative,stock >= 0" json:"stock"`
	CategoryID *int64         `gorm:"index" json:"categoryId,omitempty"`
	IsActive   bool           `gorm:"not null;default:false;index" json:"isActive"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time      `gorm:"not null;autoUpdateTime" json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// 注文可能か（公開中で削除されていない）
func (p Product) Available() bool {
	return p.IsActive && !p.DeletedAt.Valid
}
