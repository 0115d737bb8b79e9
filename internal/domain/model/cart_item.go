package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細。価格は持たず、参照時は常に商品の現在価格を使う。
// 1ユーザー×1商品で1行。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_cart_items_user_product,priority:1" json:"userId"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_cart_items_user_product,priority:2;index" json:"productId"`
	Quantity  int64     `gorm:"not null;check:chk_cart_items_quantity_positive,quantity > 0" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// カート明細＋商品の現在値（JOIN結果）
type CartLine struct {
	CartItemID int64
	ProductID  int64
	Quantity   int64

	// 商品が消えている場合はfalse
	ProductFound bool
	Name         string
	UnitPrice    decimal.Decimal
	Stock        int64
	IsActive     bool
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

func (l CartLine) Orderable() bool {
	return l.ProductFound && l.IsActive
}
