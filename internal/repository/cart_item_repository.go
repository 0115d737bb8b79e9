package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartItemRepository interface {
	// 商品の現在値とJOINした明細（参照用、ロックなし）
	ListLinesByUserID(ctx context.Context, userID int64) ([]model.CartLine, error)
	// 注文確定用。商品行をproduct_id順にFOR UPDATEでロックする
	ListForCheckout(ctx context.Context, userID int64) ([]model.CartLine, error)

	// 同一商品はプラス
	AddQuantity(ctx context.Context, userID int64, productID int64, addQty int64) error
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
}
