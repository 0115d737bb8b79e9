package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

// 明細＋商品の現在値
func (r *CartItemGormRepository) ListLinesByUserID(ctx context.Context, userID int64) ([]model.CartLine, error) {
	return r.loadLines(ctx, userID, false)
}

// 注文確定用（商品行をロック）
func (r *CartItemGormRepository) ListForCheckout(ctx context.Context, userID int64) ([]model.CartLine, error) {
	return r.loadLines(ctx, userID, true)
}

func (r *CartItemGormRepository) loadLines(ctx context.Context, userID int64, lock bool) ([]model.CartLine, error) {
	db := r.db.WithContext(ctx)

	//明細をproduct_id順で取る
	var items []model.CartItem
	q := db.Where("user_id = ?", userID).Order("product_id asc")
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.Find(&items).Error; err != nil {
		return []model.CartLine{}, err
	}
	if len(items) == 0 {
		return []model.CartLine{}, nil
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	//商品を同じ順でロック（ロック順を固定してデッドロックを避ける）
	var products []model.Product
	pq := db.Where("id IN ?", ids).Order("id asc")
	if lock {
		pq = pq.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := pq.Find(&products).Error; err != nil {
		return []model.CartLine{}, err
	}

	byID := make(map[int64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]model.CartLine, 0, len(items))
	for _, it := range items {
		line := model.CartLine{
			CartItemID: it.ID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
		}
		if p, ok := byID[it.ProductID]; ok {
			line.ProductFound = true
			line.Name = p.Name
			line.UnitPrice = p.Price
			line.Stock = p.Stock
			line.IsActive = p.IsActive
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// 同一商品は数量加算（INSERT ... ON CONFLICT DO UPDATE）
func (r *CartItemGormRepository) AddQuantity(ctx context.Context, userID int64, productID int64, addQty int64) error {
	if addQty <= 0 {
		return errors.New("invalid quantity")
	}

	item := model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  addQty,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_items.quantity + EXCLUDED.quantity"),
				"updated_at": time.Now(),
			}),
		}).
		Create(&item).Error
}

// 明細の数量を更新
func (r *CartItemGormRepository) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", cartItemID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *CartItemGormRepository) DeleteByID(ctx context.Context, cartItemID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.CartItem{}, cartItemID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ユーザーの明細を全削除（削除件数を返す）
func (r *CartItemGormRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{})
	return res.RowsAffected, res.Error
}

// 明細を取得
func (r *CartItemGormRepository) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	var item model.CartItem

	err := r.db.WithContext(ctx).
		Where("id = ?", cartItemID).
		First(&item).Error
	if err != nil {
		return model.CartItem{}, translateError(err)
	}
	return item, nil
}
