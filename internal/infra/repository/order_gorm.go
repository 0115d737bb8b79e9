package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if err != nil {
		return model.Order{}, translateError(err)
	}
	return o, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	return r.listPage(ctx, page, limit, orderOwnedBy(&userID))
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	return r.listPage(ctx, f.Page, f.Limit,
		orderOwnedBy(f.UserID),
		orderInStatus(f.Status),
		orderPlacedBetween(f.From, f.To),
	)
}

// 条件が無いものは何もしない
type orderFilter func(*gorm.DB) *gorm.DB

// 件数と1ページ分を同じ条件で取る。並びは新しい順、同時刻はid降順
func (r *OrderGormRepository) listPage(ctx context.Context, page, limit int, filters ...orderFilter) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})
	for _, apply := range filters {
		q = apply(q)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}
	if total == 0 {
		return []model.Order{}, 0, nil
	}

	orders := make([]model.Order, 0, limit)
	err := q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: "created_at"}, Desc: true},
		{Column: clause.Column{Name: "id"}, Desc: true},
	}}).Limit(limit).Offset((page - 1) * limit).Find(&orders).Error
	if err != nil {
		return []model.Order{}, 0, err
	}
	return orders, total, nil
}

func orderOwnedBy(userID *int64) orderFilter {
	return func(db *gorm.DB) *gorm.DB {
		if userID == nil {
			return db
		}
		return db.Where("user_id = ?", *userID)
	}
}

func orderInStatus(status model.OrderStatus) orderFilter {
	return func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("status = ?", status)
	}
}

// 両端を含む
func orderPlacedBetween(from, to *time.Time) orderFilter {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where("created_at >= ?", *from)
		}
		if to != nil {
			db = db.Where("created_at <= ?", *to)
		}
		return db
	}
}

// 明細は別で作るのでassociationは保存しない
func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&order).Error; err != nil {
		return 0, translateError(err)
	}
	return order.ID, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{"status": status, "updated_at": at})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// (user_id, idempotency_key) はユニーク。無ければ found=false
func (r *OrderGormRepository) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where(&model.Order{UserID: userID, IdempotencyKey: &key}).
		Limit(1).
		Find(&orders).Error
	if err != nil {
		return model.Order{}, false, err
	}
	if len(orders) == 0 {
		return model.Order{}, false, nil
	}
	return orders[0], true, nil
}
