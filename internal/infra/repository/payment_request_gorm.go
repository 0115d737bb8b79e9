package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRequestGormRepository struct {
	db *gorm.DB
}

func NewPaymentRequestGormRepository(db *gorm.DB) *PaymentRequestGormRepository {
	return &PaymentRequestGormRepository{db: db}
}

func (r *PaymentRequestGormRepository) Create(ctx context.Context, p model.PaymentRequest) error {
	return translateError(r.db.WithContext(ctx).Create(&p).Error)
}

func (r *PaymentRequestGormRepository) FindByID(ctx context.Context, id uuid.UUID) (model.PaymentRequest, error) {
	var p model.PaymentRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return model.PaymentRequest{}, translateError(err)
	}
	return p, nil
}

// 新しい順。UserIDがあればそのユーザー分だけ
func (r *PaymentRequestGormRepository) List(ctx context.Context, f repo.PaymentListFilter) ([]model.PaymentRequest, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.PaymentRequest{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.PaymentRequest{}, 0, err
	}

	var items []model.PaymentRequest
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("created_at desc").Order("id desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.PaymentRequest{}, 0, err
	}
	return items, total, nil
}

// statusがFromのときだけ更新する
func (r *PaymentRequestGormRepository) UpdateStatusIf(ctx context.Context, u repo.PaymentTransitionUpdate) (bool, error) {
	updates := map[string]interface{}{
		"status":     u.To,
		"updated_at": u.At,
	}
	if u.ApprovedByAdminID != nil {
		updates["approved_by_admin_id"] = *u.ApprovedByAdminID
	}
	if u.ConfirmedBySuperAdminID != nil {
		updates["confirmed_by_super_admin_id"] = *u.ConfirmedBySuperAdminID
	}

	res := r.db.WithContext(ctx).
		Model(&model.PaymentRequest{}).
		Where("id = ? AND status = ?", u.ID, u.From).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
