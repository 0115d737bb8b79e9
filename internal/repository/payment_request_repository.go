package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"

	"github.com/google/uuid"
)

type PaymentListFilter struct {
	// nilなら全ユーザー
	UserID *int64
	Status model.PaymentStatus
	Page   int
	Limit  int
}

// 条件付き更新の入力。From の状態のときだけ To にする。
type PaymentTransitionUpdate struct {
	ID                      uuid.UUID
	From                    model.PaymentStatus
	To                      model.PaymentStatus
	ApprovedByAdminID       *int64
	ConfirmedBySuperAdminID *int64
	At                      time.Time
}

type PaymentRequestRepository interface {
	Create(ctx context.Context, p model.PaymentRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (model.PaymentRequest, error)
	List(ctx context.Context, f PaymentListFilter) ([]model.PaymentRequest, int64, error)

	// UPDATE ... WHERE id = ? AND status = From。0件ならfalse（他の人が先に遷移させた）
	UpdateStatusIf(ctx context.Context, u PaymentTransitionUpdate) (bool, error)
}
