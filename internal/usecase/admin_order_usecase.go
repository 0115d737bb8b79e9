package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

type AdminOrderUsecase struct {
	tx    repo.TransactionManager
	audit AuditRecorder
	log   *zap.Logger
	now   func() time.Time
}

func NewAdminOrderUsecase(tx repo.TransactionManager, audit AuditRecorder, log *zap.Logger) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, audit: audit, log: log, now: time.Now}
}

type AdminOrderListInput struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

// 全ユーザーの注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, actor model.Actor, in AdminOrderListInput) (OrderListOutput, error) {
	if !actor.Authenticated() {
		return OrderListOutput{}, UnauthorizedError()
	}
	if !actor.IsAdmin() {
		return OrderListOutput{}, ForbiddenError("admin only")
	}
	page, limit, err := normalizePage(in.Page, in.Limit)
	if err != nil {
		return OrderListOutput{}, err
	}

	f := repo.AdminOrderListFilter{Page: page, Limit: limit, UserID: in.UserID, From: in.From, To: in.To}
	if !blank(in.Status) {
		st, ok := model.ParseOrderStatus(in.Status)
		if !ok {
			return OrderListOutput{}, ValidationError("invalid status")
		}
		f.Status = st
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return OrderListOutput{}, ValidationError("from must be before to")
	}

	var out OrderListOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return internalError(u.log, "list admin orders", err)
		}

		items, err := withItems(ctx, r, orders)
		if err != nil {
			return internalError(u.log, "list order items", err)
		}
		out = OrderListOutput{Items: items, Pagination: newPagination(page, limit, total)}
		return nil
	})
	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

// ステータスは5種類のどれにでも変更できる。在庫は戻さない。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actor model.Actor, orderID int64, in AdminUpdateOrderStatusInput) (OrderOutput, error) {
	if !actor.Authenticated() {
		return OrderOutput{}, UnauthorizedError()
	}
	if !actor.IsAdmin() {
		return OrderOutput{}, ForbiddenError("admin only")
	}
	if orderID <= 0 {
		return OrderOutput{}, ValidationError("invalid id")
	}
	newStatus, ok := model.ParseOrderStatus(strings.TrimSpace(in.Status))
	if !ok {
		return OrderOutput{}, ValidationError("invalid status")
	}

	var out OrderOutput
	var entry *model.AuditLog

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFoundError("order not found")
		}
		if err != nil {
			return internalError(u.log, "find order", err)
		}

		before := o.Status
		if before != newStatus {
			at := u.now()
			if err := r.Orders().UpdateStatus(ctx, orderID, newStatus, at); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return NotFoundError("order not found")
				}
				return internalError(u.log, "update order status", err)
			}
			o.Status = newStatus
			o.UpdatedAt = at

			e := auditEntry(actor, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, idString(orderID))
			e.BeforeJSON = toJSON(map[string]interface{}{"status": before})
			e.AfterJSON = toJSON(map[string]interface{}{"status": newStatus})
			entry = &e
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return internalError(u.log, "list order items", err)
		}
		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	if entry != nil {
		u.audit.Record(ctx, *entry)
	}
	return out, nil
}
