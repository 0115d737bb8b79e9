package usecase

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// 支払い申請の承認フロー
// PENDING → APPROVED_BY_ADMIN → CONFIRMED_BY_SUPER_ADMIN / PENDING → REJECTED_BY_ADMIN
type PaymentUsecase struct {
	tx    repo.TransactionManager
	audit AuditRecorder
	log   *zap.Logger
	now   func() time.Time
	newID func() uuid.UUID
}

func NewPaymentUsecase(tx repo.TransactionManager, audit AuditRecorder, log *zap.Logger) *PaymentUsecase {
	return &PaymentUsecase{tx: tx, audit: audit, log: log, now: time.Now, newID: uuid.New}
}

type PaymentListInput struct {
	Status string
	Page   int
	Limit  int
}

type PaymentListOutput struct {
	Items      []model.PaymentRequest `json:"items"`
	Pagination Pagination             `json:"pagination"`
}

var maxPaymentAmount = decimal.RequireFromString("9999999999.99")

func (u *PaymentUsecase) Create(ctx context.Context, actor model.Actor, amount decimal.Decimal) (model.PaymentRequest, error) {
	if !actor.Authenticated() {
		return model.PaymentRequest{}, UnauthorizedError()
	}
	if !amount.IsPositive() || amount.GreaterThan(maxPaymentAmount) || !amount.Equal(amount.Round(2)) {
		return model.PaymentRequest{}, ValidationError("invalid amount")
	}

	now := u.now()
	p := model.PaymentRequest{
		ID:        u.newID(),
		UserID:    actor.UserID,
		Amount:    amount,
		Status:    model.PaymentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.PaymentRequests().Create(ctx, p); err != nil {
			return internalError(u.log, "create payment request", err)
		}
		return nil
	})
	if err != nil {
		return model.PaymentRequest{}, err
	}

	e := auditEntry(actor, model.AuditActionCreate, model.AuditResourcePaymentRequest, p.ID.String())
	e.AfterJSON = toJSON(map[string]interface{}{"status": p.Status, "amount": p.Amount})
	u.audit.Record(ctx, e)
	return p, nil
}

func (u *PaymentUsecase) Approve(ctx context.Context, actor model.Actor, id uuid.UUID) (model.PaymentRequest, error) {
	return u.transition(ctx, actor, id, model.PaymentActionApprove)
}

func (u *PaymentUsecase) Reject(ctx context.Context, actor model.Actor, id uuid.UUID) (model.PaymentRequest, error) {
	return u.transition(ctx, actor, id, model.PaymentActionReject)
}

func (u *PaymentUsecase) Confirm(ctx context.Context, actor model.Actor, id uuid.UUID) (model.PaymentRequest, error) {
	return u.transition(ctx, actor, id, model.PaymentActionConfirm)
}

// 権限(403) → 存在(404) → 遷移表(400) → 条件付き更新 の順
func (u *PaymentUsecase) transition(ctx context.Context, actor model.Actor, id uuid.UUID, action model.PaymentAction) (model.PaymentRequest, error) {
	ctx, span := tracer.Start(ctx, "PaymentUsecase."+string(action),
		trace.WithAttributes(
			attribute.String("payment.id", id.String()),
			attribute.String("actor.role", string(actor.Role)),
		))
	defer span.End()

	if !actor.Authenticated() {
		return model.PaymentRequest{}, UnauthorizedError()
	}
	if err := action.Authorize(actor.Role); err != nil {
		return model.PaymentRequest{}, ForbiddenError("insufficient role for " + string(action))
	}

	var updated model.PaymentRequest
	var before model.PaymentStatus

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		current, err := r.PaymentRequests().FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFoundError("payment request not found")
		}
		if err != nil {
			return internalError(u.log, "find payment request", err)
		}

		next, err := model.NextPaymentStatus(current.Status, action, actor.Role)
		if err != nil {
			return transitionError(err)
		}

		now := u.now()
		upd := repo.PaymentTransitionUpdate{ID: id, From: current.Status, To: next, At: now}
		actorID := actor.UserID
		switch action {
		case model.PaymentActionApprove, model.PaymentActionReject:
			upd.ApprovedByAdminID = &actorID
		case model.PaymentActionConfirm:
			upd.ConfirmedBySuperAdminID = &actorID
		}

		ok, err := r.PaymentRequests().UpdateStatusIf(ctx, upd)
		if err != nil {
			return internalError(u.log, "update payment status", err)
		}
		if !ok {
			//読んだ後に他の人が先に遷移させた
			return transitionError(&model.PaymentTransitionError{From: current.Status, Action: action})
		}

		before = current.Status
		updated = current
		updated.Status = next
		updated.UpdatedAt = now
		if upd.ApprovedByAdminID != nil {
			updated.ApprovedByAdminID = upd.ApprovedByAdminID
		}
		if upd.ConfirmedBySuperAdminID != nil {
			updated.ConfirmedBySuperAdminID = upd.ConfirmedBySuperAdminID
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return model.PaymentRequest{}, err
	}

	e := auditEntry(actor, paymentAuditAction(action), model.AuditResourcePaymentRequest, id.String())
	e.BeforeJSON = toJSON(map[string]interface{}{"status": before})
	e.AfterJSON = toJSON(map[string]interface{}{"status": updated.Status})
	u.audit.Record(ctx, e)
	return updated, nil
}

func transitionError(err error) error {
	if errors.Is(err, model.ErrPaymentForbidden) {
		return ForbiddenError(err.Error())
	}
	return InvalidStateTransitionError(err.Error())
}

func paymentAuditAction(a model.PaymentAction) model.AuditAction {
	switch a {
	case model.PaymentActionApprove:
		return model.AuditActionApprove
	case model.PaymentActionReject:
		return model.AuditActionReject
	}
	return model.AuditActionConfirm
}

// USERは自分の申請だけ。adminは全件
func (u *PaymentUsecase) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (model.PaymentRequest, error) {
	if !actor.Authenticated() {
		return model.PaymentRequest{}, UnauthorizedError()
	}

	var out model.PaymentRequest
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.PaymentRequests().FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFoundError("payment request not found")
		}
		if err != nil {
			return internalError(u.log, "find payment request", err)
		}
		if !actor.IsAdmin() && p.UserID != actor.UserID {
			return ForbiddenError("access denied")
		}
		out = p
		return nil
	})
	if err != nil {
		return model.PaymentRequest{}, err
	}
	return out, nil
}

func (u *PaymentUsecase) List(ctx context.Context, actor model.Actor, in PaymentListInput) (PaymentListOutput, error) {
	if !actor.Authenticated() {
		return PaymentListOutput{}, UnauthorizedError()
	}
	page, limit, err := normalizePage(in.Page, in.Limit)
	if err != nil {
		return PaymentListOutput{}, err
	}

	f := repo.PaymentListFilter{Page: page, Limit: limit}
	if !blank(in.Status) {
		st, ok := model.ParsePaymentStatus(in.Status)
		if !ok {
			return PaymentListOutput{}, ValidationError("invalid status")
		}
		f.Status = st
	}
	//USERは自分の分に固定
	if !actor.IsAdmin() {
		uid := actor.UserID
		f.UserID = &uid
	}

	var out PaymentListOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, total, err := r.PaymentRequests().List(ctx, f)
		if err != nil {
			return internalError(u.log, "list payment requests", err)
		}
		out = PaymentListOutput{Items: items, Pagination: newPagination(page, limit, total)}
		return nil
	})
	if err != nil {
		return PaymentListOutput{}, err
	}
	return out, nil
}
