package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type OrderUsecase struct {
	tx    repo.TransactionManager
	audit AuditRecorder
	log   *zap.Logger
	now   func() time.Time
}

func NewOrderUsecase(tx repo.TransactionManager, audit AuditRecorder, log *zap.Logger) *OrderUsecase {
	return &OrderUsecase{tx: tx, audit: audit, log: log, now: time.Now}
}

type PlaceOrderInput struct {
	ShippingAddress model.ShippingAddress
	// 任意。同じキーなら同じ注文を返す
	IdempotencyKey string
}

type OrderItemOutput struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int64           `json:"quantity"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

type OrderOutput struct {
	ID              int64                 `json:"id"`
	UserID          int64                 `json:"userId"`
	Status          model.OrderStatus     `json:"status"`
	Total           decimal.Decimal       `json:"total"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
	Items           []OrderItemOutput     `json:"items"`
}

type OrderListOutput struct {
	Items      []OrderOutput `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// カート→注文を1トランザクションで確定する。
// 途中で失敗したら注文・明細・在庫・カートのどれも変わらない。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, actor model.Actor, in PlaceOrderInput) (OrderOutput, error) {
	ctx, span := tracer.Start(ctx, "OrderUsecase.PlaceOrder",
		trace.WithAttributes(attribute.Int64("user.id", actor.UserID)))
	defer span.End()

	if !actor.Authenticated() {
		return OrderOutput{}, UnauthorizedError()
	}
	addr := in.ShippingAddress.Normalize()
	if missing := addr.MissingFields(); len(missing) > 0 {
		return OrderOutput{}, ValidationError("shipping address requires " + strings.Join(missing, ", "))
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if len(key) > 255 {
		return OrderOutput{}, ValidationError("invalid idempotency key")
	}

	var out OrderOutput
	var entries []model.AuditLog

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//同じユーザーの注文確定はここで直列になる
		if err := r.Users().LockByID(ctx, actor.UserID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return UnauthorizedError()
			}
			return internalError(u.log, "lock user", err)
		}

		// 同じキーなら同じ結果
		if key != "" {
			existing, found, err := r.Orders().FindByIdempotencyKey(ctx, actor.UserID, key)
			if err != nil {
				return internalError(u.log, "find order by idempotency key", err)
			}
			if found {
				items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
				if err != nil {
					return internalError(u.log, "list order items", err)
				}
				out = toOrderOutput(existing, items)
				return nil
			}
		}

		//カート明細＋商品（商品行はロック済み）
		lines, err := r.CartItems().ListForCheckout(ctx, actor.UserID)
		if err != nil {
			return internalError(u.log, "list cart for checkout", err)
		}
		if len(lines) == 0 {
			return EmptyCartError()
		}

		//在庫チェックと合計。価格はこの時点の値でスナップショット
		total := decimal.Zero
		orderItems := make([]model.OrderItem, 0, len(lines))
		now := u.now()
		for _, l := range lines {
			if !l.Orderable() {
				return ValidationError(fmt.Sprintf("product %d is not available", l.ProductID))
			}
			if l.Stock < l.Quantity {
				return InsufficientStockError(l.ProductID, l.Name)
			}
			total = total.Add(l.LineTotal())
			orderItems = append(orderItems, model.OrderItem{
				ProductID:           l.ProductID,
				ProductNameSnapshot: l.Name,
				UnitPriceSnapshot:   l.UnitPrice,
				Quantity:            l.Quantity,
				CreatedAt:           now,
			})
		}

		// 注文作成
		order := model.Order{
			UserID:          actor.UserID,
			Status:          model.OrderStatusPending,
			Total:           total,
			ShippingAddress: addr,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if key != "" {
			order.IdempotencyKey = &key
		}
		orderID, err := r.Orders().Create(ctx, order)
		if errors.Is(err, repo.ErrConflict) {
			return ConflictError("order already exists for idempotency key")
		}
		if err != nil {
			return internalError(u.log, "create order", err)
		}
		order.ID = orderID

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return internalError(u.log, "create order items", err)
		}

		//在庫減算（WHERE stock >= qty の条件付き）
		for _, it := range orderItems {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return internalError(u.log, "decrease stock", err)
			}
			if !ok {
				return InsufficientStockError(it.ProductID, it.ProductNameSnapshot)
			}
		}

		//カートを空にする
		if _, err := r.CartItems().DeleteByUserID(ctx, actor.UserID); err != nil {
			return internalError(u.log, "clear cart", err)
		}

		out = toOrderOutput(order, orderItems)
		entries = orderCreatedEntries(actor, order, orderItems)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return OrderOutput{}, err
	}

	// commit後に記録（失敗しても注文は成功のまま）
	u.audit.Record(ctx, entries...)
	span.SetAttributes(attribute.Int64("order.id", out.ID))
	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, actor model.Actor, page, limit int) (OrderListOutput, error) {
	if !actor.Authenticated() {
		return OrderListOutput{}, UnauthorizedError()
	}
	page, limit, err := normalizePage(page, limit)
	if err != nil {
		return OrderListOutput{}, err
	}

	var out OrderListOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListByUserID(ctx, actor.UserID, page, limit)
		if err != nil {
			return internalError(u.log, "list orders", err)
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

func (u *OrderUsecase) GetMyOrder(ctx context.Context, actor model.Actor, orderID int64) (OrderOutput, error) {
	if !actor.Authenticated() {
		return OrderOutput{}, UnauthorizedError()
	}
	if orderID <= 0 {
		return OrderOutput{}, ValidationError("invalid id")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFoundError("order not found")
		}
		if err != nil {
			return internalError(u.log, "find order", err)
		}
		//他人の注文は「存在しない扱い」（adminは見てよい）
		if o.UserID != actor.UserID && !actor.IsAdmin() {
			return NotFoundError("order not found")
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
	return out, nil
}

func withItems(ctx context.Context, r repo.TxRepos, orders []model.Order) ([]OrderOutput, error) {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		outs = append(outs, toOrderOutput(o, items))
	}
	return outs, nil
}

// 注文1件＋明細N件分
func orderCreatedEntries(actor model.Actor, o model.Order, items []model.OrderItem) []model.AuditLog {
	entries := make([]model.AuditLog, 0, len(items)+1)

	e := auditEntry(actor, model.AuditActionCreate, model.AuditResourceOrder, idString(o.ID))
	e.AfterJSON = toJSON(map[string]interface{}{"status": o.Status, "total": o.Total, "items": len(items)})
	entries = append(entries, e)

	for _, it := range items {
		ie := auditEntry(actor, model.AuditActionCreate, model.AuditResourceOrderItem, idString(it.ID))
		ie.AfterJSON = toJSON(map[string]interface{}{
			"orderId":   o.ID,
			"productId": it.ProductID,
			"quantity":  it.Quantity,
			"unitPrice": it.UnitPriceSnapshot,
		})
		entries = append(entries, ie)
	}
	return entries
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductNameSnapshot,
			UnitPrice:   it.UnitPriceSnapshot,
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal(),
		})
	}

	return OrderOutput{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          o.Status,
		Total:           o.Total,
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Items:           outItems,
	}
}
