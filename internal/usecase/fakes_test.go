package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// =====================
// インメモリのストア（トランザクション付き）
// =====================

// memStore はDBの代わり。WithinTxは1本ずつ実行し、errorならスナップショットに戻す。
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	nextID      int64
	users       map[int64]model.User
	products    map[int64]model.Product
	categories  map[int64]model.Category
	cartItems   map[int64]model.CartItem
	orders      map[int64]model.Order
	orderItems  map[int64]model.OrderItem
	payments    map[uuid.UUID]model.PaymentRequest
	adjustments []model.InventoryAdjustment
	auditLogs   []model.AuditLog

	// "cart.DeleteByUserID" のような操作名 → 返すエラー
	failOn map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[int64]model.User{},
		products:   map[int64]model.Product{},
		categories: map[int64]model.Category{},
		cartItems:  map[int64]model.CartItem{},
		orders:     map[int64]model.Order{},
		orderItems: map[int64]model.OrderItem{},
		payments:   map[uuid.UUID]model.PaymentRequest{},
		failOn:     map[string]error{},
	}
}

type memSnapshot struct {
	nextID      int64
	users       map[int64]model.User
	products    map[int64]model.Product
	categories  map[int64]model.Category
	cartItems   map[int64]model.CartItem
	orders      map[int64]model.Order
	orderItems  map[int64]model.OrderItem
	payments    map[uuid.UUID]model.PaymentRequest
	adjustments []model.InventoryAdjustment
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() memSnapshot {
	return memSnapshot{
		nextID:      s.nextID,
		users:       copyMap(s.users),
		products:    copyMap(s.products),
		categories:  copyMap(s.categories),
		cartItems:   copyMap(s.cartItems),
		orders:      copyMap(s.orders),
		orderItems:  copyMap(s.orderItems),
		payments:    copyMap(s.payments),
		adjustments: append([]model.InventoryAdjustment(nil), s.adjustments...),
	}
}

func (s *memStore) restore(sn memSnapshot) {
	s.nextID = sn.nextID
	s.users = sn.users
	s.products = sn.products
	s.categories = sn.categories
	s.cartItems = sn.cartItems
	s.orders = sn.orders
	s.orderItems = sn.orderItems
	s.payments = sn.payments
	s.adjustments = sn.adjustments
}

func (s *memStore) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	sn := s.snapshot()
	s.mu.Unlock()

	if err := fn(memTxRepos{s: s}); err != nil {
		s.mu.Lock()
		s.restore(sn)
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

// mu を持った状態で呼ぶ
func (s *memStore) fail(op string) error {
	return s.failOn[op]
}

type memTxRepos struct{ s *memStore }

func (r memTxRepos) Users() repo.UserRepository                     { return memUserRepo{r.s} }
func (r memTxRepos) Orders() repo.OrderRepository                   { return memOrderRepo{r.s} }
func (r memTxRepos) OrderItems() repo.OrderItemRepository           { return memOrderItemRepo{r.s} }
func (r memTxRepos) CartItems() repo.CartItemRepository             { return memCartItemRepo{r.s} }
func (r memTxRepos) Inventory() repo.InventoryRepository            { return memInventoryRepo{r.s} }
func (r memTxRepos) Products() repo.ProductRepository               { return memProductRepo{r.s} }
func (r memTxRepos) PaymentRequests() repo.PaymentRequestRepository { return memPaymentRepo{r.s} }

func pageOf[T any](xs []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(xs) {
		return []T{}
	}
	end := start + limit
	if end > len(xs) {
		end = len(xs)
	}
	return xs[start:end]
}

// ---- users ----

type memUserRepo struct{ s *memStore }

func (r memUserRepo) Create(ctx context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return repo.ErrConflict
		}
	}
	u.ID = r.s.id()
	r.s.users[u.ID] = *u
	return nil
}

func (r memUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (r memUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r memUserRepo) Update(ctx context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r memUserRepo) IncrementTokenVersion(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.IncrementTokenVersion"); err != nil {
		return err
	}
	u, ok := r.s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.TokenVersion++
	r.s.users[id] = u
	return nil
}

func (r memUserRepo) LockByID(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repo.ErrNotFound
	}
	return nil
}

// idが大きいほど新しい
func (r memUserRepo) List(ctx context.Context, f repo.UserListFilter) ([]model.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.User
	for _, u := range r.s.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return pageOf(out, f.Page, f.Limit), int64(len(out)), nil
}

// ---- products / inventory ----

type memProductRepo struct{ s *memStore }

func (r memProductRepo) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []model.Product
	for _, p := range r.s.products {
		if !p.Available() {
			continue
		}
		if q.Q != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Q)) {
			continue
		}
		if q.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *q.CategoryID) {
			continue
		}
		if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return pageOf(out, q.Page, q.Limit), int64(len(out)), nil
}

func (r memProductRepo) FindByID(ctx context.Context, id int64) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.DeletedAt.Valid {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r memProductRepo) Create(ctx context.Context, p model.Product) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.id()
	r.s.products[p.ID] = p
	return p, nil
}

func (r memProductRepo) Update(ctx context.Context, p model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[p.ID]
	if !ok || cur.DeletedAt.Valid {
		return repo.ErrNotFound
	}
	cur.Name = p.Name
	cur.Description = p.Description
	cur.Price = p.Price
	cur.CategoryID = p.CategoryID
	cur.IsActive = p.IsActive
	r.s.products[p.ID] = cur
	return nil
}

func (r memProductRepo) SoftDelete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.DeletedAt.Valid {
		return repo.ErrNotFound
	}
	p.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	r.s.products[id] = p
	return nil
}

type memInventoryRepo struct{ s *memStore }

func (r memInventoryRepo) FindForUpdate(ctx context.Context, productID int64) (model.Product, error) {
	return memProductRepo(r).FindByID(ctx, productID)
}

func (r memInventoryRepo) SetStock(ctx context.Context, productID int64, newStock int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok {
		return repo.ErrNotFound
	}
	p.Stock = newStock
	r.s.products[productID] = p
	return nil
}

func (r memInventoryRepo) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("inventory.DecreaseStockIfEnough"); err != nil {
		return false, err
	}
	p, ok := r.s.products[productID]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	r.s.products[productID] = p
	return true, nil
}

func (r memInventoryRepo) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	adj.ID = r.s.id()
	r.s.adjustments = append(r.s.adjustments, adj)
	return nil
}

type memCategoryRepo struct{ s *memStore }

func (r memCategoryRepo) Create(ctx context.Context, c model.Category) (model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.categories {
		if existing.Name == c.Name {
			return model.Category{}, repo.ErrConflict
		}
	}
	c.ID = r.s.id()
	r.s.categories[c.ID] = c
	return c, nil
}

func (r memCategoryRepo) FindByID(ctx context.Context, id int64) (model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return model.Category{}, repo.ErrNotFound
	}
	return c, nil
}

func (r memCategoryRepo) List(ctx context.Context, activeOnly bool) ([]model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Category{}
	for _, c := range r.s.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ---- cart ----

type memCartItemRepo struct{ s *memStore }

func (r memCartItemRepo) lines(userID int64) []model.CartLine {
	var items []model.CartItem
	for _, it := range r.s.cartItems {
		if it.UserID == userID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	lines := make([]model.CartLine, 0, len(items))
	for _, it := range items {
		l := model.CartLine{CartItemID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity}
		if p, ok := r.s.products[it.ProductID]; ok && !p.DeletedAt.Valid {
			l.ProductFound = true
			l.Name = p.Name
			l.UnitPrice = p.Price
			l.Stock = p.Stock
			l.IsActive = p.IsActive
		}
		lines = append(lines, l)
	}
	return lines
}

func (r memCartItemRepo) ListLinesByUserID(ctx context.Context, userID int64) ([]model.CartLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.lines(userID), nil
}

func (r memCartItemRepo) ListForCheckout(ctx context.Context, userID int64) ([]model.CartLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.lines(userID), nil
}

func (r memCartItemRepo) AddQuantity(ctx context.Context, userID int64, productID int64, addQty int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, it := range r.s.cartItems {
		if it.UserID == userID && it.ProductID == productID {
			it.Quantity += addQty
			r.s.cartItems[id] = it
			return nil
		}
	}
	id := r.s.id()
	r.s.cartItems[id] = model.CartItem{ID: id, UserID: userID, ProductID: productID, Quantity: addQty}
	return nil
}

func (r memCartItemRepo) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.cartItems[cartItemID]
	if !ok {
		return model.CartItem{}, repo.ErrNotFound
	}
	return it, nil
}

func (r memCartItemRepo) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.cartItems[cartItemID]
	if !ok {
		return repo.ErrNotFound
	}
	it.Quantity = qty
	r.s.cartItems[cartItemID] = it
	return nil
}

func (r memCartItemRepo) DeleteByID(ctx context.Context, cartItemID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.cartItems[cartItemID]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.cartItems, cartItemID)
	return nil
}

func (r memCartItemRepo) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("cart.DeleteByUserID"); err != nil {
		return 0, err
	}
	var n int64
	for id, it := range r.s.cartItems {
		if it.UserID == userID {
			delete(r.s.cartItems, id)
			n++
		}
	}
	return n, nil
}

// ---- orders ----

type memOrderRepo struct{ s *memStore }

func (r memOrderRepo) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func newestFirst(orders []model.Order) {
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
}

func (r memOrderRepo) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Order
	for _, o := range r.s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	newestFirst(out)
	return pageOf(out, page, limit), int64(len(out)), nil
}

func (r memOrderRepo) Create(ctx context.Context, order model.Order) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if order.IdempotencyKey != nil {
		for _, o := range r.s.orders {
			if o.UserID == order.UserID && o.IdempotencyKey != nil && *o.IdempotencyKey == *order.IdempotencyKey {
				return 0, repo.ErrConflict
			}
		}
	}
	order.ID = r.s.id()
	order.Items = nil
	r.s.orders[order.ID] = order
	return order.ID, nil
}

func (r memOrderRepo) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = at
	r.s.orders[orderID] = o
	return nil
}

func (r memOrderRepo) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.UserID == userID && o.IdempotencyKey != nil && *o.IdempotencyKey == key {
			return o, true, nil
		}
	}
	return model.Order{}, false, nil
}

func (r memOrderRepo) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Order
	for _, o := range r.s.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.UserID != nil && o.UserID != *f.UserID {
			continue
		}
		out = append(out, o)
	}
	newestFirst(out)
	return pageOf(out, f.Page, f.Limit), int64(len(out)), nil
}

type memOrderItemRepo struct{ s *memStore }

func (r memOrderItemRepo) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range items {
		items[i].ID = r.s.id()
		items[i].OrderID = orderID
		r.s.orderItems[items[i].ID] = items[i]
	}
	return nil
}

func (r memOrderItemRepo) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.OrderItem{}
	for _, it := range r.s.orderItems {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- payments ----

type memPaymentRepo struct{ s *memStore }

func (r memPaymentRepo) Create(ctx context.Context, p model.PaymentRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.payments[p.ID]; ok {
		return repo.ErrConflict
	}
	r.s.payments[p.ID] = p
	return nil
}

func (r memPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (model.PaymentRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return model.PaymentRequest{}, repo.ErrNotFound
	}
	return p, nil
}

func (r memPaymentRepo) List(ctx context.Context, f repo.PaymentListFilter) ([]model.PaymentRequest, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.PaymentRequest
	for _, p := range r.s.payments {
		if f.UserID != nil && p.UserID != *f.UserID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return pageOf(out, f.Page, f.Limit), int64(len(out)), nil
}

func (r memPaymentRepo) UpdateStatusIf(ctx context.Context, u repo.PaymentTransitionUpdate) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[u.ID]
	if !ok || p.Status != u.From {
		return false, nil
	}
	p.Status = u.To
	p.UpdatedAt = u.At
	if u.ApprovedByAdminID != nil {
		p.ApprovedByAdminID = u.ApprovedByAdminID
	}
	if u.ConfirmedBySuperAdminID != nil {
		p.ConfirmedBySuperAdminID = u.ConfirmedBySuperAdminID
	}
	r.s.payments[u.ID] = p
	return true, nil
}

// ---- audit ----

type memAuditRepo struct{ s *memStore }

func (r memAuditRepo) Create(ctx context.Context, l model.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = r.s.id()
	r.s.auditLogs = append(r.s.auditLogs, l)
	return nil
}

func (r memAuditRepo) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.AuditLog
	for _, l := range r.s.auditLogs {
		if f.Action != nil && l.Action != *f.Action {
			continue
		}
		if f.ResourceType != nil && l.ResourceType != *f.ResourceType {
			continue
		}
		if f.ResourceID != nil && l.ResourceID != *f.ResourceID {
			continue
		}
		if f.ActorUserID != nil && l.ActorUserID != *f.ActorUserID {
			continue
		}
		out = append(out, l)
	}
	total := int64(len(out))
	if f.Offset >= len(out) {
		return []model.AuditLog{}, total, nil
	}
	out = out[f.Offset:]
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

// =====================
// 監査ログの記録先（同期で貯めるだけ）
// =====================

type recordingAudit struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func (a *recordingAudit) Record(ctx context.Context, entries ...model.AuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entries...)
}

func (a *recordingAudit) all() []model.AuditLog {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.AuditLog(nil), a.entries...)
}

// =====================
// seed / 参照ヘルパー
// =====================

func (s *memStore) addUser(t *testing.T, role model.Role) model.Actor {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	s.users[id] = model.User{ID: id, Email: fmt.Sprintf("%s-%d@example.com", strings.ToLower(string(role)), id), Role: role, IsActive: true}
	return model.Actor{UserID: id, Role: role}
}

func (s *memStore) addProduct(t *testing.T, name string, price string, stock int64) model.Product {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	p := model.Product{
		ID:       s.id(),
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	s.products[p.ID] = p
	return p
}

func (s *memStore) addCartItem(t *testing.T, userID, productID, qty int64) {
	t.Helper()
	require.NoError(t, memCartItemRepo{s}.AddQuantity(context.Background(), userID, productID, qty))
}

func (s *memStore) stockOf(productID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[productID].Stock
}

func (s *memStore) setPrice(productID int64, price string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.products[productID]
	p.Price = decimal.RequireFromString(price)
	s.products[productID] = p
}

func (s *memStore) cartSize(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.cartItems {
		if it.UserID == userID {
			n++
		}
	}
	return n
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *memStore) orderItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orderItems)
}

func (s *memStore) payment(id uuid.UUID) model.PaymentRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payments[id]
}

func (s *memStore) user(id int64) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

var testAddress = model.ShippingAddress{
	Street:  "1-2-3 Shibuya",
	City:    "Shibuya-ku",
	State:   "Tokyo",
	ZipCode: "150-0002",
	Country: "JP",
}

// HTTPErrorの種別まで確認する
func requireKind(t *testing.T, err error, kind usecase.ErrorKind) *usecase.HTTPError {
	t.Helper()
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "err=%v", err)
	require.Equal(t, kind, he.Kind, "err=%v", err)
	return he
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
