package repository

import (
	"context"

	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	users           repo.UserRepository
	orders          repo.OrderRepository
	orderItems      repo.OrderItemRepository
	cartItems       repo.CartItemRepository
	inventory       repo.InventoryRepository
	products        repo.ProductRepository
	paymentRequests repo.PaymentRequestRepository
}

func (r *txReposGorm) Users() repo.UserRepository                     { return r.users }
func (r *txReposGorm) Orders() repo.OrderRepository                   { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository           { return r.orderItems }
func (r *txReposGorm) CartItems() repo.CartItemRepository             { return r.cartItems }
func (r *txReposGorm) Inventory() repo.InventoryRepository            { return r.inventory }
func (r *txReposGorm) Products() repo.ProductRepository               { return r.products }
func (r *txReposGorm) PaymentRequests() repo.PaymentRequestRepository { return r.paymentRequests }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fnがnilを返せばcommit、errorかpanicならrollback（gorm.Transactionの挙動）
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		return fn(newTxRepos(tx))
	})
}

func newTxRepos(tx *gorm.DB) *txReposGorm {
	return &txReposGorm{
		users:           NewUserGormRepository(tx),
		orders:          NewOrderGormRepository(tx),
		orderItems:      NewOrderItemGormRepository(tx),
		cartItems:       NewCartItemGormRepository(tx),
		inventory:       NewInventoryGormRepository(tx),
		products:        NewProductGormRepository(tx),
		paymentRequests: NewPaymentRequestGormRepository(tx),
	}
}
