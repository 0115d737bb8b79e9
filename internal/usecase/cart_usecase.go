package usecase

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartUsecase は /cart の業務ロジック。
// 価格は持たず、表示のたびに商品の現在価格を使う。在庫は減らさない。
type CartUsecase struct {
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	log          *zap.Logger
}

func NewCartUsecase(cartItemRepo repo.CartItemRepository, productRepo repo.ProductRepository, log *zap.Logger) *CartUsecase {
	return &CartUsecase{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		log:          log,
	}
}

type CartLineOutput struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int64           `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	Stock     int64           `json:"stock"`
	// 非公開・削除済みの商品はfalse（注文時にエラーになる）
	Available bool `json:"available"`
}

type CartSummary struct {
	ItemCount     int             `json:"itemCount"`
	TotalQuantity int64           `json:"totalQuantity"`
	Total         decimal.Decimal `json:"total"`
}

type CartOutput struct {
	Items   []CartLineOutput `json:"items"`
	Summary CartSummary      `json:"summary"`
}

type AddCartItemInput struct {
	ProductID int64
	// 0なら1扱い
	Quantity int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

func (u *CartUsecase) GetCart(ctx context.Context, actor model.Actor) (CartOutput, error) {
	if !actor.Authenticated() {
		return CartOutput{}, UnauthorizedError()
	}
	return u.buildCart(ctx, actor.UserID)
}

// 同一商品は数量を加算
func (u *CartUsecase) AddItem(ctx context.Context, actor model.Actor, in AddCartItemInput) (CartOutput, error) {
	if !actor.Authenticated() {
		return CartOutput{}, UnauthorizedError()
	}
	if in.ProductID <= 0 {
		return CartOutput{}, ValidationError("invalid productId")
	}
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		return CartOutput{}, ValidationError("invalid quantity")
	}

	p, err := u.activeProduct(ctx, in.ProductID)
	if err != nil {
		return CartOutput{}, err
	}

	// 既にカートにある分も含めて在庫を超えないか
	lines, err := u.cartItemRepo.ListLinesByUserID(ctx, actor.UserID)
	if err != nil {
		return CartOutput{}, internalError(u.log, "list cart lines", err)
	}
	var existing int64
	for _, l := range lines {
		if l.ProductID == in.ProductID {
			existing = l.Quantity
			break
		}
	}
	if existing+qty > p.Stock {
		return CartOutput{}, InsufficientStockError(p.ID, p.Name)
	}

	if err := u.cartItemRepo.AddQuantity(ctx, actor.UserID, in.ProductID, qty); err != nil {
		return CartOutput{}, internalError(u.log, "add cart item", err)
	}
	return u.buildCart(ctx, actor.UserID)
}

// 数量変更（所有チェック＋在庫チェック）
func (u *CartUsecase) UpdateItem(ctx context.Context, actor model.Actor, cartItemID int64, in UpdateCartItemInput) (CartOutput, error) {
	if !actor.Authenticated() {
		return CartOutput{}, UnauthorizedError()
	}
	if cartItemID <= 0 {
		return CartOutput{}, ValidationError("invalid id")
	}
	if in.Quantity < 1 {
		return CartOutput{}, ValidationError("invalid quantity")
	}

	item, err := u.ownedItem(ctx, actor.UserID, cartItemID)
	if err != nil {
		return CartOutput{}, err
	}

	p, err := u.activeProduct(ctx, item.ProductID)
	if err != nil {
		return CartOutput{}, err
	}
	if in.Quantity > p.Stock {
		return CartOutput{}, InsufficientStockError(p.ID, p.Name)
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartOutput{}, NotFoundError("cart item not found")
		}
		return CartOutput{}, internalError(u.log, "update cart item", err)
	}
	return u.buildCart(ctx, actor.UserID)
}

func (u *CartUsecase) RemoveItem(ctx context.Context, actor model.Actor, cartItemID int64) (CartOutput, error) {
	if !actor.Authenticated() {
		return CartOutput{}, UnauthorizedError()
	}
	if cartItemID <= 0 {
		return CartOutput{}, ValidationError("invalid id")
	}

	if _, err := u.ownedItem(ctx, actor.UserID, cartItemID); err != nil {
		return CartOutput{}, err
	}
	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartOutput{}, NotFoundError("cart item not found")
		}
		return CartOutput{}, internalError(u.log, "delete cart item", err)
	}
	return u.buildCart(ctx, actor.UserID)
}

func (u *CartUsecase) Clear(ctx context.Context, actor model.Actor) (CartOutput, error) {
	if !actor.Authenticated() {
		return CartOutput{}, UnauthorizedError()
	}
	if _, err := u.cartItemRepo.DeleteByUserID(ctx, actor.UserID); err != nil {
		return CartOutput{}, internalError(u.log, "clear cart", err)
	}
	return CartOutput{Items: []CartLineOutput{}, Summary: CartSummary{Total: decimal.Zero}}, nil
}

// 他人の明細は存在しない扱い
func (u *CartUsecase) ownedItem(ctx context.Context, userID, cartItemID int64) (model.CartItem, error) {
	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.CartItem{}, NotFoundError("cart item not found")
	}
	if err != nil {
		return model.CartItem{}, internalError(u.log, "find cart item", err)
	}
	if item.UserID != userID {
		return model.CartItem{}, NotFoundError("cart item not found")
	}
	return item, nil
}

func (u *CartUsecase) activeProduct(ctx context.Context, productID int64) (model.Product, error) {
	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NotFoundError("product not found")
	}
	if err != nil {
		return model.Product{}, internalError(u.log, "find product", err)
	}
	if !p.Available() {
		return model.Product{}, ValidationError("product is not available")
	}
	return p, nil
}

func (u *CartUsecase) buildCart(ctx context.Context, userID int64) (CartOutput, error) {
	lines, err := u.cartItemRepo.ListLinesByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, internalError(u.log, "list cart lines", err)
	}
	return toCartOutput(lines), nil
}

// 合計は注文可能な行だけで計算する
func toCartOutput(lines []model.CartLine) CartOutput {
	out := CartOutput{Items: make([]CartLineOutput, 0, len(lines)), Summary: CartSummary{Total: decimal.Zero}}
	for _, l := range lines {
		o := CartLineOutput{
			ID:        l.CartItemID,
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal(),
			Stock:     l.Stock,
			Available: l.Orderable(),
		}
		out.Items = append(out.Items, o)

		out.Summary.ItemCount++
		out.Summary.TotalQuantity += l.Quantity
		if o.Available {
			out.Summary.Total = out.Summary.Total.Add(o.LineTotal)
		}
	}
	return out
}
