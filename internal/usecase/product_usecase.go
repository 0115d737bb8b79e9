package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	tx           repo.TransactionManager
	audit        AuditRecorder
	log          *zap.Logger
	now          func() time.Time
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	tx repo.TransactionManager,
	audit AuditRecorder,
	log *zap.Logger,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		tx:           tx,
		audit:        audit,
		log:          log,
		now:          time.Now,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page       int
	Limit      int
	Q          string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	CategoryID *int64
	Sort       string
}

type ProductListOutput struct {
	Items      []model.Product `json:"items"`
	Pagination Pagination      `json:"pagination"`
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	page, limit, err := normalizePage(in.Page, in.Limit)
	if err != nil {
		return ProductListOutput{}, err
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, ValidationError("q too long")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return ProductListOutput{}, ValidationError("minPrice must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return ProductListOutput{}, ValidationError("maxPrice must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return ProductListOutput{}, ValidationError("minPrice must be <= maxPrice")
	}
	switch in.Sort {
	case "", "new", "name", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, ValidationError("invalid sort")
	}

	items, total, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Page:       page,
		Limit:      limit,
		Q:          strings.TrimSpace(in.Q),
		MinPrice:   in.MinPrice,
		MaxPrice:   in.MaxPrice,
		CategoryID: in.CategoryID,
		Sort:       in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, internalError(u.log, "list products", err)
	}

	return ProductListOutput{Items: items, Pagination: newPagination(page, limit, total)}, nil
}

// 非公開は存在しない扱い
func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, ValidationError("invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NotFoundError("product not found")
	}
	if err != nil {
		return model.Product{}, internalError(u.log, "find product", err)
	}
	if !p.Available() {
		return model.Product{}, NotFoundError("product not found")
	}
	return p, nil
}

type AdminProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	CategoryID  *int64
	IsActive    bool
}

func (u *ProductUsecase) validateProductInput(ctx context.Context, in AdminProductInput) error {
	if blank(in.Name) {
		return ValidationError("name required")
	}
	if len(strings.TrimSpace(in.Name)) > 255 {
		return ValidationError("name too long")
	}
	if in.Price.IsNegative() {
		return ValidationError("price must be >= 0")
	}
	if !in.Price.Equal(in.Price.Round(2)) {
		return ValidationError("price must have at most 2 decimal places")
	}
	if in.Stock < 0 {
		return ValidationError("stock must be >= 0")
	}
	if in.CategoryID != nil {
		if _, err := u.categoryRepo.FindByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ValidationError("category not found")
			}
			return internalError(u.log, "find category", err)
		}
	}
	return nil
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, actor model.Actor, in AdminProductInput) (model.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return model.Product{}, err
	}
	if err := u.validateProductInput(ctx, in); err != nil {
		return model.Product{}, err
	}

	now := u.now()
	p, err := u.productRepo.Create(ctx, model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		IsActive:    in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Product{}, internalError(u.log, "create product", err)
	}

	e := auditEntry(actor, model.AuditActionCreate, model.AuditResourceProduct, idString(p.ID))
	e.AfterJSON = toJSON(productSnapshot(p))
	u.audit.Record(ctx, e)
	return p, nil
}

// 在庫はここでは変えない（AdminUpdateInventoryを使う）。
// 価格を変えても過去の注文明細には影響しない。
func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, actor model.Actor, productID int64, in AdminProductInput) (model.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return model.Product{}, err
	}
	if productID <= 0 {
		return model.Product{}, ValidationError("invalid product id")
	}
	if err := u.validateProductInput(ctx, in); err != nil {
		return model.Product{}, err
	}

	before, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NotFoundError("product not found")
	}
	if err != nil {
		return model.Product{}, internalError(u.log, "find product", err)
	}

	after := before
	after.Name = strings.TrimSpace(in.Name)
	after.Description = in.Description
	after.Price = in.Price
	after.CategoryID = in.CategoryID
	after.IsActive = in.IsActive
	after.UpdatedAt = u.now()

	if err := u.productRepo.Update(ctx, after); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NotFoundError("product not found")
		}
		return model.Product{}, internalError(u.log, "update product", err)
	}

	e := auditEntry(actor, model.AuditActionUpdate, model.AuditResourceProduct, idString(productID))
	e.BeforeJSON = toJSON(productSnapshot(before))
	e.AfterJSON = toJSON(productSnapshot(after))
	u.audit.Record(ctx, e)
	return after, nil
}

func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, actor model.Actor, productID int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if productID <= 0 {
		return ValidationError("invalid product id")
	}

	err := u.productRepo.SoftDelete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NotFoundError("product not found")
	}
	if err != nil {
		return internalError(u.log, "delete product", err)
	}

	u.audit.Record(ctx, auditEntry(actor, model.AuditActionDelete, model.AuditResourceProduct, idString(productID)))
	return nil
}

type AdminUpdateInventoryInput struct {
	Stock  int64
	Reason string
}

// 在庫の現在値を設定。行ロック→更新→調整履歴を1トランザクションで行う
func (u *ProductUsecase) AdminUpdateInventory(ctx context.Context, actor model.Actor, productID int64, in AdminUpdateInventoryInput) (model.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return model.Product{}, err
	}
	if productID <= 0 {
		return model.Product{}, ValidationError("invalid product id")
	}
	if in.Stock < 0 {
		return model.Product{}, ValidationError("stock must be >= 0")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return model.Product{}, ValidationError("reason required")
	}
	if len(reason) > 255 {
		return model.Product{}, ValidationError("reason too long")
	}

	var before, after model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Inventory().FindForUpdate(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFoundError("product not found")
		}
		if err != nil {
			return internalError(u.log, "lock product", err)
		}

		if err := r.Inventory().SetStock(ctx, productID, in.Stock); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NotFoundError("product not found")
			}
			return internalError(u.log, "set stock", err)
		}

		//履歴（差分）
		adj := model.InventoryAdjustment{
			ProductID:   productID,
			AdminUserID: actor.UserID,
			Delta:       in.Stock - p.Stock,
			StockAfter:  in.Stock,
			Reason:      reason,
			CreatedAt:   u.now(),
		}
		if err := r.Inventory().CreateAdjustment(ctx, adj); err != nil {
			return internalError(u.log, "create inventory adjustment", err)
		}

		before = p
		after = p
		after.Stock = in.Stock
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}

	e := auditEntry(actor, model.AuditActionUpdateStock, model.AuditResourceProduct, idString(productID))
	e.BeforeJSON = toJSON(map[string]interface{}{"stock": before.Stock})
	e.AfterJSON = toJSON(map[string]interface{}{"stock": after.Stock, "reason": reason})
	u.audit.Record(ctx, e)
	return after, nil
}

type AdminCategoryInput struct {
	Name        string
	Description string
}

func (u *ProductUsecase) AdminCreateCategory(ctx context.Context, actor model.Actor, in AdminCategoryInput) (model.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return model.Category{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Category{}, ValidationError("name required")
	}
	if len(name) > 100 {
		return model.Category{}, ValidationError("name too long")
	}

	now := u.now()
	c, err := u.categoryRepo.Create(ctx, model.Category{
		Name:        name,
		Description: in.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if errors.Is(err, repo.ErrConflict) {
		return model.Category{}, ConflictError("category already exists")
	}
	if err != nil {
		return model.Category{}, internalError(u.log, "create category", err)
	}

	e := auditEntry(actor, model.AuditActionCreate, model.AuditResourceCategory, idString(c.ID))
	e.AfterJSON = toJSON(map[string]interface{}{"name": c.Name})
	u.audit.Record(ctx, e)
	return c, nil
}

func (u *ProductUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	cats, err := u.categoryRepo.List(ctx, true)
	if err != nil {
		return nil, internalError(u.log, "list categories", err)
	}
	return cats, nil
}

func requireAdmin(actor model.Actor) error {
	if !actor.Authenticated() {
		return UnauthorizedError()
	}
	if !actor.IsAdmin() {
		return ForbiddenError("admin only")
	}
	return nil
}

func productSnapshot(p model.Product) map[string]interface{} {
	return map[string]interface{}{
		"name":       p.Name,
		"price":      p.Price,
		"stock":      p.Stock,
		"categoryId": p.CategoryID,
		"isActive":   p.IsActive,
	}
}
