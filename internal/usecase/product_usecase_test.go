package usecase_test

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProductFixture(t *testing.T) (*memStore, *recordingAudit, *usecase.ProductUsecase) {
	t.Helper()
	store := newMemStore()
	audit := &recordingAudit{}
	uc := usecase.NewProductUsecase(memProductRepo{store}, memCategoryRepo{store}, store, audit, zap.NewNop())
	return store, audit, uc
}

func TestProduct_ListPublicValidation(t *testing.T) {
	_, _, uc := newProductFixture(t)
	ten := dec("10")
	one := dec("1")
	neg := dec("-1")

	cases := []struct {
		name string
		in   usecase.ListProductsInput
	}{
		{"sort", usecase.ListProductsInput{Sort: "random"}},
		{"min>max", usecase.ListProductsInput{MinPrice: &ten, MaxPrice: &one}},
		{"negative", usecase.ListProductsInput{MinPrice: &neg}},
		{"limit", usecase.ListProductsInput{Limit: 1000}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.ListPublicProducts(context.Background(), tc.in)
			requireKind(t, err, usecase.KindValidation)
		})
	}
}

func TestProduct_ListPublicFilters(t *testing.T) {
	store, _, uc := newProductFixture(t)
	store.addProduct(t, "Green Tea", "3.00", 1)
	store.addProduct(t, "Black Tea", "8.00", 1)
	store.addProduct(t, "Coffee", "5.00", 1)

	minPrice := dec("4")
	out, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{Q: "tea", MinPrice: &minPrice})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Black Tea", out.Items[0].Name)
	assert.Equal(t, int64(1), out.Pagination.Total)
}

func TestProduct_DetailHidesInactive(t *testing.T) {
	store, _, uc := newProductFixture(t)
	p := store.addProduct(t, "A", "1.00", 1)
	require.NoError(t, memProductRepo{store}.Update(context.Background(), model.Product{ID: p.ID, Name: "A", Price: p.Price, IsActive: false}))

	_, err := uc.GetProductDetail(context.Background(), p.ID)
	requireKind(t, err, usecase.KindNotFound)
}

func TestProduct_AdminCreateRequiresAdmin(t *testing.T) {
	_, audit, uc := newProductFixture(t)
	in := usecase.AdminProductInput{Name: "A", Price: dec("1.00"), Stock: 1, IsActive: true}

	_, err := uc.AdminCreateProduct(context.Background(), userActor, in)
	requireKind(t, err, usecase.KindForbidden)

	p, err := uc.AdminCreateProduct(context.Background(), adminActor, in)
	require.NoError(t, err)
	assert.NotZero(t, p.ID)

	entries := audit.all()
	require.Len(t, entries, 1)
	assert.Equal(t, model.AuditActionCreate, entries[0].Action)
	assert.Equal(t, model.AuditResourceProduct, entries[0].ResourceType)
}

func TestProduct_AdminCreateValidation(t *testing.T) {
	_, _, uc := newProductFixture(t)
	missingCategory := int64(404)

	cases := []usecase.AdminProductInput{
		{Name: " ", Price: dec("1")},
		{Name: "A", Price: dec("-0.01")},
		{Name: "A", Price: dec("1.005")},
		{Name: "A", Price: dec("1"), Stock: -1},
		{Name: "A", Price: dec("1"), CategoryID: &missingCategory},
	}
	for _, in := range cases {
		_, err := uc.AdminCreateProduct(context.Background(), adminActor, in)
		requireKind(t, err, usecase.KindValidation)
	}

	p, err := uc.AdminCreateProduct(context.Background(), adminActor, usecase.AdminProductInput{Name: "A", Price: dec("12.500"), IsActive: true})
	require.NoError(t, err)
	assert.True(t, dec("12.5").Equal(p.Price))
}

// 価格・名前は変わるが在庫は変わらない
func TestProduct_AdminUpdateKeepsStock(t *testing.T) {
	store, audit, uc := newProductFixture(t)
	p := store.addProduct(t, "A", "1.00", 7)

	updated, err := uc.AdminUpdateProduct(context.Background(), adminActor, p.ID, usecase.AdminProductInput{
		Name: "A2", Price: dec("2.00"), Stock: 0, IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "A2", updated.Name)
	assert.Equal(t, int64(7), updated.Stock)
	assert.Equal(t, int64(7), store.stockOf(p.ID))

	entries := audit.all()
	require.Len(t, entries, 1)
	assert.Equal(t, model.AuditActionUpdate, entries[0].Action)
	assert.Contains(t, entries[0].BeforeJSON, `"name":"A"`)
	assert.Contains(t, entries[0].AfterJSON, `"name":"A2"`)

	_, err = uc.AdminUpdateProduct(context.Background(), adminActor, 9999, usecase.AdminProductInput{Name: "x", Price: decimal.Zero})
	requireKind(t, err, usecase.KindNotFound)
}

func TestProduct_AdminDelete(t *testing.T) {
	store, audit, uc := newProductFixture(t)
	p := store.addProduct(t, "A", "1.00", 1)

	require.NoError(t, uc.AdminDeleteProduct(context.Background(), adminActor, p.ID))
	_, err := uc.GetProductDetail(context.Background(), p.ID)
	requireKind(t, err, usecase.KindNotFound)

	err = uc.AdminDeleteProduct(context.Background(), adminActor, p.ID)
	requireKind(t, err, usecase.KindNotFound)
	assert.Len(t, audit.all(), 1)
}

func TestProduct_AdminUpdateInventory(t *testing.T) {
	store, audit, uc := newProductFixture(t)
	p := store.addProduct(t, "A", "1.00", 10)

	out, err := uc.AdminUpdateInventory(context.Background(), adminActor, p.ID, usecase.AdminUpdateInventoryInput{Stock: 4, Reason: "stocktake"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), out.Stock)
	assert.Equal(t, int64(4), store.stockOf(p.ID))

	require.Len(t, store.adjustments, 1)
	adj := store.adjustments[0]
	assert.Equal(t, int64(-6), adj.Delta)
	assert.Equal(t, int64(4), adj.StockAfter)
	assert.Equal(t, adminActor.UserID, adj.AdminUserID)
	assert.Equal(t, "stocktake", adj.Reason)

	entries := audit.all()
	require.Len(t, entries, 1)
	assert.Equal(t, model.AuditActionUpdateStock, entries[0].Action)
	assert.JSONEq(t, `{"stock":10}`, entries[0].BeforeJSON)

	_, err = uc.AdminUpdateInventory(context.Background(), adminActor, p.ID, usecase.AdminUpdateInventoryInput{Stock: -1, Reason: "x"})
	requireKind(t, err, usecase.KindValidation)
	_, err = uc.AdminUpdateInventory(context.Background(), adminActor, p.ID, usecase.AdminUpdateInventoryInput{Stock: 1, Reason: " "})
	requireKind(t, err, usecase.KindValidation)
	_, err = uc.AdminUpdateInventory(context.Background(), adminActor, 9999, usecase.AdminUpdateInventoryInput{Stock: 1, Reason: "x"})
	requireKind(t, err, usecase.KindNotFound)
	assert.Len(t, store.adjustments, 1)
}

func TestProduct_Categories(t *testing.T) {
	_, _, uc := newProductFixture(t)

	c, err := uc.AdminCreateCategory(context.Background(), adminActor, usecase.AdminCategoryInput{Name: "Tea"})
	require.NoError(t, err)
	assert.True(t, c.IsActive)

	_, err = uc.AdminCreateCategory(context.Background(), adminActor, usecase.AdminCategoryInput{Name: "Tea"})
	requireKind(t, err, usecase.KindConflict)

	_, err = uc.AdminCreateCategory(context.Background(), userActor, usecase.AdminCategoryInput{Name: "Coffee"})
	requireKind(t, err, usecase.KindForbidden)

	cats, err := uc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Tea", cats[0].Name)

	// カテゴリ指定で商品作成
	p, err := uc.AdminCreateProduct(context.Background(), adminActor, usecase.AdminProductInput{Name: "Sencha", Price: dec("4.00"), CategoryID: &c.ID, IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, c.ID, *p.CategoryID)
}
