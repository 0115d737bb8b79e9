package usecase_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

// 入力検証はvalidatorパッケージ側でテストするので、ここでは素通し
type passValidator struct{}

func (passValidator) ValidateRegister(ctx context.Context, in usecase.RegisterInput) error { return nil }
func (passValidator) ValidateLogin(ctx context.Context, in usecase.LoginInput) error       { return nil }

func newAuthFixture(t *testing.T) (*memStore, *usecase.AuthUsecase) {
	t.Helper()
	store := newMemStore()
	return store, usecase.NewAuthUsecase(testSecret, 15*time.Minute, memUserRepo{store}, passValidator{}, zap.NewNop())
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	_, uc := newAuthFixture(t)
	ctx := context.Background()

	u, err := uc.Register(ctx, usecase.RegisterInput{Email: " Alice@Example.com ", Password: "password-123", Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, model.RoleUser, u.Role)

	out, err := uc.Login(ctx, usecase.LoginInput{Email: "alice@example.com", Password: "password-123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", out.Token.TokenType)
	assert.Equal(t, 900, out.Token.ExpiresIn)

	token, err := jwt.Parse(out.Token.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(u.ID), claims["sub"])
	assert.Equal(t, "USER", claims["role"])
	assert.Equal(t, float64(0), claims["tv"])
	assert.Equal(t, jwt.SigningMethodHS256, token.Method)
}

func TestAuth_RegisterDuplicateEmail(t *testing.T) {
	_, uc := newAuthFixture(t)
	in := usecase.RegisterInput{Email: "bob@example.com", Password: "password-123"}

	_, err := uc.Register(context.Background(), in)
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), in)
	requireKind(t, err, usecase.KindConflict)
}

func TestAuth_LoginFailures(t *testing.T) {
	store, uc := newAuthFixture(t)
	ctx := context.Background()

	u, err := uc.Register(ctx, usecase.RegisterInput{Email: "carol@example.com", Password: "password-123"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, usecase.LoginInput{Email: "carol@example.com", Password: "wrong-password"})
	requireKind(t, err, usecase.KindUnauthorized)

	_, err = uc.Login(ctx, usecase.LoginInput{Email: "nobody@example.com", Password: "password-123"})
	requireKind(t, err, usecase.KindUnauthorized)

	store.mu.Lock()
	stopped := store.users[u.ID]
	stopped.IsActive = false
	store.users[u.ID] = stopped
	store.mu.Unlock()

	_, err = uc.Login(ctx, usecase.LoginInput{Email: "carol@example.com", Password: "password-123"})
	requireKind(t, err, usecase.KindForbidden)
}

func TestAuth_Me(t *testing.T) {
	store, uc := newAuthFixture(t)
	admin := store.addUser(t, model.RoleAdmin)

	me, err := uc.Me(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, me.Role)

	_, err = uc.Me(context.Background(), model.Actor{UserID: 999, Role: model.RoleUser})
	requireKind(t, err, usecase.KindUnauthorized)
}

func TestAuditLogUsecase_List(t *testing.T) {
	store := newMemStore()
	auditRepo := memAuditRepo{store}
	uc := usecase.NewAuditLogUsecase(auditRepo, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, auditRepo.Create(ctx, model.AuditLog{ActorUserID: 1, ActorRole: model.RoleAdmin, Action: model.AuditActionApprove, ResourceType: model.AuditResourcePaymentRequest, ResourceID: "p-1"}))
	require.NoError(t, auditRepo.Create(ctx, model.AuditLog{ActorUserID: 2, ActorRole: model.RoleUser, Action: model.AuditActionCreate, ResourceType: model.AuditResourceOrder, ResourceID: "10"}))

	_, err := uc.List(ctx, userActor, usecase.AuditLogListInput{})
	requireKind(t, err, usecase.KindForbidden)

	out, err := uc.List(ctx, adminActor, usecase.AuditLogListInput{Action: "approve"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "p-1", out.Items[0].ResourceID)

	out, err = uc.List(ctx, adminActor, usecase.AuditLogListInput{ResourceType: "ORDER", ResourceID: "10"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(1), out.Pagination.Total)

	out, err = uc.List(ctx, adminActor, usecase.AuditLogListInput{Limit: 1, Page: 2})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(2), out.Pagination.Pages)
}
