package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 管理画面のユーザー一覧。Roleが空なら全ロール
type UserListFilter struct {
	Page  int
	Limit int
	Role  model.Role
}

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（email重複はErrConflict）
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。無ければErrNotFound
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// ユーザー情報の更新=>アクティブかどうか・ロールの変更・最後のログイン更新など
	Update(ctx context.Context, user *model.User) error
	//トークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, userID int64) error
	// ユーザー行をロック。同一ユーザーの注文確定を直列にする
	LockByID(ctx context.Context, userID int64) error
	// 登録の新しい順。件数も返す
	List(ctx context.Context, f UserListFilter) ([]model.User, int64, error)
}
