package usecase

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

// SUPER_ADMIN によるユーザー管理。
// ロール変更・無効化のたびに token_version を上げ、発行済みトークンを失効させる。
type UserAdminUsecase struct {
	users repo.UserRepository
	tx    repo.TransactionManager
	audit AuditRecorder
	log   *zap.Logger
	now   func() time.Time
}

func NewUserAdminUsecase(users repo.UserRepository, tx repo.TransactionManager, audit AuditRecorder, log *zap.Logger) *UserAdminUsecase {
	return &UserAdminUsecase{users: users, tx: tx, audit: audit, log: log, now: time.Now}
}

type UserListInput struct {
	Page  int
	Limit int
	Role  string
}

type UserListOutput struct {
	Items      []UserDTO  `json:"items"`
	Pagination Pagination `json:"pagination"`
}

func requireSuperAdmin(actor model.Actor) error {
	if !actor.Authenticated() {
		return UnauthorizedError()
	}
	if !actor.IsSuperAdmin() {
		return ForbiddenError("super admin only")
	}
	return nil
}

func (u *UserAdminUsecase) List(ctx context.Context, actor model.Actor, in UserListInput) (UserListOutput, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return UserListOutput{}, err
	}
	page, limit, err := normalizePage(in.Page, in.Limit)
	if err != nil {
		return UserListOutput{}, err
	}

	f := repo.UserListFilter{Page: page, Limit: limit}
	if in.Role != "" {
		role, ok := model.ParseRole(in.Role)
		if !ok {
			return UserListOutput{}, ValidationError("invalid role")
		}
		f.Role = role
	}

	users, total, err := u.users.List(ctx, f)
	if err != nil {
		return UserListOutput{}, internalError(u.log, "list users", err)
	}

	items := make([]UserDTO, 0, len(users))
	for i := range users {
		items = append(items, toUserDTO(&users[i]))
	}
	return UserListOutput{Items: items, Pagination: newPagination(page, limit, total)}, nil
}

// 自分自身のロールは変えられない（SUPER_ADMINが0人になるのを防ぐ）
func (u *UserAdminUsecase) ChangeRole(ctx context.Context, actor model.Actor, userID int64, roleName string) (UserDTO, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return UserDTO{}, err
	}
	if userID <= 0 {
		return UserDTO{}, ValidationError("invalid id")
	}
	role, ok := model.ParseRole(roleName)
	if !ok {
		return UserDTO{}, ValidationError("invalid role")
	}
	if userID == actor.UserID {
		return UserDTO{}, ForbiddenError("cannot change own role")
	}

	var out UserDTO
	var entry *model.AuditLog

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := u.lockUser(ctx, r, userID)
		if err != nil {
			return err
		}
		if user.Role == role {
			out = toUserDTO(user)
			return nil
		}

		before := user.Role
		user.Role = role
		if err := u.saveAndRevoke(ctx, r, user); err != nil {
			return err
		}
		out = toUserDTO(user)

		e := auditEntry(actor, model.AuditActionUpdateRole, model.AuditResourceUser, idString(userID))
		e.BeforeJSON = toJSON(map[string]interface{}{"role": before})
		e.AfterJSON = toJSON(map[string]interface{}{"role": role})
		entry = &e
		return nil
	})
	if err != nil {
		return UserDTO{}, err
	}

	if entry != nil {
		u.audit.Record(ctx, *entry)
	}
	return out, nil
}

// 削除はせず is_active=false にする。注文・決済の参照は残る
func (u *UserAdminUsecase) Deactivate(ctx context.Context, actor model.Actor, userID int64) (UserDTO, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return UserDTO{}, err
	}
	if userID <= 0 {
		return UserDTO{}, ValidationError("invalid id")
	}
	if userID == actor.UserID {
		return UserDTO{}, ForbiddenError("cannot deactivate yourself")
	}

	var out UserDTO
	var entry *model.AuditLog

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := u.lockUser(ctx, r, userID)
		if err != nil {
			return err
		}
		if user.Role == model.RoleSuperAdmin {
			return ForbiddenError("cannot deactivate super admin users")
		}
		if !user.IsActive {
			out = toUserDTO(user)
			return nil
		}

		user.IsActive = false
		if err := u.saveAndRevoke(ctx, r, user); err != nil {
			return err
		}
		out = toUserDTO(user)

		e := auditEntry(actor, model.AuditActionDeactivate, model.AuditResourceUser, idString(userID))
		e.BeforeJSON = toJSON(map[string]interface{}{"isActive": true})
		e.AfterJSON = toJSON(map[string]interface{}{"isActive": false})
		entry = &e
		return nil
	})
	if err != nil {
		return UserDTO{}, err
	}

	if entry != nil {
		u.audit.Record(ctx, *entry)
	}
	return out, nil
}

func (u *UserAdminUsecase) lockUser(ctx context.Context, r repo.TxRepos, userID int64) (*model.User, error) {
	if err := r.Users().LockByID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NotFoundError("user not found")
		}
		return nil, internalError(u.log, "lock user", err)
	}
	user, err := r.Users().FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NotFoundError("user not found")
	}
	if err != nil {
		return nil, internalError(u.log, "find user", err)
	}
	return user, nil
}

// 保存と同じトランザクションでtoken_versionを上げる
func (u *UserAdminUsecase) saveAndRevoke(ctx context.Context, r repo.TxRepos, user *model.User) error {
	user.UpdatedAt = u.now()
	if err := r.Users().Update(ctx, user); err != nil {
		return internalError(u.log, "update user", err)
	}
	if err := r.Users().IncrementTokenVersion(ctx, user.ID); err != nil {
		return internalError(u.log, "increment token version", err)
	}
	user.TokenVersion++
	return nil
}
