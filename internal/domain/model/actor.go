package model

// 操作する主体。認証済みのuser_idとroleをusecaseへ明示的に渡す。
type Actor struct {
	UserID int64
	Role   Role
}

func (a Actor) Authenticated() bool {
	return a.UserID > 0 && a.Role.Valid()
}

func (a Actor) IsAdmin() bool {
	return a.Authenticated() && a.Role.AtLeast(RoleAdmin)
}

func (a Actor) IsSuperAdmin() bool {
	return a.Authenticated() && a.Role == RoleSuperAdmin
}
