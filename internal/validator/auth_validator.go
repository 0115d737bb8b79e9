package validator

import (
	"context"
	"strings"

	"storefront/internal/usecase"

	playground "github.com/go-playground/validator/v10"
)

// よくある弱いパスワード
var weakPasswords = map[string]struct{}{
	"password":    {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"1234567890":  {},
	"qwertyuiop":  {},
	"letmein123":  {},
	"admin123":    {},
}

type authValidator struct {
	v *playground.Validate
}

// Usecaseは interface を依存注入
func NewAuthValidator() usecase.AuthValidator {
	return &authValidator{v: newValidate()}
}

// サインアップの入力を検証
func (a *authValidator) ValidateRegister(ctx context.Context, in usecase.RegisterInput) error {
	if err := a.v.StructCtx(ctx, in); err != nil {
		return toValidationError(err)
	}
	if _, weak := weakPasswords[strings.ToLower(in.Password)]; weak {
		return usecase.ValidationError("password is too weak")
	}
	return nil
}

// ログインの入力を検証
func (a *authValidator) ValidateLogin(ctx context.Context, in usecase.LoginInput) error {
	if err := a.v.StructCtx(ctx, in); err != nil {
		return toValidationError(err)
	}
	return nil
}
