package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, in RegisterInput) error
	ValidateLogin(ctx context.Context, in LoginInput) error
}

type UserDTO struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         model.Role `json:"role"`
	TokenVersion int        `json:"tokenVersion"`
	IsActive     bool       `json:"isActive"`
}

type AccessTokenDTO struct {
	AccessToken  string `json:"accessToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int    `json:"expiresIn"`
	TokenVersion int    `json:"tokenVersion"`
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"max=255"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginOutput struct {
	User  UserDTO        `json:"user"`
	Token AccessTokenDTO `json:"token"`
}

// トークンの発行だけを行う。リフレッシュトークンは持たない。
type AuthUsecase struct {
	secret    []byte
	ttl       time.Duration
	users     repository.UserRepository
	validator AuthValidator
	log       *zap.Logger
	now       func() time.Time
}

func NewAuthUsecase(
	secret string,
	ttl time.Duration,
	users repository.UserRepository,
	validator AuthValidator,
	log *zap.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		secret:    []byte(secret),
		ttl:       ttl,
		users:     users,
		validator: validator,
		log:       log,
		now:       time.Now,
	}
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserDTO, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, in); err != nil {
		return UserDTO{}, err
	}

	//パスワードは必ずハッシュ化して保存
	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserDTO{}, internalError(u.log, "hash password", err)
	}

	now := u.now()
	user := &model.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: string(pwHash),
		Role:         model.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	//email重複はunique制約で弾く
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return UserDTO{}, ConflictError("email already used")
		}
		return UserDTO{}, internalError(u.log, "create user", err)
	}

	return toUserDTO(user), nil
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	in.Email = normalizeEmail(in.Email)
	if err := u.validator.ValidateLogin(ctx, in); err != nil {
		return LoginOutput{}, err
	}

	user, err := u.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	if err != nil {
		return LoginOutput{}, internalError(u.log, "find user", err)
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return LoginOutput{}, ForbiddenError("user is inactive")
	}

	now := u.now()
	user.LastLoginAt = &now
	if err := u.users.Update(ctx, user); err != nil {
		//ログインは続行する
		u.log.Warn("update last login failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	token, err := u.issueAccessToken(user, now)
	if err != nil {
		return LoginOutput{}, internalError(u.log, "issue access token", err)
	}

	return LoginOutput{
		User: toUserDTO(user),
		Token: AccessTokenDTO{
			AccessToken:  token,
			TokenType:    "Bearer",
			ExpiresIn:    int(u.ttl.Seconds()),
			TokenVersion: user.TokenVersion,
		},
	}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, actor model.Actor) (UserDTO, error) {
	if !actor.Authenticated() {
		return UserDTO{}, UnauthorizedError()
	}

	user, err := u.users.FindByID(ctx, actor.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return UserDTO{}, UnauthorizedError()
	}
	if err != nil {
		return UserDTO{}, internalError(u.log, "find user", err)
	}
	if !user.IsActive {
		return UserDTO{}, ForbiddenError("user is inactive")
	}
	return toUserDTO(user), nil
}

// jwt発行。claimsは sub/role/tv/iat/exp
func (u *AuthUsecase) issueAccessToken(user *model.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"tv":   user.TokenVersion,
		"iat":  now.Unix(),
		"exp":  now.Add(u.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.secret)
}

func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		TokenVersion: u.TokenVersion,
		IsActive:     u.IsActive,
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
