package handler

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminUserHandler struct {
	uc *usecase.UserAdminUsecase
}

func NewAdminUserHandler(uc *usecase.UserAdminUsecase) *AdminUserHandler {
	return &AdminUserHandler{uc: uc}
}

type UserRoleUpdateRequest struct {
	Role string `json:"role" validate:"required"`
}

type UserResponse struct {
	Message string          `json:"message"`
	User    usecase.UserDTO `json:"user"`
}

// /users/admin 配下は全部「JWT必須 + token_version一致 + SUPER_ADMIN限定」
func (h *AdminUserHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/users/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.RequireRole(model.RoleSuperAdmin))

	admin.GET("/all", h.list)
	admin.PUT("/:id/role", h.changeRole)
	admin.DELETE("/:id", h.deactivate)
}

func (h *AdminUserHandler) list(c echo.Context) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return writeError(c, err)
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), middleware.ActorFrom(c), usecase.UserListInput{
		Page:  page,
		Limit: limit,
		Role:  c.QueryParam("role"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) changeRole(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req UserRoleUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	user, err := h.uc.ChangeRole(c.Request().Context(), middleware.ActorFrom(c), userID, req.Role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, UserResponse{Message: "role updated", User: user})
}

// 物理削除ではなく無効化
func (h *AdminUserHandler) deactivate(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	user, err := h.uc.Deactivate(c.Request().Context(), middleware.ActorFrom(c), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, UserResponse{Message: "user deactivated", User: user})
}
