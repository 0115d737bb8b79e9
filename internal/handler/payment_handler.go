package handler

import (
	"context"
	"net/http"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /payments
// roleの判定はusecase側（遷移表と同じ場所）で行う
type PaymentHandler struct {
	uc    *usecase.PaymentUsecase
	limit echo.MiddlewareFunc
}

func NewPaymentHandler(uc *usecase.PaymentUsecase, limit echo.MiddlewareFunc) *PaymentHandler {
	return &PaymentHandler{uc: uc, limit: limit}
}

type PaymentCreateRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/payments")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.POST("", h.create, h.limit)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.PUT("/:id/approve", h.approve)
	g.PUT("/:id/reject", h.reject)
	g.PUT("/:id/confirm", h.confirm)
}

func (h *PaymentHandler) create(c echo.Context) error {
	var req PaymentCreateRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, usecase.ValidationError("invalid amount"))
	}

	p, err := h.uc.Create(c.Request().Context(), middleware.ActorFrom(c), req.Amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PaymentHandler) list(c echo.Context) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return writeError(c, err)
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), middleware.ActorFrom(c), usecase.PaymentListInput{
		Status: c.QueryParam("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) detail(c echo.Context) error {
	id, err := paymentID(c)
	if err != nil {
		return writeError(c, err)
	}

	p, err := h.uc.Get(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PaymentHandler) approve(c echo.Context) error {
	return h.transition(c, h.uc.Approve)
}

func (h *PaymentHandler) reject(c echo.Context) error {
	return h.transition(c, h.uc.Reject)
}

func (h *PaymentHandler) confirm(c echo.Context) error {
	return h.transition(c, h.uc.Confirm)
}

type paymentTransitionFunc func(ctx context.Context, actor model.Actor, id uuid.UUID) (model.PaymentRequest, error)

func (h *PaymentHandler) transition(c echo.Context, fn paymentTransitionFunc) error {
	id, err := paymentID(c)
	if err != nil {
		return writeError(c, err)
	}

	p, err := fn(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func paymentID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, usecase.ValidationError("invalid id")
	}
	return id, nil
}
