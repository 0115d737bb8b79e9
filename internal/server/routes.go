package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type healthResponse struct {
	Status string `json:"status"`
}

func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", func(c echo.Context) error {
		if d.HealthCheck != nil {
			if err := d.HealthCheck(c.Request().Context()); err != nil {
				d.Log.Warn("health check failed", zap.Error(err))
				return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
	})

	// 公開
	d.Auth.RegisterRoutes(e, d.Config, d.UserRepo)
	d.Product.RegisterRoutes(e)

	// ログイン必須
	d.Cart.RegisterRoutes(e, d.Config, d.UserRepo)
	d.Order.RegisterRoutes(e, d.Config, d.UserRepo)
	d.Payment.RegisterRoutes(e, d.Config, d.UserRepo)

	// ADMIN以上
	d.AdminOrder.RegisterRoutes(e, d.Config, d.UserRepo)
	d.AdminProduct.RegisterRoutes(e, d.Config, d.UserRepo)

	// SUPER_ADMINのみ
	d.AdminUser.RegisterRoutes(e, d.Config, d.UserRepo)
}
