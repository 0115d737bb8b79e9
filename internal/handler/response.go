package handler

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error     string            `json:"error"`
	Kind      usecase.ErrorKind `json:"kind"`
	ProductID *int64            `json:"productId,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// usecase.HTTPErrorはそのまま返す。それ以外は中身を出さずに500
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		res := ErrorResponse{Error: he.Message, Kind: he.Kind}
		if he.Kind == usecase.KindInsufficientStock && he.ProductID > 0 {
			id := he.ProductID
			res.ProductID = &id
		}
		return c.JSON(he.Status, res)
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Kind: usecase.KindInternal})
}

// Bind→Validate。Validatorはserverで登録する
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return usecase.ValidationError("invalid body")
	}
	return c.Validate(dst)
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, usecase.ValidationError("invalid " + name)
	}
	return id, nil
}

// 空なら0（usecase側でデフォルトになる）
func queryInt(c echo.Context, name string) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, usecase.ValidationError("invalid " + name)
	}
	return n, nil
}

func queryInt64Ptr(c echo.Context, name string) (*int64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, usecase.ValidationError("invalid " + name)
	}
	return &n, nil
}

func queryDecimalPtr(c echo.Context, name string) (*decimal.Decimal, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, usecase.ValidationError("invalid " + name)
	}
	return &d, nil
}

// RFC3339
func queryTimePtr(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, usecase.ValidationError("invalid " + name)
	}
	return &t, nil
}
