package usecase

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// クライアントに返す固定のエラー種別
type ErrorKind string

const (
	KindValidation             ErrorKind = "VALIDATION_ERROR"
	KindUnauthorized           ErrorKind = "UNAUTHORIZED"
	KindForbidden              ErrorKind = "FORBIDDEN"
	KindNotFound               ErrorKind = "NOT_FOUND"
	KindInvalidStateTransition ErrorKind = "INVALID_STATE_TRANSITION"
	KindInsufficientStock      ErrorKind = "INSUFFICIENT_STOCK"
	KindEmptyCart              ErrorKind = "EMPTY_CART"
	KindConflict               ErrorKind = "CONFLICT"
	KindRateLimited            ErrorKind = "RATE_LIMITED"
	KindInternal               ErrorKind = "INTERNAL_ERROR"
)

type HTTPError struct {
	Status  int
	Kind    ErrorKind
	Message string
	// INSUFFICIENT_STOCKのときだけ
	ProductID int64
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// statusから種別を決める
func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Kind:    kindForStatus(status),
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusTooManyRequests:
		return KindRateLimited
	}
	return KindInternal
}

func ValidationError(message string) error {
	return NewHTTPError(http.StatusBadRequest, message)
}

func UnauthorizedError() error {
	return NewHTTPError(http.StatusUnauthorized, "unauthorized")
}

func ForbiddenError(message string) error {
	return NewHTTPError(http.StatusForbidden, message)
}

func NotFoundError(message string) error {
	return NewHTTPError(http.StatusNotFound, message)
}

func ConflictError(message string) error {
	return NewHTTPError(http.StatusConflict, message)
}

func InvalidStateTransitionError(message string) error {
	return &HTTPError{Status: http.StatusBadRequest, Kind: KindInvalidStateTransition, Message: message}
}

func InsufficientStockError(productID int64, name string) error {
	return &HTTPError{
		Status:    http.StatusBadRequest,
		Kind:      KindInsufficientStock,
		Message:   fmt.Sprintf("insufficient stock for %s", name),
		ProductID: productID,
	}
}

func EmptyCartError() error {
	return &HTTPError{Status: http.StatusBadRequest, Kind: KindEmptyCart, Message: "cart is empty"}
}

// 原因はログにだけ出し、クライアントには中身を返さない
func internalError(log *zap.Logger, op string, err error) error {
	log.Error("internal error", zap.String("op", op), zap.Error(err))
	return NewHTTPError(http.StatusInternalServerError, "db error")
}

// 入力が空白だけでないか
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
