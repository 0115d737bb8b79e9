package model

import (
	"errors"
	"fmt"
)

type PaymentAction string

const (
	PaymentActionApprove PaymentAction = "APPROVE"
	PaymentActionReject  PaymentAction = "REJECT"
	PaymentActionConfirm PaymentAction = "CONFIRM"
)

var (
	ErrPaymentForbidden         = errors.New("role not allowed for payment action")
	ErrInvalidPaymentTransition = errors.New("invalid payment transition")
)

// 状態×操作 → 次の状態。ここに無い組み合わせは全部不正。
var paymentTransitions = map[PaymentStatus]map[PaymentAction]PaymentStatus{
	PaymentStatusPending: {
		PaymentActionApprove: PaymentStatusApprovedByAdmin,
		PaymentActionReject:  PaymentStatusRejectedByAdmin,
	},
	PaymentStatusApprovedByAdmin: {
		PaymentActionConfirm: PaymentStatusConfirmedBySuperAdmin,
	},
}

// 操作ごとに許可するrole
var paymentActionRoles = map[PaymentAction][]Role{
	PaymentActionApprove: {RoleAdmin, RoleSuperAdmin},
	PaymentActionReject:  {RoleAdmin, RoleSuperAdmin},
	PaymentActionConfirm: {RoleSuperAdmin},
}

func (a PaymentAction) Valid() bool {
	_, ok := paymentActionRoles[a]
	return ok
}

// 操作前に必要な状態
func (a PaymentAction) From() PaymentStatus {
	if a == PaymentActionConfirm {
		return PaymentStatusApprovedByAdmin
	}
	return PaymentStatusPending
}

// roleがこの操作をしてよいか
func (a PaymentAction) Authorize(role Role) error {
	for _, r := range paymentActionRoles[a] {
		if r == role {
			return nil
		}
	}
	return fmt.Errorf("%w: %s cannot %s", ErrPaymentForbidden, role, a)
}

// 状態遷移の失敗理由
type PaymentTransitionError struct {
	From   PaymentStatus
	Action PaymentAction
}

func (e *PaymentTransitionError) Error() string {
	if e.Action == PaymentActionConfirm {
		return "payment request must be approved by admin first"
	}
	return "payment request is not in pending status"
}

func (e *PaymentTransitionError) Is(target error) bool {
	return target == ErrInvalidPaymentTransition
}

// 権限チェック→遷移表の順で判定して次の状態を返す
func NextPaymentStatus(current PaymentStatus, action PaymentAction, role Role) (PaymentStatus, error) {
	if err := action.Authorize(role); err != nil {
		return "", err
	}
	next, ok := paymentTransitions[current][action]
	if !ok {
		return "", &PaymentTransitionError{From: current, Action: action}
	}
	return next, nil
}
