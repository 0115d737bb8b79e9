package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending               PaymentStatus = "PENDING"
	PaymentStatusApprovedByAdmin       PaymentStatus = "APPROVED_BY_ADMIN"
	PaymentStatusRejectedByAdmin       PaymentStatus = "REJECTED_BY_ADMIN"
	PaymentStatusConfirmedBySuperAdmin PaymentStatus = "CONFIRMED_BY_SUPER_ADMIN"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusApprovedByAdmin, PaymentStatusRejectedByAdmin, PaymentStatusConfirmedBySuperAdmin:
		return true
	}
	return false
}

// 終端状態（もう遷移しない）
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusRejectedByAdmin || s == PaymentStatusConfirmedBySuperAdmin
}

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	st := PaymentStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}

// 支払い申請
type PaymentRequest struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID int64           `gorm:"not null;index" json:"userId"`
	Amount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status PaymentStatus   `gorm:"type:varchar(32);not null;index" json:"status"`

	// 承認（または却下）したadmin
	ApprovedByAdminID *int64 `gorm:"index" json:"approvedByAdminId,omitempty"`
	// 最終確認したsuper admin
	ConfirmedBySuperAdminID *int64 `gorm:"index" json:"confirmedBySuperAdminId,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
