package model

import "time"

type AuditAction string

const (
	AuditActionCreate            AuditAction = "CREATE"
	AuditActionUpdate            AuditAction = "UPDATE"
	AuditActionDelete            AuditAction = "DELETE"
	AuditActionApprove           AuditAction = "APPROVE"
	AuditActionReject            AuditAction = "REJECT"
	AuditActionConfirm           AuditAction = "CONFIRM"
	AuditActionUpdateStock       AuditAction = "UPDATE_STOCK"
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	AuditActionUpdateRole        AuditAction = "UPDATE_ROLE"
	AuditActionDeactivate        AuditAction = "DEACTIVATE"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceProduct        AuditResourceType = "product"
	AuditResourceCategory       AuditResourceType = "category"
	AuditResourceOrder          AuditResourceType = "order"
	AuditResourceOrderItem      AuditResourceType = "order_item"
	AuditResourcePaymentRequest AuditResourceType = "payment_request"
	AuditResourceUser           AuditResourceType = "user"
)

// 監査ログ。
// 「誰が（そのときのrole）」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	ActorUserID int64 `gorm:"not null;index" json:"actorUserId"`
	//操作時点のrole
	ActorRole Role `gorm:"type:varchar(20);not null" json:"actorRole"`

	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resourceType"`
	//数値IDもUUIDも文字列で持つ
	ResourceID string `gorm:"type:varchar(64);not null;index" json:"resourceId"`

	BeforeJSON string `gorm:"type:text" json:"beforeJson,omitempty"`
	AfterJSON  string `gorm:"type:text" json:"afterJson,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}
