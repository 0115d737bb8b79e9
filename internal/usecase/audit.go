package usecase

import (
	"context"
	"encoding/json"
	"strconv"

	"storefront/internal/domain/model"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("storefront/usecase")

// 監査ログの送り先。非同期で書き、失敗しても呼び出し元には返さない。
type AuditRecorder interface {
	Record(ctx context.Context, entries ...model.AuditLog)
}

func auditEntry(actor model.Actor, action model.AuditAction, resource model.AuditResourceType, id string) model.AuditLog {
	return model.AuditLog{
		ActorUserID:  actor.UserID,
		ActorRole:    actor.Role,
		Action:       action,
		ResourceType: resource,
		ResourceID:   id,
	}
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

// 監査ログ用。失敗したら空文字
func toJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
