package audit

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 監査ログの書き込み先
type Sink interface {
	Name() string
	Write(ctx context.Context, entry model.AuditLog) error
}

// audit_logsテーブルに保存する
type DBSink struct {
	repo repo.AuditLogRepository
}

func NewDBSink(r repo.AuditLogRepository) *DBSink {
	return &DBSink{repo: r}
}

func (s *DBSink) Name() string { return "db" }

func (s *DBSink) Write(ctx context.Context, entry model.AuditLog) error {
	return s.repo.Create(ctx, entry)
}
