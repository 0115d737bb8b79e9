package usecase

import (
	"context"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

type AuditLogUsecase struct {
	auditRepo repo.AuditLogRepository
	log       *zap.Logger
}

func NewAuditLogUsecase(auditRepo repo.AuditLogRepository, log *zap.Logger) *AuditLogUsecase {
	return &AuditLogUsecase{auditRepo: auditRepo, log: log}
}

type AuditLogListInput struct {
	Page         int
	Limit        int
	ActorUserID  *int64
	Action       string
	ResourceType string
	ResourceID   string
	From         *time.Time
	To           *time.Time
}

type AuditLogListOutput struct {
	Items      []model.AuditLog `json:"items"`
	Pagination Pagination       `json:"pagination"`
}

func (u *AuditLogUsecase) List(ctx context.Context, actor model.Actor, in AuditLogListInput) (AuditLogListOutput, error) {
	if err := requireAdmin(actor); err != nil {
		return AuditLogListOutput{}, err
	}
	page, limit, err := normalizePage(in.Page, in.Limit)
	if err != nil {
		return AuditLogListOutput{}, err
	}

	f := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		CreatedFrom: in.From,
		CreatedTo:   in.To,
		Limit:       limit,
		Offset:      (page - 1) * limit,
	}
	if s := strings.TrimSpace(in.Action); s != "" {
		a := model.AuditAction(strings.ToUpper(s))
		f.Action = &a
	}
	if s := strings.TrimSpace(in.ResourceType); s != "" {
		rt := model.AuditResourceType(strings.ToLower(s))
		f.ResourceType = &rt
	}
	if s := strings.TrimSpace(in.ResourceID); s != "" {
		f.ResourceID = &s
	}

	logs, total, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return AuditLogListOutput{}, internalError(u.log, "list audit logs", err)
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return AuditLogListOutput{Items: logs, Pagination: newPagination(page, limit, total)}, nil
}
