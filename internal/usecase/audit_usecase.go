package usecase

import (
	"context"
	"net/http"

	"plantstore/internal/domain/model"
	repo "plantstore/internal/repository"
)

type AuditUsecase struct {
	logs repo.AuditLogRepository
}

func NewAuditUsecase(logs repo.AuditLogRepository) *AuditUsecase {
	return &AuditUsecase{logs: logs}
}

type AuditLogList struct {
	Total int64            `json:"total"`
	Logs  []model.AuditLog `json:"logs"`
}

func (u *AuditUsecase) List(ctx context.Context, f repo.AuditLogFilter) (AuditLogList, error) {
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedFrom.After(*f.CreatedTo) {
		return AuditLogList{}, NewHTTPError(http.StatusBadRequest, "from must not be after to")
	}

	logs, total, err := u.logs.List(ctx, f)
	if err != nil {
		return AuditLogList{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return AuditLogList{Total: total, Logs: logs}, nil
}
