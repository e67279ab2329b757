package repository

import (
	"context"
	"time"

	"plantstore/internal/domain/model"
	repo "plantstore/internal/repository"

	"gorm.io/gorm"
)

const (
	auditDefaultLimit = 50
	auditMaxLimit     = 200
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

func (r *auditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(&log).Error
}

func (r *auditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditLog{})

	conds := []struct {
		ok    bool
		query string
		arg   func() interface{}
	}{
		{f.ActorUserID != nil, "actor_user_id = ?", func() interface{} { return *f.ActorUserID }},
		{f.Action != nil, "action = ?", func() interface{} { return *f.Action }},
		{f.ResourceType != nil, "resource_type = ?", func() interface{} { return *f.ResourceType }},
		{f.ResourceID != nil, "resource_id = ?", func() interface{} { return *f.ResourceID }},
		{f.CreatedFrom != nil, "created_at >= ?", func() interface{} { return *f.CreatedFrom }},
		{f.CreatedTo != nil, "created_at <= ?", func() interface{} { return *f.CreatedTo }},
	}
	for _, c := range conds {
		if c.ok {
			q = q.Where(c.query, c.arg())
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > auditMaxLimit {
		limit = auditDefaultLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	//新しい順
	var logs []model.AuditLog
	if err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
