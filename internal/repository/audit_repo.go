package repository

import (
	"context"

	"enci/internal/model"

	"gorm.io/gorm"
)

// AuditRepository is append-only: there is deliberately no Update or Delete.
type AuditRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *model.AuditLog) error
	List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error)
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

func (r *auditRepo) Create(ctx context.Context, tx *gorm.DB, entry *model.AuditLog) error {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	return conn.WithContext(ctx).Create(entry).Error
}

func (r *auditRepo) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	var entries []model.AuditLog
	var total int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).Model(&model.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&entries).Error
	return entries, total, err
}
