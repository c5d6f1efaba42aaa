package repository

import (
	"context"

	"enci/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]model.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id uint, recipientID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
	Delete(ctx context.Context, id uint, recipientID uuid.UUID) error
	DeleteAll(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

type notificationRepo struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]model.Notification, error) {
	var notes []model.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notes).Error
	return notes, err
}

func (r *notificationRepo) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ? AND unread = true", recipientID).Count(&count).Error
	return count, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id uint, recipientID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("unread", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ? AND unread = true", recipientID).
		Update("unread", false).Error
}

func (r *notificationRepo) Delete(ctx context.Context, id uint, recipientID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Delete(&model.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepo) DeleteAll(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Delete(&model.Notification{})
	return result.RowsAffected, result.Error
}
