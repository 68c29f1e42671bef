package repository

import (
	"context"
	"time"

	"boutique/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	Update(ctx context.Context, n *model.Notification) error
	// ListRetryable returns pending notifications whose next retry is due.
	ListRetryable(ctx context.Context, now time.Time, limit int) ([]model.Notification, error)
}

type notificationRepo struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	var n model.Notification
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error
	return &n, err
}

func (r *notificationRepo) Update(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *notificationRepo) ListRetryable(ctx context.Context, now time.Time, limit int) ([]model.Notification, error) {
	var out []model.Notification
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", model.NotificationPending, now).
		Order("next_retry_at").
		Limit(limit).
		Find(&out).Error
	return out, err
}
