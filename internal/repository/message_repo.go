package repository

import (
	"context"

	"boutique/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, m *model.Message) error
	List(ctx context.Context, unreadOnly bool) ([]model.Message, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type messageRepo struct{ db *gorm.DB }

func NewMessageRepository(db *gorm.DB) MessageRepository { return &messageRepo{db: db} }

func (r *messageRepo) Create(ctx context.Context, m *model.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *messageRepo) List(ctx context.Context, unreadOnly bool) ([]model.Message, error) {
	var msgs []model.Message
	q := r.db.WithContext(ctx)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	err := q.Order("created_at DESC").Find(&msgs).Error
	return msgs, err
}

func (r *messageRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Message{}).Where("id = ?", id).Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *messageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Message{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
