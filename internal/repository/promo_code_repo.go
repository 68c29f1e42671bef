package repository

import (
	"context"

	"boutique/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PromoCodeRepository interface {
	Create(ctx context.Context, p *model.PromoCode) error
	Update(ctx context.Context, p *model.PromoCode) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PromoCode, error)
	// FindByCode matches case-insensitively; codes are stored upper-cased.
	FindByCode(ctx context.Context, code string) (*model.PromoCode, error)
	CodeExists(ctx context.Context, code string, exclude uuid.UUID) (bool, error)
	List(ctx context.Context) ([]model.PromoCode, error)
	Delete(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type promoCodeRepo struct{ db *gorm.DB }

func NewPromoCodeRepository(db *gorm.DB) PromoCodeRepository { return &promoCodeRepo{db: db} }

func (r *promoCodeRepo) Create(ctx context.Context, p *model.PromoCode) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *promoCodeRepo) Update(ctx context.Context, p *model.PromoCode) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *promoCodeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PromoCode, error) {
	var p model.PromoCode
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *promoCodeRepo) FindByCode(ctx context.Context, code string) (*model.PromoCode, error) {
	var p model.PromoCode
	err := r.db.WithContext(ctx).Where("code = UPPER(?)", code).First(&p).Error
	return &p, err
}

func (r *promoCodeRepo) CodeExists(ctx context.Context, code string, exclude uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.PromoCode{}).
		Where("code = UPPER(?) AND id <> ?", code, exclude).Count(&n).Error
	return n > 0, err
}

func (r *promoCodeRepo) List(ctx context.Context) ([]model.PromoCode, error) {
	var codes []model.PromoCode
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&codes).Error
	return codes, err
}

func (r *promoCodeRepo) Delete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.PromoCode{})
	return res.RowsAffected, res.Error
}
