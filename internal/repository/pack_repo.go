package repository

import (
	"context"

	"boutique/internal/dto"
	"boutique/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PackRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Pack) error
	Update(ctx context.Context, tx *gorm.DB, p *model.Pack) error
	// SetProducts replaces the pack's member list.
	SetProducts(ctx context.Context, tx *gorm.DB, packID uuid.UUID, productIDs []uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pack, error)
	FindBySlug(ctx context.Context, slug string) (*model.Pack, error)
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	List(ctx context.Context, filter dto.PackFilter) ([]model.Pack, int64, error)
	Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
	DB() *gorm.DB
}

type packRepo struct{ db *gorm.DB }

func NewPackRepository(db *gorm.DB) PackRepository { return &packRepo{db: db} }

func (r *packRepo) DB() *gorm.DB { return r.db }

func (r *packRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Pack) error {
	return conn(ctx, r.db, tx).Omit("Products").Create(p).Error
}

func (r *packRepo) Update(ctx context.Context, tx *gorm.DB, p *model.Pack) error {
	db := conn(ctx, r.db, tx)
	if err := db.Omit("Features", "Products").Save(p).Error; err != nil {
		return err
	}
	if err := db.Where("pack_id = ?", p.ID).Delete(&model.PackFeature{}).Error; err != nil {
		return err
	}
	for i := range p.Features {
		p.Features[i].PackID = p.ID
	}
	if len(p.Features) == 0 {
		return nil
	}
	return db.Create(&p.Features).Error
}

func (r *packRepo) SetProducts(ctx context.Context, tx *gorm.DB, packID uuid.UUID, productIDs []uuid.UUID) error {
	db := conn(ctx, r.db, tx)
	if err := packProducts.unlinkLeft(db, []uuid.UUID{packID}); err != nil {
		return err
	}
	for _, pid := range productIDs {
		if err := packProducts.link(db, packID, pid); err != nil {
			return err
		}
	}
	return nil
}

func (r *packRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pack, error) {
	var p model.Pack
	err := r.db.WithContext(ctx).
		Preload("Features").Preload("Products.Features").
		Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *packRepo) FindBySlug(ctx context.Context, slug string) (*model.Pack, error) {
	var p model.Pack
	err := r.db.WithContext(ctx).
		Preload("Features").Preload("Products.Features").
		Where("slug = ?", slug).First(&p).Error
	return &p, err
}

func (r *packRepo) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Pack{}).
		Where("slug = ? AND id <> ?", slug, exclude).Count(&n).Error
	return n > 0, err
}

func (r *packRepo) List(ctx context.Context, filter dto.PackFilter) ([]model.Pack, int64, error) {
	var packs []model.Pack
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Pack{})
	if filter.Feature != "" {
		q = q.Where("id IN (?)", r.db.Model(&model.PackFeature{}).
			Select("pack_id").Where("feature = ?", filter.Feature))
	}
	if filter.Search != "" {
		q = q.Where("LOWER(designation) LIKE ?", likePattern(filter.Search))
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Features").Preload("Products.Features").
		Order("created_at DESC").
		Offset(filter.Offset()).Limit(filter.Limit).
		Find(&packs).Error
	return packs, total, err
}

func (r *packRepo) Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	db := conn(ctx, r.db, tx)
	if err := packProducts.unlinkLeft(db, ids); err != nil {
		return 0, err
	}
	if err := db.Where("pack_id IN ?", ids).Delete(&model.PackFeature{}).Error; err != nil {
		return 0, err
	}
	res := db.Where("id IN ?", ids).Delete(&model.Pack{})
	return res.RowsAffected, res.Error
}
