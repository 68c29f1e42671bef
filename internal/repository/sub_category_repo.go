package repository

import (
	"context"

	"boutique/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubCategoryRepository interface {
	Create(ctx context.Context, s *model.SubCategory) error
	Update(ctx context.Context, tx *gorm.DB, s *model.SubCategory) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SubCategory, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.SubCategory, error)
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	List(ctx context.Context, categoryID *uuid.UUID) ([]model.SubCategory, error)
	ProductIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	// Delete removes the subcategories, detaches member products and empties
	// their reference table.
	Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
	DB() *gorm.DB
}

type subCategoryRepo struct{ db *gorm.DB }

func NewSubCategoryRepository(db *gorm.DB) SubCategoryRepository {
	return &subCategoryRepo{db: db}
}

func (r *subCategoryRepo) DB() *gorm.DB { return r.db }

func (r *subCategoryRepo) Create(ctx context.Context, s *model.SubCategory) error {
	return r.db.WithContext(ctx).Omit("Products").Create(s).Error
}

func (r *subCategoryRepo) Update(ctx context.Context, tx *gorm.DB, s *model.SubCategory) error {
	return conn(ctx, r.db, tx).Omit("Products").Save(s).Error
}

func (r *subCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SubCategory, error) {
	var s model.SubCategory
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	return &s, err
}

func (r *subCategoryRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.SubCategory, error) {
	var subs []model.SubCategory
	if len(ids) == 0 {
		return subs, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&subs).Error
	return subs, err
}

func (r *subCategoryRepo) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.SubCategory{}).
		Where("slug = ? AND id <> ?", slug, exclude).Count(&n).Error
	return n > 0, err
}

func (r *subCategoryRepo) List(ctx context.Context, categoryID *uuid.UUID) ([]model.SubCategory, error) {
	var subs []model.SubCategory
	q := r.db.WithContext(ctx)
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	err := q.Order("designation").Find(&subs).Error
	return subs, err
}

func (r *subCategoryRepo) ProductIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	return subCategoryProducts.rights(r.db.WithContext(ctx), id)
}

func (r *subCategoryRepo) Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	db := conn(ctx, r.db, tx)
	if err := subCategoryProducts.unlinkLeft(db, ids); err != nil {
		return 0, err
	}
	if err := db.Model(&model.Product{}).Where("sub_category_id IN ?", ids).
		Update("sub_category_id", nil).Error; err != nil {
		return 0, err
	}
	res := db.Where("id IN ?", ids).Delete(&model.SubCategory{})
	return res.RowsAffected, res.Error
}
