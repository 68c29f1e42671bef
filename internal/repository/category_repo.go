package repository

import (
	"context"

	"boutique/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, tx *gorm.DB, c *model.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Category, error)
	FindBySlug(ctx context.Context, slug string) (*model.Category, error)
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	List(ctx context.Context) ([]model.Category, error)
	ProductIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	// Mismatched returns member ids whose product row is missing or points
	// at another category.
	Mismatched(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	// Delete removes the categories with their subcategories, detaches the
	// member products and empties both reference tables.
	Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
	DB() *gorm.DB
}

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository { return &categoryRepo{db: db} }

func (r *categoryRepo) DB() *gorm.DB { return r.db }

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Omit("SubCategories", "Products").Create(c).Error
}

func (r *categoryRepo) Update(ctx context.Context, tx *gorm.DB, c *model.Category) error {
	return conn(ctx, r.db, tx).Omit("SubCategories", "Products").Save(c).Error
}

func (r *categoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Preload("SubCategories").Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *categoryRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Category, error) {
	var cats []model.Category
	if len(ids) == 0 {
		return cats, nil
	}
	err := r.db.WithContext(ctx).Preload("SubCategories").Where("id IN ?", ids).Find(&cats).Error
	return cats, err
}

func (r *categoryRepo) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Preload("SubCategories").Where("slug = ?", slug).First(&c).Error
	return &c, err
}

func (r *categoryRepo) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("slug = ? AND id <> ?", slug, exclude).Count(&n).Error
	return n > 0, err
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	err := r.db.WithContext(ctx).Preload("SubCategories").Order("designation").Find(&cats).Error
	return cats, err
}

func (r *categoryRepo) ProductIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	return categoryProducts.rights(r.db.WithContext(ctx), id)
}

func (r *categoryRepo) Mismatched(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var raw []string
	err := r.db.WithContext(ctx).
		Table("category_products AS cp").
		Joins("LEFT JOIN products p ON p.id = cp.product_id").
		Where("cp.category_id = ?", id).
		Where("p.id IS NULL OR p.category_id IS NULL OR p.category_id <> cp.category_id").
		Pluck("cp.product_id", &raw).Error
	if err != nil {
		return nil, err
	}
	return parseIDs(raw)
}

func (r *categoryRepo) Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	db := conn(ctx, r.db, tx)

	var subRaw []string
	if err := db.Model(&model.SubCategory{}).Where("category_id IN ?", ids).Pluck("id", &subRaw).Error; err != nil {
		return 0, err
	}
	subIDs, err := parseIDs(subRaw)
	if err != nil {
		return 0, err
	}
	if len(subIDs) > 0 {
		if err := subCategoryProducts.unlinkLeft(db, subIDs); err != nil {
			return 0, err
		}
		if err := db.Model(&model.Product{}).Where("sub_category_id IN ?", subIDs).
			Update("sub_category_id", nil).Error; err != nil {
			return 0, err
		}
		if err := db.Where("id IN ?", subIDs).Delete(&model.SubCategory{}).Error; err != nil {
			return 0, err
		}
	}

	if err := categoryProducts.unlinkLeft(db, ids); err != nil {
		return 0, err
	}
	if err := db.Model(&model.Product{}).Where("category_id IN ?", ids).
		Update("category_id", nil).Error; err != nil {
		return 0, err
	}
	res := db.Where("id IN ?", ids).Delete(&model.Category{})
	return res.RowsAffected, res.Error
}
