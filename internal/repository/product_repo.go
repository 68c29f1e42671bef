package repository

import (
	"context"

	"boutique/internal/dto"
	"boutique/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products and the
// category/subcategory member lists that point at them.
type ProductRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Product) error
	Update(ctx context.Context, tx *gorm.DB, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	// Delete removes the products and every reference row pointing at them.
	Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)

	LinkCategory(ctx context.Context, tx *gorm.DB, categoryID, productID uuid.UUID) error
	UnlinkCategory(ctx context.Context, tx *gorm.DB, categoryID, productID uuid.UUID) error
	LinkSubCategory(ctx context.Context, tx *gorm.DB, subCategoryID, productID uuid.UUID) error
	UnlinkSubCategory(ctx context.Context, tx *gorm.DB, subCategoryID, productID uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Product) error {
	return conn(ctx, r.db, tx).Omit("Category", "SubCategory").Create(p).Error
}

func (r *productRepo) Update(ctx context.Context, tx *gorm.DB, p *model.Product) error {
	db := conn(ctx, r.db, tx)
	if err := db.Omit("Features", "Category", "SubCategory").Save(p).Error; err != nil {
		return err
	}
	if err := db.Where("product_id = ?", p.ID).Delete(&model.ProductFeature{}).Error; err != nil {
		return err
	}
	for i := range p.Features {
		p.Features[i].ProductID = p.ID
	}
	if len(p.Features) == 0 {
		return nil
	}
	return db.Create(&p.Features).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Features").Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Preload("Features").Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepo) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Features").Where("slug = ?", slug).First(&p).Error
	return &p, err
}

func (r *productRepo) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("slug = ? AND id <> ?", slug, exclude).Count(&n).Error
	return n > 0, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.SubCategoryID != "" {
		q = q.Where("sub_category_id = ?", filter.SubCategoryID)
	}
	if filter.Feature != "" {
		q = q.Where("id IN (?)", r.db.Model(&model.ProductFeature{}).
			Select("product_id").Where("feature = ?", filter.Feature))
	}
	if filter.Search != "" {
		q = q.Where("LOWER(designation) LIKE ?", likePattern(filter.Search))
	}
	if filter.InStock != nil {
		q = q.Where("in_stock = ?", *filter.InStock)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Features").
		Order("created_at DESC").
		Offset(filter.Offset()).Limit(filter.Limit).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	db := conn(ctx, r.db, tx)
	for _, jt := range []joinTable{categoryProducts, subCategoryProducts, packProducts, clientWishlist} {
		if err := jt.unlinkRight(db, ids); err != nil {
			return 0, err
		}
	}
	if err := db.Where("product_id IN ?", ids).Delete(&model.CartItem{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("product_id IN ?", ids).Delete(&model.ProductFeature{}).Error; err != nil {
		return 0, err
	}
	res := db.Where("id IN ?", ids).Delete(&model.Product{})
	return res.RowsAffected, res.Error
}

func (r *productRepo) LinkCategory(ctx context.Context, tx *gorm.DB, categoryID, productID uuid.UUID) error {
	return categoryProducts.link(conn(ctx, r.db, tx), categoryID, productID)
}

func (r *productRepo) UnlinkCategory(ctx context.Context, tx *gorm.DB, categoryID, productID uuid.UUID) error {
	return categoryProducts.unlink(conn(ctx, r.db, tx), categoryID, productID)
}

func (r *productRepo) LinkSubCategory(ctx context.Context, tx *gorm.DB, subCategoryID, productID uuid.UUID) error {
	return subCategoryProducts.link(conn(ctx, r.db, tx), subCategoryID, productID)
}

func (r *productRepo) UnlinkSubCategory(ctx context.Context, tx *gorm.DB, subCategoryID, productID uuid.UUID) error {
	return subCategoryProducts.unlink(conn(ctx, r.db, tx), subCategoryID, productID)
}
