package repository

import (
	"context"

	"boutique/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BlogRepository interface {
	Create(ctx context.Context, b *model.Blog) error
	Update(ctx context.Context, b *model.Blog) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Blog, error)
	FindBySlug(ctx context.Context, slug string) (*model.Blog, error)
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	List(ctx context.Context, publishedOnly bool) ([]model.Blog, error)
	Delete(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type blogRepo struct{ db *gorm.DB }

func NewBlogRepository(db *gorm.DB) BlogRepository { return &blogRepo{db: db} }

func (r *blogRepo) Create(ctx context.Context, b *model.Blog) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *blogRepo) Update(ctx context.Context, b *model.Blog) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *blogRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	var b model.Blog
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	return &b, err
}

func (r *blogRepo) FindBySlug(ctx context.Context, slug string) (*model.Blog, error) {
	var b model.Blog
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&b).Error
	return &b, err
}

func (r *blogRepo) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Blog{}).
		Where("slug = ? AND id <> ?", slug, exclude).Count(&n).Error
	return n > 0, err
}

func (r *blogRepo) List(ctx context.Context, publishedOnly bool) ([]model.Blog, error) {
	var blogs []model.Blog
	q := r.db.WithContext(ctx)
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	err := q.Order("created_at DESC").Find(&blogs).Error
	return blogs, err
}

func (r *blogRepo) Delete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Blog{})
	return res.RowsAffected, res.Error
}

type PageRepository interface {
	Create(ctx context.Context, p *model.Page) error
	Update(ctx context.Context, p *model.Page) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Page, error)
	FindBySlug(ctx context.Context, slug string) (*model.Page, error)
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	List(ctx context.Context) ([]model.Page, error)
	Delete(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type pageRepo struct{ db *gorm.DB }

func NewPageRepository(db *gorm.DB) PageRepository { return &pageRepo{db: db} }

func (r *pageRepo) Create(ctx context.Context, p *model.Page) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pageRepo) Update(ctx context.Context, p *model.Page) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *pageRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Page, error) {
	var p model.Page
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *pageRepo) FindBySlug(ctx context.Context, slug string) (*model.Page, error) {
	var p model.Page
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error
	return &p, err
}

func (r *pageRepo) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Page{}).
		Where("slug = ? AND id <> ?", slug, exclude).Count(&n).Error
	return n > 0, err
}

func (r *pageRepo) List(ctx context.Context) ([]model.Page, error) {
	var pages []model.Page
	err := r.db.WithContext(ctx).Order("title").Find(&pages).Error
	return pages, err
}

func (r *pageRepo) Delete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Page{})
	return res.RowsAffected, res.Error
}
