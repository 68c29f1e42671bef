package service

import (
	"context"
	"fmt"
	"strings"

	"boutique/internal/dto"
	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryService interface {
	Create(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error)
	GetBySlug(ctx context.Context, slug string) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
	// CheckConsistency lists member ids whose own category_id differs.
	CheckConsistency(ctx context.Context, id uuid.UUID) (*dto.CategoryConsistencyResponse, error)
}

type categoryService struct {
	cats  repository.CategoryRepository
	subs  repository.SubCategoryRepository
	files FileRemover
}

func NewCategoryService(cats repository.CategoryRepository, subs repository.SubCategoryRepository, files FileRemover) CategoryService {
	return &categoryService{cats: cats, subs: subs, files: files}
}

func (s *categoryService) Create(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	slug, err := uniqueSlug(ctx, req.Designation, uuid.Nil, s.cats.SlugExists)
	if err != nil {
		return nil, err
	}
	c := &model.Category{Designation: strings.TrimSpace(req.Designation), Slug: slug, Image: req.Image}
	if err := s.cats.Create(ctx, c); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, c)
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := s.cats.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "catégorie %s introuvable", id)
	}
	var oldImage *string
	if req.Designation != nil && strings.TrimSpace(*req.Designation) != c.Designation {
		c.Designation = strings.TrimSpace(*req.Designation)
		if c.Slug, err = uniqueSlug(ctx, c.Designation, c.ID, s.cats.SlugExists); err != nil {
			return nil, err
		}
	}
	if req.Image != nil {
		oldImage, c.Image = c.Image, req.Image
	}
	if err := s.cats.Update(ctx, nil, c); err != nil {
		return nil, err
	}
	if oldImage != nil && *oldImage != *c.Image {
		removeFiles(s.files, []string{*oldImage})
	}
	return s.toResponse(ctx, c)
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	c, err := s.cats.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "catégorie %s introuvable", id)
	}
	return s.toResponse(ctx, c)
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*dto.CategoryResponse, error) {
	c, err := s.cats.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "catégorie %q introuvable", slug)
	}
	return s.toResponse(ctx, c)
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	cats, err := s.cats.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(cats))
	for i := range cats {
		resp, err := s.toResponse(ctx, &cats[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.DeleteMany(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("catégorie %s introuvable: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteMany deletes the categories with their subcategories, detaches every
// member product and empties the member lists in one transaction. Images go
// after commit.
func (s *categoryService) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, invalid("aucune catégorie à supprimer")
	}
	cats, err := s.cats.FindByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	var images []string
	for _, c := range cats {
		if c.Image != nil {
			images = append(images, *c.Image)
		}
		for _, sub := range c.SubCategories {
			if sub.Image != nil {
				images = append(images, *sub.Image)
			}
		}
	}

	var deleted int64
	err = runTx(ctx, s.cats.DB(), func(tx *gorm.DB) error {
		n, err := s.cats.Delete(ctx, tx, ids)
		deleted = n
		return err
	})
	if err != nil {
		return 0, err
	}
	removeFiles(s.files, images)
	return deleted, nil
}

func (s *categoryService) CheckConsistency(ctx context.Context, id uuid.UUID) (*dto.CategoryConsistencyResponse, error) {
	if _, err := s.cats.FindByID(ctx, id); err != nil {
		return nil, notFound(err, "catégorie %s introuvable", id)
	}
	bad, err := s.cats.Mismatched(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryConsistencyResponse{
		CategoryID: id.String(),
		Consistent: len(bad) == 0,
		Mismatched: idStrings(bad),
	}, nil
}

func (s *categoryService) toResponse(ctx context.Context, c *model.Category) (*dto.CategoryResponse, error) {
	products, err := s.cats.ProductIDs(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	subs := make([]dto.SubCategoryResponse, 0, len(c.SubCategories))
	for i := range c.SubCategories {
		ids, err := s.subs.ProductIDs(ctx, c.SubCategories[i].ID)
		if err != nil {
			return nil, err
		}
		subs = append(subs, subCategoryToResponse(&c.SubCategories[i], ids))
	}
	return &dto.CategoryResponse{
		ID:            c.ID.String(),
		Designation:   c.Designation,
		Slug:          c.Slug,
		Image:         c.Image,
		SubCategories: subs,
		Products:      idStrings(products),
	}, nil
}

// ── SubCategory ───────────────────────────────────────────────────────────────

type SubCategoryService interface {
	Create(ctx context.Context, req dto.SubCategoryRequest) (*dto.SubCategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateSubCategoryRequest) (*dto.SubCategoryResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.SubCategoryResponse, error)
	List(ctx context.Context, categoryID *uuid.UUID) ([]dto.SubCategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type subCategoryService struct {
	subs  repository.SubCategoryRepository
	cats  repository.CategoryRepository
	files FileRemover
}

func NewSubCategoryService(subs repository.SubCategoryRepository, cats repository.CategoryRepository, files FileRemover) SubCategoryService {
	return &subCategoryService{subs: subs, cats: cats, files: files}
}

func (s *subCategoryService) Create(ctx context.Context, req dto.SubCategoryRequest) (*dto.SubCategoryResponse, error) {
	catID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, invalid("catégorie invalide")
	}
	if _, err := s.cats.FindByID(ctx, catID); err != nil {
		return nil, notFound(err, "catégorie %s introuvable", catID)
	}
	slug, err := uniqueSlug(ctx, req.Designation, uuid.Nil, s.subs.SlugExists)
	if err != nil {
		return nil, err
	}
	sub := &model.SubCategory{CategoryID: catID, Designation: strings.TrimSpace(req.Designation), Slug: slug, Image: req.Image}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, err
	}
	resp := subCategoryToResponse(sub, nil)
	return &resp, nil
}

func (s *subCategoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateSubCategoryRequest) (*dto.SubCategoryResponse, error) {
	sub, err := s.subs.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "sous-catégorie %s introuvable", id)
	}
	var oldImage *string
	if req.Designation != nil && strings.TrimSpace(*req.Designation) != sub.Designation {
		sub.Designation = strings.TrimSpace(*req.Designation)
		if sub.Slug, err = uniqueSlug(ctx, sub.Designation, sub.ID, s.subs.SlugExists); err != nil {
			return nil, err
		}
	}
	if req.Image != nil {
		oldImage, sub.Image = sub.Image, req.Image
	}
	if err := s.subs.Update(ctx, nil, sub); err != nil {
		return nil, err
	}
	if oldImage != nil && *oldImage != *sub.Image {
		removeFiles(s.files, []string{*oldImage})
	}
	return s.GetByID(ctx, id)
}

func (s *subCategoryService) GetByID(ctx context.Context, id uuid.UUID) (*dto.SubCategoryResponse, error) {
	sub, err := s.subs.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "sous-catégorie %s introuvable", id)
	}
	ids, err := s.subs.ProductIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := subCategoryToResponse(sub, ids)
	return &resp, nil
}

func (s *subCategoryService) List(ctx context.Context, categoryID *uuid.UUID) ([]dto.SubCategoryResponse, error) {
	subs, err := s.subs.List(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SubCategoryResponse, 0, len(subs))
	for i := range subs {
		ids, err := s.subs.ProductIDs(ctx, subs[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, subCategoryToResponse(&subs[i], ids))
	}
	return out, nil
}

func (s *subCategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.DeleteMany(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("sous-catégorie %s introuvable: %w", id, ErrNotFound)
	}
	return nil
}

func (s *subCategoryService) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, invalid("aucune sous-catégorie à supprimer")
	}
	subs, err := s.subs.FindByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	var deleted int64
	err = runTx(ctx, s.subs.DB(), func(tx *gorm.DB) error {
		n, err := s.subs.Delete(ctx, tx, ids)
		deleted = n
		return err
	})
	if err != nil {
		return 0, err
	}
	var images []string
	for _, sub := range subs {
		if sub.Image != nil {
			images = append(images, *sub.Image)
		}
	}
	removeFiles(s.files, images)
	return deleted, nil
}
