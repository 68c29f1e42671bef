package service

import (
	"context"
	"fmt"
	"strings"

	"boutique/internal/dto"
	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	GetBySlug(ctx context.Context, slug string) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.PageResponse[dto.ProductResponse], error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type productService struct {
	products repository.ProductRepository
	cats     repository.CategoryRepository
	subs     repository.SubCategoryRepository
	files    FileRemover
}

func NewProductService(products repository.ProductRepository, cats repository.CategoryRepository,
	subs repository.SubCategoryRepository, files FileRemover) ProductService {
	return &productService{products: products, cats: cats, subs: subs, files: files}
}

// ── Create ────────────────────────────────────────────────────────────────────
// The product row and its category/subcategory member entries are written in
// one transaction, after both parents have been resolved.

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	catID, subID, err := s.resolvePlacement(ctx, req.CategoryID, req.SubCategoryID)
	if err != nil {
		return nil, err
	}
	if req.OldPrice != nil && !req.OldPrice.IsZero() && req.OldPrice.LessThan(req.Price) {
		return nil, invalid("l'ancien prix doit être supérieur au prix")
	}

	slug, err := uniqueSlug(ctx, req.Designation, uuid.Nil, s.products.SlugExists)
	if err != nil {
		return nil, err
	}
	p := &model.Product{
		Designation:   strings.TrimSpace(req.Designation),
		Slug:          slug,
		Description:   req.Description,
		Price:         req.Price,
		OldPrice:      req.OldPrice,
		InStock:       req.InStock == nil || *req.InStock,
		Images:        req.Images,
		Variants:      req.Variants,
		CategoryID:    catID,
		SubCategoryID: subID,
		Features:      productFeatures(req.Features),
	}

	err = runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.products.Create(ctx, tx, p); err != nil {
			return err
		}
		return s.link(ctx, tx, p.ID, nil, nil, catID, subID)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("product_id", p.ID.String()).Str("slug", p.Slug).Msg("product: created")
	resp := productToResponse(p)
	return &resp, nil
}

// ── Update ────────────────────────────────────────────────────────────────────
// Only fields present in the body change. Moving a product between
// categories pulls it from the old member lists and adds it to the new ones
// in the same transaction. Images dropped from the list are deleted after commit.

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "produit %s introuvable", id)
	}
	oldCat, oldSub := p.CategoryID, p.SubCategoryID
	oldImages := p.Images

	catRaw, subRaw := currentIDString(p.CategoryID, req.CategoryID), currentIDString(p.SubCategoryID, req.SubCategoryID)
	catID, subID, err := s.resolvePlacement(ctx, catRaw, subRaw)
	if err != nil {
		return nil, err
	}
	p.CategoryID, p.SubCategoryID = catID, subID

	if req.Designation != nil && strings.TrimSpace(*req.Designation) != p.Designation {
		p.Designation = strings.TrimSpace(*req.Designation)
		if p.Slug, err = uniqueSlug(ctx, p.Designation, p.ID, s.products.SlugExists); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.OldPrice != nil {
		p.OldPrice = req.OldPrice
	}
	if p.OldPrice != nil && !p.OldPrice.IsZero() && p.OldPrice.LessThan(p.Price) {
		return nil, invalid("l'ancien prix doit être supérieur au prix")
	}
	if req.InStock != nil {
		p.InStock = *req.InStock
	}
	if req.Images != nil {
		p.Images = req.Images
	}
	if req.Variants != nil {
		p.Variants = req.Variants
	}
	if req.Features != nil {
		p.Features = productFeatures(req.Features)
	}

	err = runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.products.Update(ctx, tx, p); err != nil {
			return err
		}
		return s.link(ctx, tx, p.ID, oldCat, oldSub, catID, subID)
	})
	if err != nil {
		return nil, err
	}
	removeFiles(s.files, removedURLs(oldImages, p.Images))

	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "produit %s introuvable", id)
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) GetBySlug(ctx context.Context, slug string) (*dto.ProductResponse, error) {
	p, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "produit %q introuvable", slug)
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.PageResponse[dto.ProductResponse], error) {
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, len(products))
	for i := range products {
		data[i] = productToResponse(&products[i])
	}
	return &dto.PageResponse[dto.ProductResponse]{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.DeleteMany(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("produit %s introuvable: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteMany removes the products and every member-list entry pointing at
// them, then deletes their images. Image failures are logged only.
func (s *productService) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, invalid("aucun produit à supprimer")
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	var deleted int64
	err = runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		n, err := s.products.Delete(ctx, tx, ids)
		deleted = n
		return err
	})
	if err != nil {
		return 0, err
	}

	var images []string
	for _, p := range products {
		images = append(images, p.Images...)
	}
	removeFiles(s.files, images)
	return deleted, nil
}

// resolvePlacement checks that the referenced category and subcategory exist
// and agree. A subcategory alone implies its parent category.
func (s *productService) resolvePlacement(ctx context.Context, catRaw, subRaw *string) (*uuid.UUID, *uuid.UUID, error) {
	catID, err := parseOptionalID(catRaw, "catégorie")
	if err != nil {
		return nil, nil, err
	}
	subID, err := parseOptionalID(subRaw, "sous-catégorie")
	if err != nil {
		return nil, nil, err
	}

	if subID != nil {
		sub, err := s.subs.FindByID(ctx, *subID)
		if err != nil {
			return nil, nil, notFound(err, "sous-catégorie %s introuvable", *subID)
		}
		if catID == nil {
			parent := sub.CategoryID
			catID = &parent
		} else if *catID != sub.CategoryID {
			return nil, nil, invalid("la sous-catégorie %s n'appartient pas à la catégorie %s", *subID, *catID)
		}
	}
	if catID != nil {
		if _, err := s.cats.FindByID(ctx, *catID); err != nil {
			return nil, nil, notFound(err, "catégorie %s introuvable", *catID)
		}
	}
	return catID, subID, nil
}

// link moves productID between member lists. Unchanged placements are left alone.
func (s *productService) link(ctx context.Context, tx *gorm.DB, productID uuid.UUID, oldCat, oldSub, newCat, newSub *uuid.UUID) error {
	if !sameID(oldCat, newCat) {
		if oldCat != nil {
			if err := s.products.UnlinkCategory(ctx, tx, *oldCat, productID); err != nil {
				return err
			}
		}
		if newCat != nil {
			if err := s.products.LinkCategory(ctx, tx, *newCat, productID); err != nil {
				return err
			}
		}
	}
	if !sameID(oldSub, newSub) {
		if oldSub != nil {
			if err := s.products.UnlinkSubCategory(ctx, tx, *oldSub, productID); err != nil {
				return err
			}
		}
		if newSub != nil {
			if err := s.products.LinkSubCategory(ctx, tx, *newSub, productID); err != nil {
				return err
			}
		}
	}
	return nil
}

// currentIDString returns the requested id, or the stored one when the
// request leaves the field out.
func currentIDString(stored *uuid.UUID, requested *string) *string {
	if requested != nil {
		return requested
	}
	return idString(stored)
}
