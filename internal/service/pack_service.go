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

type PackService interface {
	Create(ctx context.Context, req dto.CreatePackRequest) (*dto.PackResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdatePackRequest) (*dto.PackResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.PackResponse, error)
	GetBySlug(ctx context.Context, slug string) (*dto.PackResponse, error)
	List(ctx context.Context, filter dto.PackFilter) (*dto.PageResponse[dto.PackResponse], error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type packService struct {
	packs    repository.PackRepository
	products repository.ProductRepository
	files    FileRemover
}

func NewPackService(packs repository.PackRepository, products repository.ProductRepository, files FileRemover) PackService {
	return &packService{packs: packs, products: products, files: files}
}

func (s *packService) Create(ctx context.Context, req dto.CreatePackRequest) (*dto.PackResponse, error) {
	productIDs, err := s.resolveProducts(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}
	slug, err := uniqueSlug(ctx, req.Designation, uuid.Nil, s.packs.SlugExists)
	if err != nil {
		return nil, err
	}
	p := &model.Pack{
		Designation: strings.TrimSpace(req.Designation),
		Slug:        slug,
		Description: req.Description,
		Price:       req.Price,
		OldPrice:    req.OldPrice,
		InStock:     req.InStock == nil || *req.InStock,
		Images:      req.Images,
		Features:    packFeatures(req.Features),
	}

	err = runTx(ctx, s.packs.DB(), func(tx *gorm.DB) error {
		if err := s.packs.Create(ctx, tx, p); err != nil {
			return err
		}
		return s.packs.SetProducts(ctx, tx, p.ID, productIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, p.ID)
}

func (s *packService) Update(ctx context.Context, id uuid.UUID, req dto.UpdatePackRequest) (*dto.PackResponse, error) {
	p, err := s.packs.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "pack %s introuvable", id)
	}
	oldImages := p.Images

	var productIDs []uuid.UUID
	if req.ProductIDs != nil {
		if productIDs, err = s.resolveProducts(ctx, req.ProductIDs); err != nil {
			return nil, err
		}
	}
	if req.Designation != nil && strings.TrimSpace(*req.Designation) != p.Designation {
		p.Designation = strings.TrimSpace(*req.Designation)
		if p.Slug, err = uniqueSlug(ctx, p.Designation, p.ID, s.packs.SlugExists); err != nil {
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
	if req.InStock != nil {
		p.InStock = *req.InStock
	}
	if req.Images != nil {
		p.Images = req.Images
	}
	if req.Features != nil {
		p.Features = packFeatures(req.Features)
	}
	p.Products = nil

	err = runTx(ctx, s.packs.DB(), func(tx *gorm.DB) error {
		if err := s.packs.Update(ctx, tx, p); err != nil {
			return err
		}
		if req.ProductIDs == nil {
			return nil
		}
		return s.packs.SetProducts(ctx, tx, p.ID, productIDs)
	})
	if err != nil {
		return nil, err
	}
	removeFiles(s.files, removedURLs(oldImages, p.Images))
	return s.GetByID(ctx, p.ID)
}

func (s *packService) GetByID(ctx context.Context, id uuid.UUID) (*dto.PackResponse, error) {
	p, err := s.packs.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "pack %s introuvable", id)
	}
	resp := packToResponse(p)
	return &resp, nil
}

func (s *packService) GetBySlug(ctx context.Context, slug string) (*dto.PackResponse, error) {
	p, err := s.packs.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "pack %q introuvable", slug)
	}
	resp := packToResponse(p)
	return &resp, nil
}

func (s *packService) List(ctx context.Context, filter dto.PackFilter) (*dto.PageResponse[dto.PackResponse], error) {
	packs, total, err := s.packs.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PackResponse, len(packs))
	for i := range packs {
		data[i] = packToResponse(&packs[i])
	}
	return &dto.PageResponse[dto.PackResponse]{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *packService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.DeleteMany(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("pack %s introuvable: %w", id, ErrNotFound)
	}
	return nil
}

func (s *packService) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, invalid("aucun pack à supprimer")
	}
	var images []string
	for _, id := range ids {
		if p, err := s.packs.FindByID(ctx, id); err == nil {
			images = append(images, p.Images...)
		}
	}

	var deleted int64
	err := runTx(ctx, s.packs.DB(), func(tx *gorm.DB) error {
		n, err := s.packs.Delete(ctx, tx, ids)
		deleted = n
		return err
	})
	if err != nil {
		return 0, err
	}
	removeFiles(s.files, images)
	return deleted, nil
}

// resolveProducts parses the member ids and requires every one to exist.
func (s *packService) resolveProducts(ctx context.Context, raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	seen := map[uuid.UUID]bool{}
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, invalid("produit %q invalide", r)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		known := make(map[uuid.UUID]bool, len(found))
		for _, p := range found {
			known[p.ID] = true
		}
		for _, id := range ids {
			if !known[id] {
				return nil, fmt.Errorf("produit %s introuvable: %w", id, ErrNotFound)
			}
		}
	}
	return ids, nil
}
