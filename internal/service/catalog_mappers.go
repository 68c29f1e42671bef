package service

import (
	"time"

	"boutique/internal/dto"
	"boutique/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            p.ID.String(),
		Designation:   p.Designation,
		Slug:          p.Slug,
		Description:   p.Description,
		Price:         p.Price,
		OldPrice:      p.OldPrice,
		InStock:       p.InStock,
		Images:        nonNil(p.Images),
		Variants:      nonNil(p.Variants),
		Features:      featureStrings(p.FeatureList()),
		CategoryID:    idString(p.CategoryID),
		SubCategoryID: idString(p.SubCategoryID),
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

func packToResponse(p *model.Pack) dto.PackResponse {
	products := make([]dto.ProductResponse, len(p.Products))
	for i := range p.Products {
		products[i] = productToResponse(&p.Products[i])
	}
	return dto.PackResponse{
		ID:          p.ID.String(),
		Designation: p.Designation,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		OldPrice:    p.OldPrice,
		InStock:     p.InStock,
		Images:      nonNil(p.Images),
		Features:    featureStrings(p.FeatureList()),
		Products:    products,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func subCategoryToResponse(s *model.SubCategory, products []uuid.UUID) dto.SubCategoryResponse {
	return dto.SubCategoryResponse{
		ID:          s.ID.String(),
		CategoryID:  s.CategoryID.String(),
		Designation: s.Designation,
		Slug:        s.Slug,
		Image:       s.Image,
		Products:    idStrings(products),
	}
}

func productFeatures(in []string) []model.ProductFeature {
	out := make([]model.ProductFeature, 0, len(in))
	seen := map[string]bool{}
	for _, f := range in {
		if !seen[f] {
			seen[f] = true
			out = append(out, model.ProductFeature{Feature: model.Feature(f)})
		}
	}
	return out
}

func packFeatures(in []string) []model.PackFeature {
	out := make([]model.PackFeature, 0, len(in))
	seen := map[string]bool{}
	for _, f := range in {
		if !seen[f] {
			seen[f] = true
			out = append(out, model.PackFeature{Feature: model.Feature(f)})
		}
	}
	return out
}

func featureStrings(fs []model.Feature) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = string(f)
	}
	return out
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// parseOptionalID parses a request id. nil and "" both mean no id.
func parseOptionalID(raw *string, what string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, invalid("%s invalide", what)
	}
	return &id, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// removedURLs returns the entries of before that are absent from after.
func removedURLs(before, after []string) []string {
	keep := make(map[string]bool, len(after))
	for _, u := range after {
		keep[u] = true
	}
	var out []string
	for _, u := range before {
		if !keep[u] {
			out = append(out, u)
		}
	}
	return out
}

// removeFiles deletes uploaded images after a commit. Failures are logged only.
func removeFiles(files FileRemover, urls []string) {
	if files == nil {
		return
	}
	for _, u := range urls {
		if err := files.Remove(u); err != nil {
			log.Warn().Err(err).Str("url", u).Msg("catalog: image not removed")
		}
	}
}
