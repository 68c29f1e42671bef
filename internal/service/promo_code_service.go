package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"boutique/internal/dto"
	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/google/uuid"
)

type PromoCodeService interface {
	Create(ctx context.Context, req dto.CreatePromoCodeRequest) (*dto.PromoCodeResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdatePromoCodeRequest) (*dto.PromoCodeResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.PromoCodeResponse, error)
	List(ctx context.Context) ([]dto.PromoCodeResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
	// Validate reports whether code would discount an order placed now.
	Validate(ctx context.Context, code string) (*dto.PromoValidationResponse, error)
}

type promoCodeService struct {
	repo repository.PromoCodeRepository
	now  func() time.Time
}

func NewPromoCodeService(repo repository.PromoCodeRepository) PromoCodeService {
	return &promoCodeService{repo: repo, now: time.Now}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *promoCodeService) Create(ctx context.Context, req dto.CreatePromoCodeRequest) (*dto.PromoCodeResponse, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, invalid("la date de fin doit suivre la date de début")
	}
	code := normalizeCode(req.Code)
	exists, err := s.repo.CodeExists(ctx, code, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("le code promo %s existe déjà: %w", code, ErrConflict)
	}

	p := &model.PromoCode{
		Code:      code,
		Discount:  req.Discount,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  req.IsActive == nil || *req.IsActive,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return promoToResponse(p), nil
}

func (s *promoCodeService) Update(ctx context.Context, id uuid.UUID, req dto.UpdatePromoCodeRequest) (*dto.PromoCodeResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "code promo %s introuvable", id)
	}
	if req.Code != nil {
		code := normalizeCode(*req.Code)
		exists, err := s.repo.CodeExists(ctx, code, p.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("le code promo %s existe déjà: %w", code, ErrConflict)
		}
		p.Code = code
	}
	if req.Discount != nil {
		p.Discount = *req.Discount
	}
	if req.StartDate != nil {
		p.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		p.EndDate = *req.EndDate
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if !p.EndDate.After(p.StartDate) {
		return nil, invalid("la date de fin doit suivre la date de début")
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return promoToResponse(p), nil
}

func (s *promoCodeService) GetByID(ctx context.Context, id uuid.UUID) (*dto.PromoCodeResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "code promo %s introuvable", id)
	}
	return promoToResponse(p), nil
}

func (s *promoCodeService) List(ctx context.Context) ([]dto.PromoCodeResponse, error) {
	codes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PromoCodeResponse, len(codes))
	for i := range codes {
		out[i] = *promoToResponse(&codes[i])
	}
	return out, nil
}

func (s *promoCodeService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.DeleteMany(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("code promo %s introuvable: %w", id, ErrNotFound)
	}
	return nil
}

func (s *promoCodeService) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, invalid("aucun code promo à supprimer")
	}
	return s.repo.Delete(ctx, ids)
}

// Validate uses the same applicability rule as order pricing. An unknown
// code is a not-found error; a known one that no longer applies is valid=false.
func (s *promoCodeService) Validate(ctx context.Context, code string) (*dto.PromoValidationResponse, error) {
	p, err := s.repo.FindByCode(ctx, normalizeCode(code))
	if err != nil {
		return nil, notFound(err, "code promo %s introuvable", normalizeCode(code))
	}
	resp := &dto.PromoValidationResponse{Valid: p.Applies(s.now()), Code: p.Code}
	if resp.Valid {
		resp.Discount = p.Discount
	}
	return resp, nil
}

func promoToResponse(p *model.PromoCode) *dto.PromoCodeResponse {
	return &dto.PromoCodeResponse{
		ID:        p.ID.String(),
		Code:      p.Code,
		Discount:  p.Discount,
		StartDate: p.StartDate.Format(time.RFC3339),
		EndDate:   p.EndDate.Format(time.RFC3339),
		IsActive:  p.IsActive,
	}
}
