package service

import (
	"context"
	"errors"
	"time"

	"boutique/internal/dto"
	"boutique/internal/infra"
	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/rs/zerolog/log"
)

const informationCacheKey = "cache:information"

// JSONCache is the read-through cache used for the settings row.
// Implemented by infra.Cache.
type JSONCache interface {
	Get(ctx context.Context, key string, dst interface{}) error
	Set(ctx context.Context, key string, v interface{}) error
	Delete(ctx context.Context, key string) error
}

type InformationService interface {
	SettingsSource
	Get(ctx context.Context) (*dto.InformationResponse, error)
	Update(ctx context.Context, req dto.UpdateInformationRequest) (*dto.InformationResponse, error)
}

type informationService struct {
	repo  repository.InformationRepository
	cache JSONCache
}

// NewInformationService creates the settings service. cache may be nil.
func NewInformationService(repo repository.InformationRepository, cache JSONCache) InformationService {
	return &informationService{repo: repo, cache: cache}
}

// Settings returns the current settings row, served from Redis when cached.
// Cache errors fall back to the database.
func (s *informationService) Settings(ctx context.Context) (*model.Information, error) {
	if s.cache != nil {
		var info model.Information
		err := s.cache.Get(ctx, informationCacheKey, &info)
		if err == nil {
			return &info, nil
		}
		if !errors.Is(err, infra.ErrCacheMiss) {
			log.Warn().Err(err).Msg("information: cache read failed")
		}
	}

	info, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, informationCacheKey, info); err != nil {
			log.Warn().Err(err).Msg("information: cache write failed")
		}
	}
	return info, nil
}

func (s *informationService) Get(ctx context.Context) (*dto.InformationResponse, error) {
	info, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	return informationToResponse(info), nil
}

func (s *informationService) Update(ctx context.Context, req dto.UpdateInformationRequest) (*dto.InformationResponse, error) {
	info, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if req.StoreName != nil {
		info.StoreName = *req.StoreName
	}
	if req.Email != nil {
		info.Email = req.Email
	}
	if req.Phone != nil {
		info.Phone = req.Phone
	}
	if req.Address != nil {
		info.Address = req.Address
	}
	if req.Socials != nil {
		info.Socials = req.Socials
	}
	if req.Tva != nil {
		info.Tva = *req.Tva
	}
	if req.Timber != nil {
		info.Timber = *req.Timber
	}
	if req.Livraison != nil {
		info.Livraison = *req.Livraison
	}
	if err := s.repo.Save(ctx, info); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, informationCacheKey); err != nil {
			log.Warn().Err(err).Msg("information: cache invalidation failed")
		}
	}
	return informationToResponse(info), nil
}

func informationToResponse(info *model.Information) *dto.InformationResponse {
	socials := info.Socials
	if socials == nil {
		socials = map[string]string{}
	}
	return &dto.InformationResponse{
		StoreName: info.StoreName,
		Email:     info.Email,
		Phone:     info.Phone,
		Address:   info.Address,
		Socials:   socials,
		Tva:       info.Tva,
		Timber:    info.Timber,
		Livraison: info.Livraison,
		UpdatedAt: info.UpdatedAt.Format(time.RFC3339),
	}
}
