package repository

import (
	"context"

	"boutique/internal/model"

	"gorm.io/gorm"
)

type InformationRepository interface {
	// Get returns the settings row, creating an empty one on first access.
	Get(ctx context.Context) (*model.Information, error)
	Save(ctx context.Context, info *model.Information) error
}

type informationRepo struct{ db *gorm.DB }

func NewInformationRepository(db *gorm.DB) InformationRepository {
	return &informationRepo{db: db}
}

func (r *informationRepo) Get(ctx context.Context) (*model.Information, error) {
	info := model.Information{ID: model.InformationID}
	err := r.db.WithContext(ctx).Where("id = ?", model.InformationID).FirstOrCreate(&info).Error
	return &info, err
}

func (r *informationRepo) Save(ctx context.Context, info *model.Information) error {
	info.ID = model.InformationID
	return r.db.WithContext(ctx).Save(info).Error
}
