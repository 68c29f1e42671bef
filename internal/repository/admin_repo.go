package repository

import (
	"context"

	"boutique/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminRepository interface {
	Create(ctx context.Context, a *model.Admin) error
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Admin, error)
	List(ctx context.Context) ([]model.Admin, error)
	Update(ctx context.Context, a *model.Admin) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type adminRepo struct{ db *gorm.DB }

func NewAdminRepository(db *gorm.DB) AdminRepository { return &adminRepo{db: db} }

func (r *adminRepo) Create(ctx context.Context, a *model.Admin) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *adminRepo) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var a model.Admin
	// Accept login by username OR email (case-insensitive email match)
	err := r.db.WithContext(ctx).
		Where("(username = ? OR LOWER(email) = LOWER(?)) AND active = ?", username, username, true).
		First(&a).Error
	return &a, err
}

func (r *adminRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Admin, error) {
	var a model.Admin
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	return &a, err
}

func (r *adminRepo) List(ctx context.Context) ([]model.Admin, error) {
	var admins []model.Admin
	err := r.db.WithContext(ctx).Order("username").Find(&admins).Error
	return admins, err
}

func (r *adminRepo) Update(ctx context.Context, a *model.Admin) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *adminRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Admin{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
