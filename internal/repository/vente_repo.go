package repository

import (
	"context"
	"time"

	"boutique/internal/dto"
	"boutique/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemSales is one row of the best-sellers aggregation.
type ItemSales struct {
	ItemID      string
	Type        string
	Designation string
	Quantity    int64
}

type VenteRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Vente) error
	// Replace rewrites every column of v and swaps its line items.
	Replace(ctx context.Context, tx *gorm.DB, v *model.Vente) error
	// SetCreatedAt back-dates an order without running hooks.
	SetCreatedAt(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Vente, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Vente, error)
	List(ctx context.Context, filter dto.VenteFilter) ([]model.Vente, int64, error)
	// ListAll applies the filter without pagination, for exports.
	ListAll(ctx context.Context, filter dto.VenteFilter) ([]model.Vente, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Vente, error)
	ReferenceExists(ctx context.Context, ref string) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)

	// Analytics
	InRange(ctx context.Context, from, to time.Time) ([]model.Vente, error)
	TopItems(ctx context.Context, from, to time.Time, excluded []string, limit int) ([]ItemSales, error)

	DB() *gorm.DB
}

type venteRepo struct{ db *gorm.DB }

func NewVenteRepository(db *gorm.DB) VenteRepository { return &venteRepo{db: db} }

func (r *venteRepo) DB() *gorm.DB { return r.db }

func (r *venteRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Vente) error {
	return conn(ctx, r.db, tx).Create(v).Error
}

func (r *venteRepo) Replace(ctx context.Context, tx *gorm.DB, v *model.Vente) error {
	db := conn(ctx, r.db, tx)
	if err := db.Omit("Items").Save(v).Error; err != nil {
		return err
	}
	if err := db.Where("vente_id = ?", v.ID).Delete(&model.VenteItem{}).Error; err != nil {
		return err
	}
	for i := range v.Items {
		v.Items[i].ID = uuid.Nil
		v.Items[i].VenteID = v.ID
	}
	if len(v.Items) == 0 {
		return nil
	}
	return db.Create(&v.Items).Error
}

func (r *venteRepo) SetCreatedAt(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error {
	return conn(ctx, r.db, tx).Model(&model.Vente{}).Where("id = ?", id).
		UpdateColumn("created_at", at).Error
}

func (r *venteRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).Model(&model.Vente{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *venteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vente, error) {
	var v model.Vente
	err := r.db.WithContext(ctx).Preload("Items", orderItems).Where("id = ?", id).First(&v).Error
	return &v, err
}

func (r *venteRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Vente, error) {
	var ventes []model.Vente
	if len(ids) == 0 {
		return ventes, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ventes).Error
	return ventes, err
}

func (r *venteRepo) filtered(ctx context.Context, filter dto.VenteFilter) (*gorm.DB, error) {
	q := r.db.WithContext(ctx).Model(&model.Vente{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("LOWER(reference) LIKE ? OR client_id IN (?)", p,
			r.db.Model(&model.Client{}).Select("id").
				Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR phone1 LIKE ?", p, p, p))
	}
	if filter.From != "" {
		from, err := time.ParseInLocation(time.DateOnly, filter.From, time.UTC)
		if err != nil {
			return nil, err
		}
		q = q.Where("created_at >= ?", from)
	}
	if filter.To != "" {
		to, err := time.ParseInLocation(time.DateOnly, filter.To, time.UTC)
		if err != nil {
			return nil, err
		}
		q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
	}
	return q, nil
}

func (r *venteRepo) List(ctx context.Context, filter dto.VenteFilter) ([]model.Vente, int64, error) {
	var ventes []model.Vente
	var total int64

	q, err := r.filtered(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err = q.Preload("Items", orderItems).
		Order("created_at DESC").
		Offset(filter.Offset()).Limit(filter.Limit).
		Find(&ventes).Error
	return ventes, total, err
}

func (r *venteRepo) ListAll(ctx context.Context, filter dto.VenteFilter) ([]model.Vente, error) {
	var ventes []model.Vente
	q, err := r.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	err = q.Preload("Items", orderItems).Order("created_at DESC").Find(&ventes).Error
	return ventes, err
}

func (r *venteRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Vente, error) {
	var ventes []model.Vente
	err := r.db.WithContext(ctx).Preload("Items", orderItems).
		Where("id IN (?)", r.db.Table("client_orders").Select("vente_id").Where("client_id = ?", clientID)).
		Order("created_at DESC").
		Find(&ventes).Error
	return ventes, err
}

func (r *venteRepo) ReferenceExists(ctx context.Context, ref string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Vente{}).Where("reference = ?", ref).Count(&n).Error
	return n > 0, err
}

func (r *venteRepo) Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	db := conn(ctx, r.db, tx)
	if err := db.Where("vente_id IN ?", ids).Delete(&model.VenteItem{}).Error; err != nil {
		return 0, err
	}
	res := db.Where("id IN ?", ids).Delete(&model.Vente{})
	return res.RowsAffected, res.Error
}

func (r *venteRepo) InRange(ctx context.Context, from, to time.Time) ([]model.Vente, error) {
	var ventes []model.Vente
	err := r.db.WithContext(ctx).
		Select("id", "status", "net_a_payer", "created_at").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at").
		Find(&ventes).Error
	return ventes, err
}

func (r *venteRepo) TopItems(ctx context.Context, from, to time.Time, excluded []string, limit int) ([]ItemSales, error) {
	var rows []ItemSales
	q := r.db.WithContext(ctx).
		Table("vente_items AS vi").
		Select("vi.item_id AS item_id, vi.type AS type, MAX(vi.designation) AS designation, SUM(vi.quantity) AS quantity").
		Joins("JOIN ventes v ON v.id = vi.vente_id").
		Where("v.created_at >= ? AND v.created_at < ?", from, to)
	if len(excluded) > 0 {
		q = q.Where("v.status NOT IN ?", excluded)
	}
	err := q.Group("vi.item_id, vi.type").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func orderItems(db *gorm.DB) *gorm.DB { return db.Order("position") }
