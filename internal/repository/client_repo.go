package repository

import (
	"context"

	"boutique/internal/dto"
	"boutique/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClientRepository covers clients, their carts and wishlists, and the
// client_orders back-reference list.
type ClientRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Client) error
	Update(ctx context.Context, c *model.Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Client, error)
	// FindByEmailPhone is the storefront identity rule: same email and phone1.
	FindByEmailPhone(ctx context.Context, email *string, phone1 string) (*model.Client, error)
	// FindRegisteredByEmail returns the client owning a storefront password.
	FindRegisteredByEmail(ctx context.Context, email string) (*model.Client, error)
	EmailRegistered(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter dto.ClientFilter) ([]model.Client, int64, error)
	Count(ctx context.Context) (int64, error)
	// Delete removes clients with their cart, wishlist and order references.
	// Orders themselves are left untouched.
	Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)

	AttachOrder(ctx context.Context, tx *gorm.DB, clientID, venteID uuid.UUID) error
	DetachOrder(ctx context.Context, tx *gorm.DB, clientID, venteID uuid.UUID) error
	// DetachOrders pulls the given order ids from every client's list.
	DetachOrders(ctx context.Context, tx *gorm.DB, venteIDs []uuid.UUID) error
	OrderIDs(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error)
	OrderOwners(ctx context.Context, venteID uuid.UUID) ([]uuid.UUID, error)

	WishlistIDs(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error)
	InWishlist(ctx context.Context, clientID, productID uuid.UUID) (bool, error)
	AddWishlist(ctx context.Context, clientID, productID uuid.UUID) error
	RemoveWishlist(ctx context.Context, clientID, productID uuid.UUID) error

	Cart(ctx context.Context, clientID uuid.UUID) ([]model.CartItem, error)
	UpsertCartItem(ctx context.Context, item *model.CartItem) error
	RemoveCartItem(ctx context.Context, clientID, productID uuid.UUID) (int64, error)

	DB() *gorm.DB
}

type clientRepo struct{ db *gorm.DB }

func NewClientRepository(db *gorm.DB) ClientRepository { return &clientRepo{db: db} }

func (r *clientRepo) DB() *gorm.DB { return r.db }

func (r *clientRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Client) error {
	return conn(ctx, r.db, tx).Omit("Cart", "Wishlist", "Orders").Create(c).Error
}

func (r *clientRepo) Update(ctx context.Context, c *model.Client) error {
	return r.db.WithContext(ctx).Omit("Cart", "Wishlist", "Orders").Save(c).Error
}

func (r *clientRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *clientRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Client, error) {
	var clients []model.Client
	if len(ids) == 0 {
		return clients, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&clients).Error
	return clients, err
}

func (r *clientRepo) FindByEmailPhone(ctx context.Context, email *string, phone1 string) (*model.Client, error) {
	var c model.Client
	q := r.db.WithContext(ctx).Where("phone1 = ?", phone1)
	if email != nil {
		q = q.Where("LOWER(email) = LOWER(?)", *email)
	} else {
		q = q.Where("email IS NULL")
	}
	err := q.Order("created_at").First(&c).Error
	return &c, err
}

func (r *clientRepo) FindRegisteredByEmail(ctx context.Context, email string) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?) AND password_hash IS NOT NULL", email).
		First(&c).Error
	return &c, err
}

func (r *clientRepo) EmailRegistered(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Client{}).
		Where("LOWER(email) = LOWER(?) AND password_hash IS NOT NULL", email).
		Count(&n).Error
	return n > 0, err
}

func (r *clientRepo) List(ctx context.Context, filter dto.ClientFilter) ([]model.Client, int64, error) {
	var clients []model.Client
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Client{})
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR phone1 LIKE ?", p, p, p, p)
	}
	if filter.Guest != nil {
		if *filter.Guest {
			q = q.Where("password_hash IS NULL")
		} else {
			q = q.Where("password_hash IS NOT NULL")
		}
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Offset(filter.Offset()).Limit(filter.Limit).
		Find(&clients).Error
	return clients, total, err
}

func (r *clientRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Client{}).Count(&n).Error
	return n, err
}

func (r *clientRepo) Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	db := conn(ctx, r.db, tx)
	for _, jt := range []joinTable{clientOrders, clientWishlist} {
		if err := jt.unlinkLeft(db, ids); err != nil {
			return 0, err
		}
	}
	if err := db.Where("client_id IN ?", ids).Delete(&model.CartItem{}).Error; err != nil {
		return 0, err
	}
	res := db.Where("id IN ?", ids).Delete(&model.Client{})
	return res.RowsAffected, res.Error
}

func (r *clientRepo) AttachOrder(ctx context.Context, tx *gorm.DB, clientID, venteID uuid.UUID) error {
	return clientOrders.link(conn(ctx, r.db, tx), clientID, venteID)
}

func (r *clientRepo) DetachOrder(ctx context.Context, tx *gorm.DB, clientID, venteID uuid.UUID) error {
	return clientOrders.unlink(conn(ctx, r.db, tx), clientID, venteID)
}

func (r *clientRepo) DetachOrders(ctx context.Context, tx *gorm.DB, venteIDs []uuid.UUID) error {
	return clientOrders.unlinkRight(conn(ctx, r.db, tx), venteIDs)
}

func (r *clientRepo) OrderIDs(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error) {
	return clientOrders.rights(r.db.WithContext(ctx), clientID)
}

func (r *clientRepo) OrderOwners(ctx context.Context, venteID uuid.UUID) ([]uuid.UUID, error) {
	return clientOrders.lefts(r.db.WithContext(ctx), venteID)
}

func (r *clientRepo) WishlistIDs(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error) {
	return clientWishlist.rights(r.db.WithContext(ctx), clientID)
}

func (r *clientRepo) InWishlist(ctx context.Context, clientID, productID uuid.UUID) (bool, error) {
	return clientWishlist.has(r.db.WithContext(ctx), clientID, productID)
}

func (r *clientRepo) AddWishlist(ctx context.Context, clientID, productID uuid.UUID) error {
	return clientWishlist.link(r.db.WithContext(ctx), clientID, productID)
}

func (r *clientRepo) RemoveWishlist(ctx context.Context, clientID, productID uuid.UUID) error {
	return clientWishlist.unlink(r.db.WithContext(ctx), clientID, productID)
}

func (r *clientRepo) Cart(ctx context.Context, clientID uuid.UUID) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).Preload("Product.Features").
		Where("client_id = ?", clientID).Order("product_id").Find(&items).Error
	return items, err
}

func (r *clientRepo) UpsertCartItem(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Omit("Product").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_id"}, {Name: "product_id"}, {Name: "variant"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
	}).Create(item).Error
}

func (r *clientRepo) RemoveCartItem(ctx context.Context, clientID, productID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("client_id = ? AND product_id = ?", clientID, productID).
		Delete(&model.CartItem{})
	return res.RowsAffected, res.Error
}
