// Package repository implements data access on top of GORM. Services depend
// on the interfaces declared here; methods that take a tx run inside the
// caller's transaction and fall back to the repository's own handle when tx
// is nil.
package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// likePattern builds a case-insensitive LIKE operand for LOWER(col) LIKE ?.
func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// joinTable maintains one many2many reference table, the relational form of
// the id arrays kept on categories, subcategories, packs and clients.
type joinTable struct {
	name  string
	left  string
	right string
}

var (
	categoryProducts    = joinTable{"category_products", "category_id", "product_id"}
	subCategoryProducts = joinTable{"sub_category_products", "sub_category_id", "product_id"}
	packProducts        = joinTable{"pack_products", "pack_id", "product_id"}
	clientOrders        = joinTable{"client_orders", "client_id", "vente_id"}
	clientWishlist      = joinTable{"client_wishlist", "client_id", "product_id"}
)

func (j joinTable) link(db *gorm.DB, l, r uuid.UUID) error {
	return db.Exec("INSERT INTO "+j.name+" ("+j.left+", "+j.right+") VALUES (?, ?) ON CONFLICT DO NOTHING", l, r).Error
}

func (j joinTable) unlink(db *gorm.DB, l, r uuid.UUID) error {
	return db.Exec("DELETE FROM "+j.name+" WHERE "+j.left+" = ? AND "+j.right+" = ?", l, r).Error
}

// unlinkRight removes every row pointing at the given right-side ids.
func (j joinTable) unlinkRight(db *gorm.DB, rs []uuid.UUID) error {
	if len(rs) == 0 {
		return nil
	}
	return db.Exec("DELETE FROM "+j.name+" WHERE "+j.right+" IN ?", rs).Error
}

// unlinkLeft removes every row owned by the given left-side ids.
func (j joinTable) unlinkLeft(db *gorm.DB, ls []uuid.UUID) error {
	if len(ls) == 0 {
		return nil
	}
	return db.Exec("DELETE FROM "+j.name+" WHERE "+j.left+" IN ?", ls).Error
}

func (j joinTable) rights(db *gorm.DB, l uuid.UUID) ([]uuid.UUID, error) {
	var raw []string
	if err := db.Table(j.name).Where(j.left+" = ?", l).Pluck(j.right, &raw).Error; err != nil {
		return nil, err
	}
	return parseIDs(raw)
}

func (j joinTable) lefts(db *gorm.DB, r uuid.UUID) ([]uuid.UUID, error) {
	var raw []string
	if err := db.Table(j.name).Where(j.right+" = ?", r).Pluck(j.left, &raw).Error; err != nil {
		return nil, err
	}
	return parseIDs(raw)
}

func (j joinTable) has(db *gorm.DB, l, r uuid.UUID) (bool, error) {
	var n int64
	err := db.Table(j.name).Where(j.left+" = ? AND "+j.right+" = ?", l, r).Count(&n).Error
	return n > 0, err
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
