// Package model holds the GORM entities of the boutique back-office.
package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// All lists every entity, in dependency order, for AutoMigrate in tests.
// Production schema is owned by the SQL migrations in internal/infra/migrations.
func All() []interface{} {
	return []interface{}{
		&Admin{},
		&Information{},
		&Category{},
		&SubCategory{},
		&Product{},
		&ProductFeature{},
		&Pack{},
		&PackFeature{},
		&Client{},
		&CartItem{},
		&PromoCode{},
		&Vente{},
		&VenteItem{},
		&Blog{},
		&Page{},
		&Message{},
		&Notification{},
	}
}

// assignID gives a fresh UUID to rows created without one, so the same hooks
// work on Postgres and on the SQLite test database.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (a *Admin) BeforeCreate(_ *gorm.DB) error        { assignID(&a.ID); return nil }
func (c *Category) BeforeCreate(_ *gorm.DB) error     { assignID(&c.ID); return nil }
func (s *SubCategory) BeforeCreate(_ *gorm.DB) error  { assignID(&s.ID); return nil }
func (p *Product) BeforeCreate(_ *gorm.DB) error      { assignID(&p.ID); return nil }
func (p *Pack) BeforeCreate(_ *gorm.DB) error         { assignID(&p.ID); return nil }
func (c *Client) BeforeCreate(_ *gorm.DB) error       { assignID(&c.ID); return nil }
func (c *CartItem) BeforeCreate(_ *gorm.DB) error     { assignID(&c.ID); return nil }
func (p *PromoCode) BeforeCreate(_ *gorm.DB) error    { assignID(&p.ID); return nil }
func (v *Vente) BeforeCreate(_ *gorm.DB) error        { assignID(&v.ID); return nil }
func (i *VenteItem) BeforeCreate(_ *gorm.DB) error    { assignID(&i.ID); return nil }
func (b *Blog) BeforeCreate(_ *gorm.DB) error         { assignID(&b.ID); return nil }
func (p *Page) BeforeCreate(_ *gorm.DB) error         { assignID(&p.ID); return nil }
func (m *Message) BeforeCreate(_ *gorm.DB) error      { assignID(&m.ID); return nil }
func (n *Notification) BeforeCreate(_ *gorm.DB) error { assignID(&n.ID); return nil }
