package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Feature flags a catalog item for a storefront section.
type Feature string

const (
	FeatureMeilleurVente Feature = "meilleur-vente"
	FeatureNouveau       Feature = "nouveau"
	FeatureVenteFlash    Feature = "vente-flash"
	FeaturePromo         Feature = "promo"
)

// Features is the closed set accepted by the API.
var Features = []Feature{FeatureMeilleurVente, FeatureNouveau, FeatureVenteFlash, FeaturePromo}

// Category groups products. Products is the denormalized member list,
// kept in sync by the product and category services.
type Category struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Designation   string    `gorm:"not null"`
	Slug          string    `gorm:"uniqueIndex;not null"`
	Image         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	SubCategories []SubCategory `gorm:"foreignKey:CategoryID"`
	Products      []Product     `gorm:"many2many:category_products;joinForeignKey:CategoryID;joinReferences:ProductID"`
}

func (Category) TableName() string { return "categories" }

// SubCategory belongs to a Category and keeps its own member list.
type SubCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Designation string    `gorm:"not null"`
	Slug        string    `gorm:"uniqueIndex;not null"`
	Image       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Products    []Product `gorm:"many2many:sub_category_products;joinForeignKey:SubCategoryID;joinReferences:ProductID"`
}

// Product is a sellable catalog item.
type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Designation   string    `gorm:"index;not null"`
	Slug          string    `gorm:"uniqueIndex;not null"`
	Description   *string
	Price         decimal.Decimal  `gorm:"type:decimal(14,3);not null"`
	OldPrice      *decimal.Decimal `gorm:"type:decimal(14,3)"`
	InStock       bool             `gorm:"not null"`
	Images        []string         `gorm:"serializer:json"`
	Variants      []string         `gorm:"serializer:json"`
	CategoryID    *uuid.UUID       `gorm:"type:uuid;index"`
	SubCategoryID *uuid.UUID       `gorm:"type:uuid;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Features    []ProductFeature `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Category    *Category        `gorm:"foreignKey:CategoryID"`
	SubCategory *SubCategory     `gorm:"foreignKey:SubCategoryID"`
}

// ProductFeature is one indexed feature tag of a product.
type ProductFeature struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Feature   Feature   `gorm:"type:varchar(30);primaryKey;index"`
}

// Pack bundles several products under one price.
type Pack struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Designation string    `gorm:"index;not null"`
	Slug        string    `gorm:"uniqueIndex;not null"`
	Description *string
	Price       decimal.Decimal  `gorm:"type:decimal(14,3);not null"`
	OldPrice    *decimal.Decimal `gorm:"type:decimal(14,3)"`
	InStock     bool             `gorm:"not null"`
	Images      []string         `gorm:"serializer:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Features []PackFeature `gorm:"foreignKey:PackID;constraint:OnDelete:CASCADE"`
	Products []Product     `gorm:"many2many:pack_products;joinForeignKey:PackID;joinReferences:ProductID"`
}

// PackFeature is one indexed feature tag of a pack.
type PackFeature struct {
	PackID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Feature Feature   `gorm:"type:varchar(30);primaryKey;index"`
}

// FeatureList flattens feature rows for responses.
func (p *Product) FeatureList() []Feature {
	out := make([]Feature, 0, len(p.Features))
	for _, f := range p.Features {
		out = append(out, f.Feature)
	}
	return out
}

// FeatureList flattens feature rows for responses.
func (p *Pack) FeatureList() []Feature {
	out := make([]Feature, 0, len(p.Features))
	for _, f := range p.Features {
		out = append(out, f.Feature)
	}
	return out
}
