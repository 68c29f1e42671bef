package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item kinds accepted in an order line.
const (
	ItemProduct = "Product"
	ItemPack    = "Pack"
)

// Order statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusPaid       = "paid"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"
)

// ClientSnapshot captures the customer's contact data at order time.
type ClientSnapshot struct {
	ClientID  uuid.UUID `json:"client_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     *string   `json:"email,omitempty"`
	Phone1    string    `json:"phone1"`
	Phone2    *string   `json:"phone2,omitempty"`
	Address   *string   `json:"address,omitempty"`
	City      *string   `json:"city,omitempty"`
}

// Livreur is the delivery person assigned to an order.
type Livreur struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// PromoSnapshot records the promo code applied to an order.
type PromoSnapshot struct {
	ID    uuid.UUID       `json:"id"`
	Code  string          `json:"code"`
	Value decimal.Decimal `json:"value"`
}

// Vente is a customer order. Monetary fields are recomputed on every
// create/update; TaxRate and Timber keep the settings used for the computation.
type Vente struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Reference         string          `gorm:"type:varchar(5);uniqueIndex;not null"`
	Client            ClientSnapshot  `gorm:"serializer:json;not null"`
	ClientID          *uuid.UUID      `gorm:"type:uuid;index"`
	Livreur           *Livreur        `gorm:"serializer:json"`
	Tva               decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	TotalHT           decimal.Decimal `gorm:"column:total_ht;type:decimal(14,3);not null;default:0"`
	TotalTTC          decimal.Decimal `gorm:"column:total_ttc;type:decimal(14,3);not null;default:0"`
	Livraison         decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	Timber            decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	AdditionalCharges decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	Discount          decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	ProductsDiscount  decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	NetAPayer         decimal.Decimal `gorm:"column:net_a_payer;type:decimal(14,3);not null;default:0"`
	TaxRate           decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0"`
	ModePayment       string          `gorm:"type:varchar(30);not null;default:'especes'"`
	Status            string          `gorm:"type:varchar(20);index;not null;default:'pending'"`
	PromoCode         *PromoSnapshot  `gorm:"serializer:json"`
	Note              *string
	CreatedAt         time.Time `gorm:"index"`
	UpdatedAt         time.Time

	Items []VenteItem `gorm:"foreignKey:VenteID;constraint:OnDelete:CASCADE"`
}

// VenteItem is an order line with the catalog data captured at order time.
type VenteItem struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"`
	VenteID     uuid.UUID        `gorm:"type:uuid;index;not null"`
	Position    int              `gorm:"not null"`
	Type        string           `gorm:"type:varchar(10);not null"`
	ItemID      uuid.UUID        `gorm:"type:uuid;index;not null"`
	Designation string           `gorm:"not null"`
	Price       decimal.Decimal  `gorm:"type:decimal(14,3);not null"`
	OldPrice    *decimal.Decimal `gorm:"type:decimal(14,3)"`
	Quantity    int              `gorm:"not null"`
	Variant     *string
}
