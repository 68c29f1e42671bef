package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InformationID is the primary key of the single settings row.
const InformationID = 1

// Information is the store-wide settings singleton. Tva, Timber and
// Livraison feed every order computation.
type Information struct {
	ID        uint   `gorm:"primaryKey"`
	StoreName string `gorm:"not null;default:''"`
	Email     *string
	Phone     *string
	Address   *string
	Socials   map[string]string `gorm:"serializer:json"`
	// Tva is the tax rate as a fraction (0.19 = 19%).
	Tva       decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0"`
	Timber    decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	Livraison decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	UpdatedAt time.Time
}

func (Information) TableName() string { return "information" }
