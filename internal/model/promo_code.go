package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromoCode is an order-level discount expressed as a fraction (0.1 = 10%).
type PromoCode struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code      string          `gorm:"uniqueIndex;not null"`
	Discount  decimal.Decimal `gorm:"type:decimal(6,4);not null"`
	StartDate time.Time       `gorm:"not null"`
	EndDate   time.Time       `gorm:"not null"`
	IsActive  bool            `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Applies reports whether the code discounts an order placed at now.
// The rule is active OR not yet expired; an inactive code keeps applying
// until its end date.
func (p *PromoCode) Applies(now time.Time) bool {
	return p.IsActive || p.EndDate.After(now)
}
