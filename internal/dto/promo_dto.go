package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreatePromoCodeRequest struct {
	Code      string          `json:"code"      validate:"required,min=3,max=50"`
	Discount  decimal.Decimal `json:"discount"  validate:"required,gt=0,lte=1"`
	StartDate time.Time       `json:"startDate" validate:"required"`
	EndDate   time.Time       `json:"endDate"   validate:"required"`
	IsActive  *bool           `json:"isActive"`
}

type UpdatePromoCodeRequest struct {
	Code      *string          `json:"code"      validate:"omitempty,min=3,max=50"`
	Discount  *decimal.Decimal `json:"discount"  validate:"omitempty,gt=0,lte=1"`
	StartDate *time.Time       `json:"startDate"`
	EndDate   *time.Time       `json:"endDate"`
	IsActive  *bool            `json:"isActive"`
}

type PromoCodeResponse struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Discount  decimal.Decimal `json:"discount"`
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
	IsActive  bool            `json:"isActive"`
}

// PromoValidationResponse answers GET .../promo-code/validate/:code.
type PromoValidationResponse struct {
	Valid    bool            `json:"valid"`
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
}
