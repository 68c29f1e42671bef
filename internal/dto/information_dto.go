package dto

import "github.com/shopspring/decimal"

type UpdateInformationRequest struct {
	StoreName *string           `json:"storeName" validate:"omitempty,min=1,max=100"`
	Email     *string           `json:"email"     validate:"omitempty,email"`
	Phone     *string           `json:"phone"     validate:"omitempty,max=20"`
	Address   *string           `json:"address"   validate:"omitempty,max=255"`
	Socials   map[string]string `json:"socials"`
	Tva       *decimal.Decimal  `json:"tva"       validate:"omitempty,min=0,lt=1"`
	Timber    *decimal.Decimal  `json:"timber"    validate:"omitempty,min=0"`
	Livraison *decimal.Decimal  `json:"livraison" validate:"omitempty,min=0"`
}

type InformationResponse struct {
	StoreName string            `json:"storeName"`
	Email     *string           `json:"email"`
	Phone     *string           `json:"phone"`
	Address   *string           `json:"address"`
	Socials   map[string]string `json:"socials"`
	Tva       decimal.Decimal   `json:"tva"`
	Timber    decimal.Decimal   `json:"timber"`
	Livraison decimal.Decimal   `json:"livraison"`
	UpdatedAt string            `json:"updatedAt"`
}
