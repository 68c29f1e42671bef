package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// VenteItemRequest references a catalog item by id (back-office orders).
type VenteItemRequest struct {
	Type     string  `json:"type"     validate:"required,oneof=Product Pack"`
	ItemID   string  `json:"itemId"   validate:"required,uuid"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Variant  *string `json:"variant"  validate:"omitempty,max=100"`
}

// ClientInput carries the contact fields of a customer.
type ClientInput struct {
	FirstName string  `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string  `json:"lastName"  validate:"required,min=1,max=100"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Phone1    string  `json:"phone1"    validate:"required,min=6,max=20"`
	Phone2    *string `json:"phone2"    validate:"omitempty,max=20"`
	Address   *string `json:"address"   validate:"omitempty,max=255"`
	City      *string `json:"city"      validate:"omitempty,max=100"`
}

type LivreurInput struct {
	Name  string `json:"name"  validate:"required,max=100"`
	Phone string `json:"phone" validate:"required,max=20"`
}

// CreateVenteRequest is the body of POST /admin/vente/new. Either IsNewClient
// with Client, or ClientID, identifies the customer.
type CreateVenteRequest struct {
	Items              []VenteItemRequest `json:"items"              validate:"required,min=1,dive"`
	Client             *ClientInput       `json:"client"`
	ClientID           *string            `json:"clientId"           validate:"omitempty,uuid"`
	IsNewClient        bool               `json:"isNewClient"`
	Livreur            *LivreurInput      `json:"livreur"`
	PromoCode          *string            `json:"promoCode"          validate:"omitempty,max=50"`
	Livraison          *decimal.Decimal   `json:"livraison"          validate:"omitempty,min=0"`
	AdditionalCharges  decimal.Decimal    `json:"additionalCharges"  validate:"min=0"`
	AdditionalDiscount decimal.Decimal    `json:"additionalDiscount" validate:"min=0"`
	ModePayment        string             `json:"modePayment"        validate:"omitempty,max=30"`
	Status             string             `json:"status"             validate:"omitempty,oneof=pending processing paid delivered cancelled refunded"`
	Note               *string            `json:"note"               validate:"omitempty,max=1000"`
}

// UpdateVenteRequest replaces an order wholesale. CreatedAt back-dates it.
type UpdateVenteRequest struct {
	CreateVenteRequest
	CreatedAt *time.Time `json:"createdAt"`
}

type UpdateVenteStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing paid delivered cancelled refunded"`
}

// CommandeItemRequest references a catalog item by slug (storefront orders).
type CommandeItemRequest struct {
	Type     string  `json:"type"     validate:"required,oneof=Product Pack"`
	Slug     string  `json:"slug"     validate:"required,max=200"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Variant  *string `json:"variant"  validate:"omitempty,max=100"`
}

// CreateCommandeRequest is the body of POST /api/commande.
type CreateCommandeRequest struct {
	Items       []CommandeItemRequest `json:"items"       validate:"required,min=1,dive"`
	Client      ClientInput           `json:"client"      validate:"required"`
	PromoCode   *string               `json:"promoCode"   validate:"omitempty,max=50"`
	Livraison   *decimal.Decimal      `json:"livraison"   validate:"omitempty,min=0"`
	ModePayment string                `json:"modePayment" validate:"omitempty,max=30"`
	Note        *string               `json:"note"        validate:"omitempty,max=1000"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

// VenteFilter is bound from the query string of GET /admin/vente/get/all.
type VenteFilter struct {
	Status   string `form:"status"   validate:"omitempty,oneof=pending processing paid delivered cancelled refunded"`
	ClientID string `form:"clientId" validate:"omitempty,uuid"`
	Search   string `form:"search"`
	From     string `form:"from"     validate:"omitempty,datetime=2006-01-02"`
	To       string `form:"to"       validate:"omitempty,datetime=2006-01-02"`
	Pagination
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CreateVenteResponse struct {
	Success   bool   `json:"success"`
	Reference string `json:"reference"`
	ID        string `json:"id"`
}

type VenteItemResponse struct {
	Type        string  `json:"type"`
	ItemID      string  `json:"itemId"`
	Designation string  `json:"designation"`
	Price       string  `json:"price"`
	OldPrice    *string `json:"oldPrice"`
	Quantity    int     `json:"quantity"`
	Variant     *string `json:"variant"`
}

type PromoSnapshotResponse struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Value string `json:"value"`
}

// VenteResponse renders monetary fields with exactly three decimals.
type VenteResponse struct {
	ID                string                 `json:"id"`
	Reference         string                 `json:"reference"`
	Client            ClientSnapshotResponse `json:"client"`
	Livreur           *LivreurInput          `json:"livreur"`
	Items             []VenteItemResponse    `json:"items"`
	Tva               string                 `json:"tva"`
	TotalHT           string                 `json:"totalHT"`
	TotalTTC          string                 `json:"totalTTC"`
	Livraison         string                 `json:"livraison"`
	Timber            string                 `json:"timber"`
	AdditionalCharges string                 `json:"additionalCharges"`
	Discount          string                 `json:"discount"`
	ProductsDiscount  string                 `json:"productsDiscount"`
	NetAPayer         string                 `json:"netAPayer"`
	TaxRate           string                 `json:"taxRate"`
	ModePayment       string                 `json:"modePayment"`
	Status            string                 `json:"status"`
	PromoCode         *PromoSnapshotResponse `json:"promoCode"`
	Note              *string                `json:"note"`
	CreatedAt         string                 `json:"createdAt"`
	UpdatedAt         string                 `json:"updatedAt"`
}

type ClientSnapshotResponse struct {
	ClientID  string  `json:"clientId"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     *string `json:"email"`
	Phone1    string  `json:"phone1"`
	Phone2    *string `json:"phone2"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
}
