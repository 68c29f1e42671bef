package dto

import "github.com/shopspring/decimal"

// ─── Product ─────────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Designation   string           `json:"designation"   validate:"required,min=2,max=200"`
	Description   *string          `json:"description"`
	Price         decimal.Decimal  `json:"price"         validate:"required,gt=0"`
	OldPrice      *decimal.Decimal `json:"oldPrice"      validate:"omitempty,min=0"`
	InStock       *bool            `json:"inStock"`
	Images        []string         `json:"images"        validate:"omitempty,dive,max=500"`
	Variants      []string         `json:"variants"      validate:"omitempty,dive,max=100"`
	Features      []string         `json:"features"      validate:"omitempty,dive,oneof=meilleur-vente nouveau vente-flash promo"`
	CategoryID    *string          `json:"categoryId"    validate:"omitempty,uuid"`
	SubCategoryID *string          `json:"subCategoryId" validate:"omitempty,uuid"`
}

// UpdateProductRequest only touches the fields present in the body.
// An empty string for CategoryID/SubCategoryID detaches the product.
type UpdateProductRequest struct {
	Designation   *string          `json:"designation"   validate:"omitempty,min=2,max=200"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"         validate:"omitempty,gt=0"`
	OldPrice      *decimal.Decimal `json:"oldPrice"      validate:"omitempty,min=0"`
	InStock       *bool            `json:"inStock"`
	Images        []string         `json:"images"        validate:"omitempty,dive,max=500"`
	Variants      []string         `json:"variants"      validate:"omitempty,dive,max=100"`
	Features      []string         `json:"features"      validate:"omitempty,dive,oneof=meilleur-vente nouveau vente-flash promo"`
	CategoryID    *string          `json:"categoryId"    validate:"omitempty,uuid|eq="`
	SubCategoryID *string          `json:"subCategoryId" validate:"omitempty,uuid|eq="`
}

type ProductFilter struct {
	CategoryID    string `form:"category"    validate:"omitempty,uuid"`
	SubCategoryID string `form:"subCategory" validate:"omitempty,uuid"`
	Feature       string `form:"feature"     validate:"omitempty,oneof=meilleur-vente nouveau vente-flash promo"`
	Search        string `form:"search"`
	InStock       *bool  `form:"inStock"`
	Pagination
}

type ProductResponse struct {
	ID            string           `json:"id"`
	Designation   string           `json:"designation"`
	Slug          string           `json:"slug"`
	Description   *string          `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OldPrice      *decimal.Decimal `json:"oldPrice"`
	InStock       bool             `json:"inStock"`
	Images        []string         `json:"images"`
	Variants      []string         `json:"variants"`
	Features      []string         `json:"features"`
	CategoryID    *string          `json:"categoryId"`
	SubCategoryID *string          `json:"subCategoryId"`
	CreatedAt     string           `json:"createdAt"`
}

// ─── Pack ────────────────────────────────────────────────────────────────────

type CreatePackRequest struct {
	Designation string           `json:"designation" validate:"required,min=2,max=200"`
	Description *string          `json:"description"`
	Price       decimal.Decimal  `json:"price"       validate:"required,gt=0"`
	OldPrice    *decimal.Decimal `json:"oldPrice"    validate:"omitempty,min=0"`
	InStock     *bool            `json:"inStock"`
	Images      []string         `json:"images"      validate:"omitempty,dive,max=500"`
	Features    []string         `json:"features"    validate:"omitempty,dive,oneof=meilleur-vente nouveau vente-flash promo"`
	ProductIDs  []string         `json:"products"    validate:"omitempty,dive,uuid"`
}

type UpdatePackRequest struct {
	Designation *string          `json:"designation" validate:"omitempty,min=2,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"       validate:"omitempty,gt=0"`
	OldPrice    *decimal.Decimal `json:"oldPrice"    validate:"omitempty,min=0"`
	InStock     *bool            `json:"inStock"`
	Images      []string         `json:"images"      validate:"omitempty,dive,max=500"`
	Features    []string         `json:"features"    validate:"omitempty,dive,oneof=meilleur-vente nouveau vente-flash promo"`
	ProductIDs  []string         `json:"products"    validate:"omitempty,dive,uuid"`
}

type PackFilter struct {
	Feature string `form:"feature" validate:"omitempty,oneof=meilleur-vente nouveau vente-flash promo"`
	Search  string `form:"search"`
	Pagination
}

type PackResponse struct {
	ID          string            `json:"id"`
	Designation string            `json:"designation"`
	Slug        string            `json:"slug"`
	Description *string           `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	OldPrice    *decimal.Decimal  `json:"oldPrice"`
	InStock     bool              `json:"inStock"`
	Images      []string          `json:"images"`
	Features    []string          `json:"features"`
	Products    []ProductResponse `json:"products"`
	CreatedAt   string            `json:"createdAt"`
}

// ─── Category / SubCategory ──────────────────────────────────────────────────

type CategoryRequest struct {
	Designation string  `json:"designation" validate:"required,min=2,max=100"`
	Image       *string `json:"image"       validate:"omitempty,max=500"`
}

type UpdateCategoryRequest struct {
	Designation *string `json:"designation" validate:"omitempty,min=2,max=100"`
	Image       *string `json:"image"       validate:"omitempty,max=500"`
}

type SubCategoryRequest struct {
	CategoryID  string  `json:"categoryId"  validate:"required,uuid"`
	Designation string  `json:"designation" validate:"required,min=2,max=100"`
	Image       *string `json:"image"       validate:"omitempty,max=500"`
}

type UpdateSubCategoryRequest struct {
	Designation *string `json:"designation" validate:"omitempty,min=2,max=100"`
	Image       *string `json:"image"       validate:"omitempty,max=500"`
}

type SubCategoryResponse struct {
	ID          string   `json:"id"`
	CategoryID  string   `json:"categoryId"`
	Designation string   `json:"designation"`
	Slug        string   `json:"slug"`
	Image       *string  `json:"image"`
	Products    []string `json:"products"`
}

type CategoryResponse struct {
	ID            string                `json:"id"`
	Designation   string                `json:"designation"`
	Slug          string                `json:"slug"`
	Image         *string               `json:"image"`
	SubCategories []SubCategoryResponse `json:"subCategories"`
	Products      []string              `json:"products"`
}

// CategoryConsistencyResponse lists member ids whose own category differs.
type CategoryConsistencyResponse struct {
	CategoryID string   `json:"categoryId"`
	Consistent bool     `json:"consistent"`
	Mismatched []string `json:"mismatched"`
}
