package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type UpdateClientRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName"  validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Phone1    *string `json:"phone1"    validate:"omitempty,min=6,max=20"`
	Phone2    *string `json:"phone2"    validate:"omitempty,max=20"`
	Address   *string `json:"address"   validate:"omitempty,max=255"`
	City      *string `json:"city"      validate:"omitempty,max=100"`
	Active    *bool   `json:"active"`
}

type RegisterClientRequest struct {
	ClientInput
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type ClientLoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CartItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity"  validate:"required,min=1,max=999"`
	Variant   string `json:"variant"   validate:"max=100"`
}

type ClientFilter struct {
	Search string `form:"search"`
	Guest  *bool  `form:"guest"`
	Pagination
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CartItemResponse struct {
	ProductID string           `json:"productId"`
	Quantity  int              `json:"quantity"`
	Variant   string           `json:"variant"`
	Product   *ProductResponse `json:"product,omitempty"`
}

type ClientResponse struct {
	ID        string             `json:"id"`
	FirstName string             `json:"firstName"`
	LastName  string             `json:"lastName"`
	Email     *string            `json:"email"`
	Phone1    string             `json:"phone1"`
	Phone2    *string            `json:"phone2"`
	Address   *string            `json:"address"`
	City      *string            `json:"city"`
	Guest     bool               `json:"guest"`
	Active    bool               `json:"active"`
	OrdersID  []string           `json:"ordersId"`
	Wishlist  []string           `json:"wishlist"`
	Cart      []CartItemResponse `json:"cart"`
	CreatedAt string             `json:"createdAt"`
}

type ClientLoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int            `json:"expires_in"` // seconds
	Client      ClientResponse `json:"client"`
}

// WishlistResponse reports the wishlist after a toggle.
type WishlistResponse struct {
	InWishlist bool     `json:"inWishlist"`
	Wishlist   []string `json:"wishlist"`
}
