package model

import (
	"time"

	"github.com/google/uuid"
)

// Client is a storefront customer. A nil PasswordHash marks a guest created
// at checkout or by the back-office.
type Client struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName    string    `gorm:"not null"`
	LastName     string    `gorm:"not null"`
	Email        *string   `gorm:"index"`
	Phone1       string    `gorm:"index;not null"`
	Phone2       *string
	Address      *string
	City         *string
	PasswordHash *string
	Active       bool `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Cart     []CartItem `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
	Wishlist []Product  `gorm:"many2many:client_wishlist;joinForeignKey:ClientID;joinReferences:ProductID"`
	// Orders is the ordersId back-reference list, written together with the Vente.
	Orders []Vente `gorm:"many2many:client_orders;joinForeignKey:ClientID;joinReferences:VenteID"`
}

// IsGuest reports whether the client has no storefront password.
func (c *Client) IsGuest() bool { return c.PasswordHash == nil }

// CartItem is one line of a client's cart.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_line;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_line;not null"`
	Variant   string    `gorm:"uniqueIndex:idx_cart_line;not null;default:''"`
	Quantity  int       `gorm:"not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (CartItem) TableName() string { return "client_cart_items" }
