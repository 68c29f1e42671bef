package model

import (
	"time"

	"github.com/google/uuid"
)

type Blog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"not null"`
	Slug      string    `gorm:"uniqueIndex;not null"`
	Content   string    `gorm:"type:text;not null"`
	Image     *string
	Published bool `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Page struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"not null"`
	Slug      string    `gorm:"uniqueIndex;not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is a storefront contact-form submission.
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	Email     string    `gorm:"not null"`
	Phone     *string
	Subject   string `gorm:"not null"`
	Content   string `gorm:"type:text;not null"`
	Read      bool   `gorm:"not null"`
	CreatedAt time.Time
}
