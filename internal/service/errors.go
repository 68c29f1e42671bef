package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds mapped to HTTP statuses by the handler layer. Services wrap them
// with a user-facing message: fmt.Errorf("produit %s introuvable: %w", id, ErrNotFound).
var (
	ErrNotFound     = errors.New("ressource introuvable")
	ErrValidation   = errors.New("requête invalide")
	ErrConflict     = errors.New("conflit")
	ErrUnauthorized = errors.New("non autorisé")
)

// notFound converts gorm.ErrRecordNotFound into ErrNotFound with a message
// naming the missing entity. Other errors pass through unchanged.
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	}
	return err
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}
