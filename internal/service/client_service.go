package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"boutique/internal/dto"
	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type ClientService interface {
	// back-office
	Create(ctx context.Context, req dto.ClientInput) (*dto.ClientResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateClientRequest) (*dto.ClientResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ClientResponse, error)
	List(ctx context.Context, filter dto.ClientFilter) (*dto.PageResponse[dto.ClientResponse], error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)

	// storefront
	Register(ctx context.Context, req dto.RegisterClientRequest) (*dto.ClientLoginResponse, error)
	Login(ctx context.Context, req dto.ClientLoginRequest) (*dto.ClientLoginResponse, error)
	SetCartItem(ctx context.Context, clientID uuid.UUID, req dto.CartItemRequest) (*dto.ClientResponse, error)
	RemoveCartItem(ctx context.Context, clientID, productID uuid.UUID) (*dto.ClientResponse, error)
	ToggleWishlist(ctx context.Context, clientID, productID uuid.UUID) (*dto.WishlistResponse, error)
}

type clientService struct {
	clients  repository.ClientRepository
	products repository.ProductRepository
	secret   string
	tokenTTL time.Duration
}

func NewClientService(clients repository.ClientRepository, products repository.ProductRepository, secret string, tokenTTL time.Duration) ClientService {
	return &clientService{clients: clients, products: products, secret: secret, tokenTTL: tokenTTL}
}

func (s *clientService) Create(ctx context.Context, req dto.ClientInput) (*dto.ClientResponse, error) {
	c := clientFromInput(req)
	if err := s.clients.Create(ctx, nil, c); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, c, false)
}

func (s *clientService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "client %s introuvable", id)
	}
	if req.Email != nil && !c.IsGuest() && !strings.EqualFold(derefString(c.Email), *req.Email) {
		taken, err := s.clients.EmailRegistered(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("l'email %s est déjà utilisé: %w", *req.Email, ErrConflict)
		}
	}
	if req.FirstName != nil {
		c.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		c.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Phone1 != nil {
		c.Phone1 = strings.TrimSpace(*req.Phone1)
	}
	if req.Phone2 != nil {
		c.Phone2 = req.Phone2
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	if req.City != nil {
		c.City = req.City
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
	if err := s.clients.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, c, true)
}

func (s *clientService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ClientResponse, error) {
	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "client %s introuvable", id)
	}
	return s.toResponse(ctx, c, true)
}

func (s *clientService) List(ctx context.Context, filter dto.ClientFilter) (*dto.PageResponse[dto.ClientResponse], error) {
	clients, total, err := s.clients.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		resp, err := s.toResponse(ctx, &clients[i], false)
		if err != nil {
			return nil, err
		}
		data = append(data, *resp)
	}
	return &dto.PageResponse[dto.ClientResponse]{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *clientService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.DeleteMany(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("client %s introuvable: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteMany removes the clients with their cart and wishlist. Their orders
// stay, keeping the client snapshot they were placed with.
func (s *clientService) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, invalid("aucun client à supprimer")
	}
	var deleted int64
	err := runTx(ctx, s.clients.DB(), func(tx *gorm.DB) error {
		n, err := s.clients.Delete(ctx, tx, ids)
		deleted = n
		return err
	})
	return deleted, err
}

// ── Storefront account ────────────────────────────────────────────────────────

// Register creates a storefront account. A guest created earlier at checkout
// with the same email and phone is upgraded in place, keeping its orders.
func (s *clientService) Register(ctx context.Context, req dto.RegisterClientRequest) (*dto.ClientLoginResponse, error) {
	if req.Email == nil || *req.Email == "" {
		return nil, invalid("l'email est requis pour créer un compte")
	}
	taken, err := s.clients.EmailRegistered(ctx, *req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("l'email %s est déjà utilisé: %w", *req.Email, ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	h := string(hash)

	c := clientFromInput(req.ClientInput)
	c.PasswordHash = &h

	guest, err := s.clients.FindByEmailPhone(ctx, req.Email, c.Phone1)
	switch {
	case err == nil && guest.IsGuest():
		c.ID, c.CreatedAt = guest.ID, guest.CreatedAt
		err = s.clients.Update(ctx, c)
	case err == nil || errors.Is(err, gorm.ErrRecordNotFound):
		err = s.clients.Create(ctx, nil, c)
	}
	if err != nil {
		return nil, err
	}
	return s.loginResponse(ctx, c)
}

func (s *clientService) Login(ctx context.Context, req dto.ClientLoginRequest) (*dto.ClientLoginResponse, error) {
	c, err := s.clients.FindRegisteredByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil || !c.Active {
		return nil, fmt.Errorf("identifiants invalides: %w", ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*c.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("identifiants invalides: %w", ErrUnauthorized)
	}
	return s.loginResponse(ctx, c)
}

// SetCartItem sets the quantity of one product/variant line.
func (s *clientService) SetCartItem(ctx context.Context, clientID uuid.UUID, req dto.CartItemRequest) (*dto.ClientResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, invalid("produit invalide")
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, "produit %s introuvable", productID)
	}
	if req.Variant != "" && !containsString(p.Variants, req.Variant) {
		return nil, invalid("variante %q indisponible pour %s", req.Variant, p.Designation)
	}
	item := &model.CartItem{ClientID: clientID, ProductID: productID, Quantity: req.Quantity, Variant: req.Variant}
	if err := s.clients.UpsertCartItem(ctx, item); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, clientID)
}

func (s *clientService) RemoveCartItem(ctx context.Context, clientID, productID uuid.UUID) (*dto.ClientResponse, error) {
	n, err := s.clients.RemoveCartItem(ctx, clientID, productID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("produit %s absent du panier: %w", productID, ErrNotFound)
	}
	return s.GetByID(ctx, clientID)
}

// ToggleWishlist adds the product when absent and removes it otherwise.
func (s *clientService) ToggleWishlist(ctx context.Context, clientID, productID uuid.UUID) (*dto.WishlistResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, notFound(err, "produit %s introuvable", productID)
	}
	in, err := s.clients.InWishlist(ctx, clientID, productID)
	if err != nil {
		return nil, err
	}
	if in {
		err = s.clients.RemoveWishlist(ctx, clientID, productID)
	} else {
		err = s.clients.AddWishlist(ctx, clientID, productID)
	}
	if err != nil {
		return nil, err
	}
	ids, err := s.clients.WishlistIDs(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &dto.WishlistResponse{InWishlist: !in, Wishlist: idStrings(ids)}, nil
}

func (s *clientService) loginResponse(ctx context.Context, c *model.Client) (*dto.ClientLoginResponse, error) {
	token, err := signToken(s.secret, jwt.MapClaims{
		"client_id": c.ID.String(),
		"kind":      TokenClient,
	}, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	resp, err := s.toResponse(ctx, c, true)
	if err != nil {
		return nil, err
	}
	return &dto.ClientLoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
		Client:      *resp,
	}, nil
}

// toResponse maps a client with its order ids. full adds wishlist and cart.
func (s *clientService) toResponse(ctx context.Context, c *model.Client, full bool) (*dto.ClientResponse, error) {
	orders, err := s.clients.OrderIDs(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	resp := &dto.ClientResponse{
		ID:        c.ID.String(),
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone1:    c.Phone1,
		Phone2:    c.Phone2,
		Address:   c.Address,
		City:      c.City,
		Guest:     c.IsGuest(),
		Active:    c.Active,
		OrdersID:  idStrings(orders),
		Wishlist:  []string{},
		Cart:      []dto.CartItemResponse{},
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
	if !full {
		return resp, nil
	}

	wishlist, err := s.clients.WishlistIDs(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	resp.Wishlist = idStrings(wishlist)

	cart, err := s.clients.Cart(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	for _, it := range cart {
		line := dto.CartItemResponse{ProductID: it.ProductID.String(), Quantity: it.Quantity, Variant: it.Variant}
		if it.Product != nil {
			p := productToResponse(it.Product)
			line.Product = &p
		}
		resp.Cart = append(resp.Cart, line)
	}
	return resp, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
