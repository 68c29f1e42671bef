package service

import (
	"context"
	"testing"
	"time"

	"boutique/internal/dto"
	"boutique/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClientService(f *venteFixture) ClientService {
	return NewClientService(f.clients, f.products, testSecret, 24*time.Hour)
}

func registerRequest(email, phone, password string) dto.RegisterClientRequest {
	return dto.RegisterClientRequest{ClientInput: *newClientInput(email, phone), Password: password}
}

// ── Register / Login ──────────────────────────────────────────────────────────

func TestRegister_IssuesClientToken(t *testing.T) {
	f := newVenteFixture(t)
	svc := newClientService(f)

	resp, err := svc.Register(context.Background(), registerRequest("amira@example.tn", "22111222", "motdepasse1"))
	require.NoError(t, err)

	assert.False(t, resp.Client.Guest)
	assert.True(t, resp.Client.Active)
	assert.Equal(t, 24*3600, resp.ExpiresIn)
	claims := claimsOf(t, resp.AccessToken)
	assert.Equal(t, TokenClient, claims["kind"])
	assert.Equal(t, resp.Client.ID, claims["client_id"])
}

func TestRegister_UpgradesGuestKeepingOrders(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	svc := newClientService(f)
	order, err := f.svc.CreateCommandeVente(ctx, dto.CreateCommandeRequest{
		Items:  []dto.CommandeItemRequest{{Type: model.ItemProduct, Slug: "sac-cuir", Quantity: 1}},
		Client: *newClientInput("amira@example.tn", "22111222"),
	})
	require.NoError(t, err)

	resp, err := svc.Register(ctx, registerRequest("amira@example.tn", "22111222", "motdepasse1"))
	require.NoError(t, err)

	assert.False(t, resp.Client.Guest)
	assert.Equal(t, []string{order.ID}, resp.Client.OrdersID)
	n, err := f.clients.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRegister_Rejects(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	svc := newClientService(f)
	_, err := svc.Register(ctx, registerRequest("amira@example.tn", "22111222", "motdepasse1"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest("Amira@Example.tn", "99000111", "autremotdepasse"))
	assert.ErrorIs(t, err, ErrConflict)

	noEmail := dto.RegisterClientRequest{
		ClientInput: dto.ClientInput{FirstName: "Sami", LastName: "Trabelsi", Phone1: "55000111"},
		Password:    "motdepasse1",
	}
	_, err = svc.Register(ctx, noEmail)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestClientLogin(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	svc := newClientService(f)
	reg, err := svc.Register(ctx, registerRequest("amira@example.tn", "22111222", "motdepasse1"))
	require.NoError(t, err)

	resp, err := svc.Login(ctx, dto.ClientLoginRequest{Email: "amira@example.tn", Password: "motdepasse1"})
	require.NoError(t, err)
	assert.Equal(t, reg.Client.ID, resp.Client.ID)

	_, err = svc.Login(ctx, dto.ClientLoginRequest{Email: "amira@example.tn", Password: "mauvais"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	inactive := false
	_, err = svc.Update(ctx, uuid.MustParse(reg.Client.ID), dto.UpdateClientRequest{Active: &inactive})
	require.NoError(t, err)
	_, err = svc.Login(ctx, dto.ClientLoginRequest{Email: "amira@example.tn", Password: "motdepasse1"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGuestCannotLogin(t *testing.T) {
	f := newVenteFixture(t)
	f.client(t, "amira@example.tn", "22111222")
	svc := newClientService(f)

	_, err := svc.Login(context.Background(), dto.ClientLoginRequest{Email: "amira@example.tn", Password: "motdepasse1"})

	assert.ErrorIs(t, err, ErrUnauthorized)
}

// ── Back-office ───────────────────────────────────────────────────────────────

func TestClientUpdate_EmailConflictForRegisteredClient(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	svc := newClientService(f)
	_, err := svc.Register(ctx, registerRequest("amira@example.tn", "22111222", "motdepasse1"))
	require.NoError(t, err)
	other, err := svc.Register(ctx, registerRequest("sami@example.tn", "55000111", "motdepasse2"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, uuid.MustParse(other.Client.ID), dto.UpdateClientRequest{Email: strPtr("amira@example.tn")})
	assert.ErrorIs(t, err, ErrConflict)

	city := "Sousse"
	got, err := svc.Update(ctx, uuid.MustParse(other.Client.ID), dto.UpdateClientRequest{City: &city})
	require.NoError(t, err)
	require.NotNil(t, got.City)
	assert.Equal(t, "Sousse", *got.City)
	assert.Equal(t, "sami@example.tn", *got.Email)
}

func TestClientList_GuestFilter(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	svc := newClientService(f)
	f.client(t, "guest@example.tn", "22000000")
	_, err := svc.Register(ctx, registerRequest("amira@example.tn", "22111222", "motdepasse1"))
	require.NoError(t, err)

	guest := true
	page, err := svc.List(ctx, dto.ClientFilter{Guest: &guest, Pagination: dto.Pagination{Page: 1, Limit: 20}})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "guest@example.tn", *page.Data[0].Email)

	page, err = svc.List(ctx, dto.ClientFilter{Search: "amira@", Pagination: dto.Pagination{Page: 1, Limit: 20}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

// ── Cart & wishlist ───────────────────────────────────────────────────────────

func TestCart_UpsertAndRemove(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	svc := newClientService(f)
	c := f.client(t, "amira@example.tn", "22111222")

	_, err := svc.SetCartItem(ctx, c.ID, dto.CartItemRequest{ProductID: f.sac.ID.String(), Quantity: 1})
	require.NoError(t, err)
	resp, err := svc.SetCartItem(ctx, c.ID, dto.CartItemRequest{ProductID: f.sac.ID.String(), Quantity: 3})
	require.NoError(t, err)

	require.Len(t, resp.Cart, 1)
	assert.Equal(t, 3, resp.Cart[0].Quantity)
	require.NotNil(t, resp.Cart[0].Product)
	assert.Equal(t, "Sac cuir", resp.Cart[0].Product.Designation)

	resp, err = svc.RemoveCartItem(ctx, c.ID, f.sac.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Cart)

	_, err = svc.RemoveCartItem(ctx, c.ID, f.sac.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCart_RejectsUnknownProductAndVariant(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	svc := newClientService(f)
	c := f.client(t, "amira@example.tn", "22111222")

	_, err := svc.SetCartItem(ctx, c.ID, dto.CartItemRequest{ProductID: uuid.NewString(), Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.SetCartItem(ctx, c.ID, dto.CartItemRequest{ProductID: f.sac.ID.String(), Quantity: 1, Variant: "XXL"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestWishlist_Toggle(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	svc := newClientService(f)
	c := f.client(t, "amira@example.tn", "22111222")

	on, err := svc.ToggleWishlist(ctx, c.ID, f.robe.ID)
	require.NoError(t, err)
	assert.True(t, on.InWishlist)
	assert.Equal(t, []string{f.robe.ID.String()}, on.Wishlist)

	off, err := svc.ToggleWishlist(ctx, c.ID, f.robe.ID)
	require.NoError(t, err)
	assert.False(t, off.InWishlist)
	assert.Empty(t, off.Wishlist)

	_, err = svc.ToggleWishlist(ctx, c.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientDelete_ClearsCartAndWishlist(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	svc := newClientService(f)
	c := f.client(t, "amira@example.tn", "22111222")
	_, err := svc.SetCartItem(ctx, c.ID, dto.CartItemRequest{ProductID: f.sac.ID.String(), Quantity: 1})
	require.NoError(t, err)
	_, err = svc.ToggleWishlist(ctx, c.ID, f.robe.ID)
	require.NoError(t, err)

	n, err := svc.DeleteMany(ctx, []uuid.UUID{c.ID, uuid.New()})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	cart, err := f.clients.Cart(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, cart)
	wishlist, err := f.clients.WishlistIDs(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, wishlist)
	_, err = svc.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
