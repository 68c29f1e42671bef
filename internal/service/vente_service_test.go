package service

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"boutique/internal/dto"
	"boutique/internal/model"
	"boutique/internal/repository"
	"boutique/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type queuedMessage struct {
	venteID *uuid.UUID
	to      string
	text    string
	invoice bool
}

type recordingNotifier struct {
	mu     sync.Mutex
	sms    []queuedMessage
	emails []queuedMessage
}

func (n *recordingNotifier) QueueSMS(_ context.Context, venteID *uuid.UUID, phone, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sms = append(n.sms, queuedMessage{venteID: venteID, to: phone, text: text})
	return nil
}

func (n *recordingNotifier) QueueEmail(_ context.Context, venteID *uuid.UUID, to, _, body string, attachInvoice bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, queuedMessage{venteID: venteID, to: to, text: body, invoice: attachInvoice})
	return nil
}

type recordingEvents struct {
	mu     sync.Mutex
	events []string
}

func (e *recordingEvents) Publish(event string, _ interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

// ── Fixture ───────────────────────────────────────────────────────────────────

type venteFixture struct {
	svc      VenteService
	ventes   repository.VenteRepository
	clients  repository.ClientRepository
	products repository.ProductRepository
	packs    repository.PackRepository
	promos   repository.PromoCodeRepository
	settings SettingsSource
	notifier *recordingNotifier
	events   *recordingEvents

	robe *model.Product // 100, was 120
	sac  *model.Product // 45.5
	pack *model.Pack    // 150, was 180
}

// newVenteFixture seeds settings tva 0.19, timber 1, livraison 7 and a small catalog.
func newVenteFixture(t *testing.T) *venteFixture {
	t.Helper()
	ctx := context.Background()
	db := testutil.NewDB(t)

	f := &venteFixture{
		ventes:   repository.NewVenteRepository(db),
		clients:  repository.NewClientRepository(db),
		products: repository.NewProductRepository(db),
		packs:    repository.NewPackRepository(db),
		promos:   repository.NewPromoCodeRepository(db),
		notifier: &recordingNotifier{},
		events:   &recordingEvents{},
	}
	settings := NewInformationService(repository.NewInformationRepository(db), nil)
	_, err := settings.Update(ctx, dto.UpdateInformationRequest{
		Tva: decPtr("0.19"), Timber: decPtr("1"), Livraison: decPtr("7"),
	})
	require.NoError(t, err)
	f.settings = settings

	f.robe = &model.Product{Designation: "Robe d'été", Slug: "robe-dete", Price: dec("100"), OldPrice: decPtr("120"), InStock: true}
	f.sac = &model.Product{Designation: "Sac cuir", Slug: "sac-cuir", Price: dec("45.5"), InStock: true}
	require.NoError(t, f.products.Create(ctx, nil, f.robe))
	require.NoError(t, f.products.Create(ctx, nil, f.sac))
	f.pack = &model.Pack{Designation: "Pack été", Slug: "pack-ete", Price: dec("150"), OldPrice: decPtr("180"), InStock: true}
	require.NoError(t, f.packs.Create(ctx, nil, f.pack))

	f.svc = NewVenteService(VenteDeps{
		Ventes:     f.ventes,
		Clients:    f.clients,
		Products:   f.products,
		Packs:      f.packs,
		PromoCodes: f.promos,
		Settings:   settings,
		Notifier:   f.notifier,
		Events:     f.events,
	})
	return f
}

func (f *venteFixture) promo(t *testing.T, code, discount string, active bool, end time.Time) *model.PromoCode {
	t.Helper()
	p := &model.PromoCode{Code: code, Discount: dec(discount), StartDate: time.Now().AddDate(0, -1, 0), EndDate: end, IsActive: active}
	require.NoError(t, f.promos.Create(context.Background(), p))
	return p
}

func (f *venteFixture) client(t *testing.T, email, phone string) *model.Client {
	t.Helper()
	c := &model.Client{FirstName: "Amira", LastName: "Ben Salah", Email: &email, Phone1: phone, Active: true}
	require.NoError(t, f.clients.Create(context.Background(), nil, c))
	return c
}

func newClientInput(email, phone string) *dto.ClientInput {
	return &dto.ClientInput{FirstName: "Amira", LastName: "Ben Salah", Email: &email, Phone1: phone}
}

func strPtr(s string) *string { return &s }

func (f *venteFixture) robeLine(qty int) dto.VenteItemRequest {
	return dto.VenteItemRequest{Type: model.ItemProduct, ItemID: f.robe.ID.String(), Quantity: qty}
}

// ── CreateVente ───────────────────────────────────────────────────────────────

func TestCreateVente_NewClient_ComputesAndPersists(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()

	res, err := f.svc.CreateVente(ctx, dto.CreateVenteRequest{
		Items:       []dto.VenteItemRequest{f.robeLine(2)},
		IsNewClient: true,
		Client:      newClientInput("amira@example.tn", "22111222"),
	})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Len(t, res.Reference, ReferenceLength)

	got, err := f.svc.GetVente(ctx, uuid.MustParse(res.ID))
	require.NoError(t, err)
	assert.Equal(t, res.Reference, got.Reference)
	assert.Equal(t, "200.000", got.TotalHT)
	assert.Equal(t, "38.000", got.Tva)
	assert.Equal(t, "40.000", got.ProductsDiscount)
	assert.Equal(t, "239.000", got.TotalTTC)
	assert.Equal(t, "239.000", got.NetAPayer)
	assert.Equal(t, "0.000", got.Livraison)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, defaultModePayment, got.ModePayment)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Robe d'été", got.Items[0].Designation)
	assert.Equal(t, "Amira", got.Client.FirstName)

	owners, err := f.clients.OrderOwners(ctx, uuid.MustParse(res.ID))
	require.NoError(t, err)
	require.Len(t, owners, 1)
	assert.Equal(t, got.Client.ClientID, owners[0].String())
}

func TestCreateVente_WithPromo(t *testing.T) {
	f := newVenteFixture(t)
	f.promo(t, "ETE10", "0.1", true, time.Now().AddDate(0, 1, 0))
	ctx := context.Background()

	res, err := f.svc.CreateVente(ctx, dto.CreateVenteRequest{
		Items:       []dto.VenteItemRequest{f.robeLine(2)},
		IsNewClient: true,
		Client:      newClientInput("amira@example.tn", "22111222"),
		PromoCode:   strPtr("ete10"),
	})
	require.NoError(t, err)

	got, err := f.svc.GetVente(ctx, uuid.MustParse(res.ID))
	require.NoError(t, err)
	assert.Equal(t, "23.900", got.Discount)
	assert.Equal(t, "215.100", got.NetAPayer)
	require.NotNil(t, got.PromoCode)
	assert.Equal(t, "ETE10", got.PromoCode.Code)
}

func TestCreateVente_ExpiredInactivePromoIsIgnored(t *testing.T) {
	f := newVenteFixture(t)
	f.promo(t, "OLD20", "0.2", false, time.Now().AddDate(0, 0, -1))

	res, err := f.svc.CreateVente(context.Background(), dto.CreateVenteRequest{
		Items:       []dto.VenteItemRequest{f.robeLine(1)},
		IsNewClient: true,
		Client:      newClientInput("amira@example.tn", "22111222"),
		PromoCode:   strPtr("OLD20"),
	})
	require.NoError(t, err)

	got, err := f.svc.GetVente(context.Background(), uuid.MustParse(res.ID))
	require.NoError(t, err)
	assert.Equal(t, "0.000", got.Discount)
	assert.Nil(t, got.PromoCode)
}

func TestCreateVente_UnknownPromoIsNotFound(t *testing.T) {
	f := newVenteFixture(t)

	_, err := f.svc.CreateVente(context.Background(), dto.CreateVenteRequest{
		Items:       []dto.VenteItemRequest{f.robeLine(1)},
		IsNewClient: true,
		Client:      newClientInput("amira@example.tn", "22111222"),
		PromoCode:   strPtr("NOPE"),
	})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateVente_ExistingClient(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	c := f.client(t, "sami@example.tn", "55000111")
	id := c.ID.String()

	res, err := f.svc.CreateVente(ctx, dto.CreateVenteRequest{
		Items: []dto.VenteItemRequest{
			{Type: model.ItemPack, ItemID: f.pack.ID.String(), Quantity: 1},
			{Type: model.ItemProduct, ItemID: f.sac.ID.String(), Quantity: 2},
		},
		ClientID: &id,
		Status:   model.StatusPaid,
	})
	require.NoError(t, err)

	got, err := f.svc.GetVente(ctx, uuid.MustParse(res.ID))
	require.NoError(t, err)
	assert.Equal(t, "241.000", got.TotalHT)
	assert.Equal(t, "30.000", got.ProductsDiscount)
	assert.Equal(t, model.StatusPaid, got.Status)
	require.Len(t, got.Items, 2)
	assert.Equal(t, model.ItemPack, got.Items[0].Type)

	orders, err := f.clients.OrderIDs(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{uuid.MustParse(res.ID)}, orders)

	n, err := f.clients.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCreateVente_ClientIDRequiredWhenNotNew(t *testing.T) {
	f := newVenteFixture(t)

	_, err := f.svc.CreateVente(context.Background(), dto.CreateVenteRequest{
		Items: []dto.VenteItemRequest{f.robeLine(1)},
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateVente_UnknownClientIsNotFound(t *testing.T) {
	f := newVenteFixture(t)
	id := uuid.NewString()

	_, err := f.svc.CreateVente(context.Background(), dto.CreateVenteRequest{
		Items:    []dto.VenteItemRequest{f.robeLine(1)},
		ClientID: &id,
	})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateVente_MissingProductWritesNothing(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateVente(ctx, dto.CreateVenteRequest{
		Items: []dto.VenteItemRequest{
			f.robeLine(1),
			{Type: model.ItemProduct, ItemID: uuid.NewString(), Quantity: 1},
		},
		IsNewClient: true,
		Client:      newClientInput("amira@example.tn", "22111222"),
	})
	require.ErrorIs(t, err, ErrNotFound)

	ventes, total, err := f.ventes.List(ctx, dto.VenteFilter{Pagination: dto.Pagination{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Empty(t, ventes)
	assert.Zero(t, total)

	n, err := f.clients.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "no orphan client")
	assert.Empty(t, f.notifier.sms)
	assert.Empty(t, f.events.events)
}

func TestCreateVente_SideEffects(t *testing.T) {
	f := newVenteFixture(t)

	res, err := f.svc.CreateVente(context.Background(), dto.CreateVenteRequest{
		Items:       []dto.VenteItemRequest{f.robeLine(1)},
		IsNewClient: true,
		Client:      newClientInput("amira@example.tn", "22111222"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{EventVenteCreated}, f.events.events)
	require.Len(t, f.notifier.sms, 1)
	assert.Equal(t, "22111222", f.notifier.sms[0].to)
	assert.Contains(t, f.notifier.sms[0].text, res.Reference)
	assert.Contains(t, f.notifier.sms[0].text, "120.000")
	require.Len(t, f.notifier.emails, 1)
	assert.Equal(t, "amira@example.tn", f.notifier.emails[0].to)
	assert.True(t, f.notifier.emails[0].invoice, "invoice attached by the worker")
	assert.Equal(t, res.ID, f.notifier.emails[0].venteID.String())
}

func TestCreateVente_NoEmailNoMail(t *testing.T) {
	f := newVenteFixture(t)

	_, err := f.svc.CreateVente(context.Background(), dto.CreateVenteRequest{
		Items:       []dto.VenteItemRequest{f.robeLine(1)},
		IsNewClient: true,
		Client:      &dto.ClientInput{FirstName: "Amira", LastName: "Ben Salah", Phone1: "22111222"},
	})
	require.NoError(t, err)

	assert.Len(t, f.notifier.sms, 1)
	assert.Empty(t, f.notifier.emails)
}

func TestCreateVente_ReferencesAreUnique(t *testing.T) {
	f := newVenteFixture(t)
	c := f.client(t, "sami@example.tn", "55000111")
	id := c.ID.String()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		res, err := f.svc.CreateVente(context.Background(), dto.CreateVenteRequest{
			Items:    []dto.VenteItemRequest{f.robeLine(1)},
			ClientID: &id,
		})
		require.NoError(t, err)
		assert.False(t, seen[res.Reference], "duplicate reference %s", res.Reference)
		seen[res.Reference] = true
	}
}

// ── CreateCommandeVente ───────────────────────────────────────────────────────

func TestCreateCommande_GuestCheckoutUsesSettingsLivraison(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()

	res, err := f.svc.CreateCommandeVente(ctx, dto.CreateCommandeRequest{
		Items:  []dto.CommandeItemRequest{{Type: model.ItemProduct, Slug: "robe-dete", Quantity: 2}},
		Client: *newClientInput("amira@example.tn", "22111222"),
	})
	require.NoError(t, err)
	assert.Len(t, res.Reference, 5)
	assert.Equal(t, "246.000", res.TotalTTC)
	assert.Equal(t, "246.000", res.NetAPayer)

	got, err := f.svc.GetVente(ctx, uuid.MustParse(res.ID))
	require.NoError(t, err)
	assert.Equal(t, "7.000", got.Livraison)
	assert.Equal(t, "246.000", got.TotalTTC)
	assert.Equal(t, model.StatusPending, got.Status)

	c, err := f.clients.FindByEmailPhone(ctx, strPtr("amira@example.tn"), "22111222")
	require.NoError(t, err)
	assert.True(t, c.IsGuest())
}

func TestCreateCommande_ReusesClientMatchedOnEmailAndPhone(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	existing := f.client(t, "amira@example.tn", "22111222")

	for i := 0; i < 2; i++ {
		_, err := f.svc.CreateCommandeVente(ctx, dto.CreateCommandeRequest{
			Items:  []dto.CommandeItemRequest{{Type: model.ItemPack, Slug: "pack-ete", Quantity: 1}},
			Client: *newClientInput("AMIRA@example.tn", "22111222"),
		})
		require.NoError(t, err)
	}

	n, err := f.clients.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	orders, err := f.clients.OrderIDs(ctx, existing.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestCreateCommande_DifferentPhoneCreatesNewClient(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	f.client(t, "amira@example.tn", "22111222")

	_, err := f.svc.CreateCommandeVente(ctx, dto.CreateCommandeRequest{
		Items:  []dto.CommandeItemRequest{{Type: model.ItemProduct, Slug: "sac-cuir", Quantity: 1}},
		Client: *newClientInput("amira@example.tn", "99888777"),
	})
	require.NoError(t, err)

	n, err := f.clients.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestCreateCommande_UnknownSlugIsNotFound(t *testing.T) {
	f := newVenteFixture(t)

	_, err := f.svc.CreateCommandeVente(context.Background(), dto.CreateCommandeRequest{
		Items:  []dto.CommandeItemRequest{{Type: model.ItemProduct, Slug: "inexistant", Quantity: 1}},
		Client: *newClientInput("amira@example.tn", "22111222"),
	})

	assert.ErrorIs(t, err, ErrNotFound)
	n, _ := f.clients.Count(context.Background())
	assert.Zero(t, n)
}

// ── UpdateVente ───────────────────────────────────────────────────────────────

func TestUpdateVente_RecomputesAndKeepsAbsentScalars(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	created, err := f.svc.CreateVente(ctx, dto.CreateVenteRequest{
		Items:       []dto.VenteItemRequest{f.robeLine(1)},
		IsNewClient: true,
		Client:      newClientInput("amira@example.tn", "22111222"),
		Livraison:   decPtr("8"),
		ModePayment: "carte",
		Note:        strPtr("sonner deux fois"),
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	got, err := f.svc.UpdateVente(ctx, id, dto.UpdateVenteRequest{
		CreateVenteRequest: dto.CreateVenteRequest{
			Items: []dto.VenteItemRequest{{Type: model.ItemProduct, ItemID: f.sac.ID.String(), Quantity: 2}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, created.Reference, got.Reference)
	assert.Equal(t, "91.000", got.TotalHT)
	assert.Equal(t, "8.000", got.Livraison)
	assert.Equal(t, "carte", got.ModePayment)
	require.NotNil(t, got.Note)
	assert.Equal(t, "sonner deux fois", *got.Note)
	require.Len(t, got.Items, 1)
	assert.Equal(t, f.sac.ID.String(), got.Items[0].ItemID)
}

func TestUpdateVente_MovesOrderBetweenClients(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	first := f.client(t, "amira@example.tn", "22111222")
	second := f.client(t, "sami@example.tn", "55000111")
	firstID, secondID := first.ID.String(), second.ID.String()

	created, err := f.svc.CreateVente(ctx, dto.CreateVenteRequest{
		Items:    []dto.VenteItemRequest{f.robeLine(1)},
		ClientID: &firstID,
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	got, err := f.svc.UpdateVente(ctx, id, dto.UpdateVenteRequest{
		CreateVenteRequest: dto.CreateVenteRequest{
			Items:    []dto.VenteItemRequest{f.robeLine(1)},
			ClientID: &secondID,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, secondID, got.Client.ClientID)

	firstOrders, err := f.clients.OrderIDs(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, firstOrders)
	secondOrders, err := f.clients.OrderIDs(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, secondOrders)
}

func TestUpdateVente_BackDatesCreatedAt(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	created, err := f.svc.CreateVente(ctx, dto.CreateVenteRequest{
		Items:       []dto.VenteItemRequest{f.robeLine(1)},
		IsNewClient: true,
		Client:      newClientInput("amira@example.tn", "22111222"),
	})
	require.NoError(t, err)
	at := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	got, err := f.svc.UpdateVente(ctx, uuid.MustParse(created.ID), dto.UpdateVenteRequest{
		CreateVenteRequest: dto.CreateVenteRequest{Items: []dto.VenteItemRequest{f.robeLine(1)}},
		CreatedAt:          &at,
	})
	require.NoError(t, err)

	parsed, err := time.Parse(time.RFC3339, got.CreatedAt)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(at), "createdAt = %s", got.CreatedAt)
}

func TestUpdateVente_NotFound(t *testing.T) {
	f := newVenteFixture(t)

	_, err := f.svc.UpdateVente(context.Background(), uuid.New(), dto.UpdateVenteRequest{
		CreateVenteRequest: dto.CreateVenteRequest{Items: []dto.VenteItemRequest{f.robeLine(1)}},
	})

	assert.ErrorIs(t, err, ErrNotFound)
}

// ── Status ────────────────────────────────────────────────────────────────────

func TestUpdateVenteStatus_QueuesSMS(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	created, err := f.svc.CreateVente(ctx, dto.CreateVenteRequest{
		Items:       []dto.VenteItemRequest{f.robeLine(1)},
		IsNewClient: true,
		Client:      newClientInput("amira@example.tn", "22111222"),
	})
	require.NoError(t, err)

	got, err := f.svc.UpdateVenteStatus(ctx, uuid.MustParse(created.ID), model.StatusDelivered)
	require.NoError(t, err)

	assert.Equal(t, model.StatusDelivered, got.Status)
	require.Len(t, f.notifier.sms, 2)
	assert.Contains(t, f.notifier.sms[1].text, created.Reference)
}

func TestUpdateVenteStatus_NotFound(t *testing.T) {
	f := newVenteFixture(t)

	_, err := f.svc.UpdateVenteStatus(context.Background(), uuid.New(), model.StatusPaid)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.notifier.sms)
}

// ── Deletes ───────────────────────────────────────────────────────────────────

func TestDeleteVente_DetachesFromClient(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	c := f.client(t, "amira@example.tn", "22111222")
	id := c.ID.String()
	kept, err := f.svc.CreateVente(ctx, dto.CreateVenteRequest{Items: []dto.VenteItemRequest{f.robeLine(1)}, ClientID: &id})
	require.NoError(t, err)
	gone, err := f.svc.CreateVente(ctx, dto.CreateVenteRequest{Items: []dto.VenteItemRequest{f.robeLine(1)}, ClientID: &id})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteVente(ctx, uuid.MustParse(gone.ID)))

	orders, err := f.clients.OrderIDs(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{uuid.MustParse(kept.ID)}, orders)
	_, err = f.svc.GetVente(ctx, uuid.MustParse(gone.ID))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteVente_NotFound(t *testing.T) {
	f := newVenteFixture(t)

	err := f.svc.DeleteVente(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteManyVentes_EmptyIsInvalid(t *testing.T) {
	f := newVenteFixture(t)

	_, err := f.svc.DeleteManyVentes(context.Background(), nil)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteClient_KeepsOrders(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	c := f.client(t, "amira@example.tn", "22111222")
	id := c.ID.String()
	created, err := f.svc.CreateVente(ctx, dto.CreateVenteRequest{Items: []dto.VenteItemRequest{f.robeLine(1)}, ClientID: &id})
	require.NoError(t, err)

	clients := NewClientService(f.clients, f.products, "secret", time.Hour)
	require.NoError(t, clients.Delete(ctx, c.ID))

	got, err := f.svc.GetVente(ctx, uuid.MustParse(created.ID))
	require.NoError(t, err)
	assert.Equal(t, "Amira", got.Client.FirstName)
	owners, err := f.clients.OrderOwners(ctx, uuid.MustParse(created.ID))
	require.NoError(t, err)
	assert.Empty(t, owners)
}

// ── Reads & documents ─────────────────────────────────────────────────────────

func TestListVentes_FiltersByStatusAndClient(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	c := f.client(t, "amira@example.tn", "22111222")
	id := c.ID.String()
	for _, status := range []string{model.StatusPending, model.StatusPaid, model.StatusPaid} {
		_, err := f.svc.CreateVente(ctx, dto.CreateVenteRequest{Items: []dto.VenteItemRequest{f.robeLine(1)}, ClientID: &id, Status: status})
		require.NoError(t, err)
	}
	_, err := f.svc.CreateVente(ctx, dto.CreateVenteRequest{
		Items:       []dto.VenteItemRequest{f.robeLine(1)},
		IsNewClient: true,
		Client:      newClientInput("sami@example.tn", "55000111"),
		Status:      model.StatusPaid,
	})
	require.NoError(t, err)

	page, err := f.svc.ListVentes(ctx, dto.VenteFilter{
		Status:     model.StatusPaid,
		ClientID:   id,
		Pagination: dto.Pagination{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Len(t, page.Data, 2)

	mine, err := f.svc.ListClientVentes(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}

func TestExportAndInvoice(t *testing.T) {
	f := newVenteFixture(t)
	ctx := context.Background()
	created, err := f.svc.CreateVente(ctx, dto.CreateVenteRequest{
		Items:       []dto.VenteItemRequest{f.robeLine(1)},
		IsNewClient: true,
		Client:      newClientInput("amira@example.tn", "22111222"),
	})
	require.NoError(t, err)

	var xlsx bytes.Buffer
	require.NoError(t, f.svc.ExportVentes(ctx, dto.VenteFilter{}, &xlsx))
	assert.Equal(t, "PK", string(xlsx.Bytes()[:2]))

	var pdf bytes.Buffer
	ref, err := f.svc.InvoicePDF(ctx, uuid.MustParse(created.ID), &pdf)
	require.NoError(t, err)
	assert.Equal(t, created.Reference, ref)
	assert.Equal(t, "%PDF", string(pdf.Bytes()[:4]))
}
