package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"boutique/internal/dto"
	"boutique/internal/infra"
	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EventVenteCreated is published to the back-office feed after an order commits.
const EventVenteCreated = "vente.created"

const defaultModePayment = "especes"

type VenteService interface {
	CreateVente(ctx context.Context, req dto.CreateVenteRequest) (*dto.CreateVenteResponse, error)
	CreateCommandeVente(ctx context.Context, req dto.CreateCommandeRequest) (*dto.VenteResponse, error)
	UpdateVente(ctx context.Context, id uuid.UUID, req dto.UpdateVenteRequest) (*dto.VenteResponse, error)
	UpdateVenteStatus(ctx context.Context, id uuid.UUID, status string) (*dto.VenteResponse, error)
	GetVente(ctx context.Context, id uuid.UUID) (*dto.VenteResponse, error)
	ListVentes(ctx context.Context, filter dto.VenteFilter) (*dto.PageResponse[dto.VenteResponse], error)
	ListClientVentes(ctx context.Context, clientID uuid.UUID) ([]dto.VenteResponse, error)
	DeleteVente(ctx context.Context, id uuid.UUID) error
	DeleteManyVentes(ctx context.Context, ids []uuid.UUID) (int64, error)
	ExportVentes(ctx context.Context, filter dto.VenteFilter, w io.Writer) error
	InvoicePDF(ctx context.Context, id uuid.UUID, w io.Writer) (string, error)
}

// VenteDeps wires the order service. Notifier and Events may be nil.
type VenteDeps struct {
	Ventes     repository.VenteRepository
	Clients    repository.ClientRepository
	Products   repository.ProductRepository
	Packs      repository.PackRepository
	PromoCodes repository.PromoCodeRepository
	Settings   SettingsSource
	Notifier   Notifier
	Events     EventPublisher
}

type venteService struct {
	VenteDeps
	now func() time.Time
}

func NewVenteService(deps VenteDeps) VenteService {
	return &venteService{VenteDeps: deps, now: time.Now}
}

// pricedItem is a catalog item resolved for an order line.
type pricedItem struct {
	kind        string
	id          uuid.UUID
	designation string
	price       decimal.Decimal
	oldPrice    *decimal.Decimal
}

// orderDraft is everything resolved before the first write.
type orderDraft struct {
	items  []model.VenteItem
	lines  []Line
	promo  *model.PromoSnapshot
	rate   *decimal.Decimal
	info   *model.Information
	client *model.Client // existing or to be created
	isNew  bool
}

// ── CreateVente ───────────────────────────────────────────────────────────────
// Back-office entry point:
//   1. Resolve client (isNewClient ⇒ build, else clientId must exist)
//   2. Resolve items by id, promo code and settings (no writes yet)
//   3. Compute totals, draw a free reference
//   4. TX: create client if new, create order, attach order to client
//   5. After commit: websocket event + notifications

func (s *venteService) CreateVente(ctx context.Context, req dto.CreateVenteRequest) (*dto.CreateVenteResponse, error) {
	draft := &orderDraft{}
	client, isNew, err := s.resolveAdminClient(ctx, req.IsNewClient, req.Client, req.ClientID)
	if err != nil {
		return nil, err
	}
	draft.client, draft.isNew = client, isNew

	if err := s.resolveItemsByID(ctx, req.Items, draft); err != nil {
		return nil, err
	}
	if err := s.resolveCommon(ctx, req.PromoCode, draft); err != nil {
		return nil, err
	}

	livraison := decimal.Zero
	if req.Livraison != nil {
		livraison = *req.Livraison
	}
	vente := &model.Vente{
		ModePayment: orDefault(req.ModePayment, defaultModePayment),
		Status:      orDefault(req.Status, model.StatusPending),
		Note:        req.Note,
		Livreur:     livreur(req.Livreur),
	}
	s.price(vente, draft, livraison, req.AdditionalCharges, req.AdditionalDiscount)

	if err := s.insert(ctx, vente, draft); err != nil {
		return nil, err
	}
	s.afterCreate(ctx, vente, draft.client)
	return &dto.CreateVenteResponse{Success: true, Reference: vente.Reference, ID: vente.ID.String()}, nil
}

// ── CreateCommandeVente ───────────────────────────────────────────────────────
// Storefront entry point. Items are resolved by slug and the customer is
// matched on {email, phone1}; an existing match is reused silently, otherwise
// a guest client is created with the order. The full order is returned.

func (s *venteService) CreateCommandeVente(ctx context.Context, req dto.CreateCommandeRequest) (*dto.VenteResponse, error) {
	draft := &orderDraft{}
	existing, err := s.Clients.FindByEmailPhone(ctx, req.Client.Email, req.Client.Phone1)
	switch {
	case err == nil:
		draft.client = existing
	case errors.Is(err, gorm.ErrRecordNotFound):
		draft.client, draft.isNew = clientFromInput(req.Client), true
	default:
		return nil, err
	}

	if err := s.resolveItemsBySlug(ctx, req.Items, draft); err != nil {
		return nil, err
	}
	if err := s.resolveCommon(ctx, req.PromoCode, draft); err != nil {
		return nil, err
	}

	livraison := draft.info.Livraison
	if req.Livraison != nil {
		livraison = *req.Livraison
	}
	vente := &model.Vente{
		ModePayment: orDefault(req.ModePayment, defaultModePayment),
		Status:      model.StatusPending,
		Note:        req.Note,
	}
	s.price(vente, draft, livraison, decimal.Zero, decimal.Zero)

	if err := s.insert(ctx, vente, draft); err != nil {
		return nil, err
	}
	s.afterCreate(ctx, vente, draft.client)
	// the storefront shows the computed totals on its confirmation page
	return venteToResponse(vente), nil
}

// ── UpdateVente ───────────────────────────────────────────────────────────────
// Replaces the order and recomputes every monetary field with the current
// settings. Optional scalars left out of the body keep their stored value.

func (s *venteService) UpdateVente(ctx context.Context, id uuid.UUID, req dto.UpdateVenteRequest) (*dto.VenteResponse, error) {
	vente, err := s.Ventes.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "commande %s introuvable", id)
	}
	oldClientID := vente.ClientID

	draft := &orderDraft{}
	if req.IsNewClient || req.ClientID != nil {
		client, isNew, err := s.resolveAdminClient(ctx, req.IsNewClient, req.Client, req.ClientID)
		if err != nil {
			return nil, err
		}
		draft.client, draft.isNew = client, isNew
	}
	if err := s.resolveItemsByID(ctx, req.Items, draft); err != nil {
		return nil, err
	}
	if err := s.resolveCommon(ctx, req.PromoCode, draft); err != nil {
		return nil, err
	}

	livraison := vente.Livraison
	if req.Livraison != nil {
		livraison = *req.Livraison
	}
	if req.ModePayment != "" {
		vente.ModePayment = req.ModePayment
	}
	if req.Status != "" {
		vente.Status = req.Status
	}
	if req.Note != nil {
		vente.Note = req.Note
	}
	if req.Livreur != nil {
		vente.Livreur = livreur(req.Livreur)
	}
	vente.PromoCode = nil
	s.price(vente, draft, livraison, req.AdditionalCharges, req.AdditionalDiscount)

	txErr := runTx(ctx, s.Ventes.DB(), func(tx *gorm.DB) error {
		if draft.isNew {
			if err := s.Clients.Create(ctx, tx, draft.client); err != nil {
				return err
			}
		}
		if draft.client != nil {
			vente.ClientID = &draft.client.ID
			vente.Client = snapshot(draft.client)
		}
		if err := s.Ventes.Replace(ctx, tx, vente); err != nil {
			return err
		}
		if !sameID(oldClientID, vente.ClientID) {
			if oldClientID != nil {
				if err := s.Clients.DetachOrder(ctx, tx, *oldClientID, vente.ID); err != nil {
					return err
				}
			}
			if vente.ClientID != nil {
				if err := s.Clients.AttachOrder(ctx, tx, *vente.ClientID, vente.ID); err != nil {
					return err
				}
			}
		}
		if req.CreatedAt != nil {
			return s.Ventes.SetCreatedAt(ctx, tx, vente.ID, *req.CreatedAt)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.GetVente(ctx, id)
}

// ── UpdateVenteStatus ─────────────────────────────────────────────────────────

func (s *venteService) UpdateVenteStatus(ctx context.Context, id uuid.UUID, status string) (*dto.VenteResponse, error) {
	if err := s.Ventes.UpdateStatus(ctx, id, status); err != nil {
		return nil, notFound(err, "commande %s introuvable", id)
	}
	vente, err := s.Ventes.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "commande %s introuvable", id)
	}
	if s.Notifier != nil {
		text := fmt.Sprintf("Votre commande %s est maintenant: %s.", vente.Reference, statusLabel(status))
		if err := s.Notifier.QueueSMS(context.WithoutCancel(ctx), &vente.ID, vente.Client.Phone1, text); err != nil {
			log.Warn().Err(err).Str("reference", vente.Reference).Msg("vente: status sms not queued")
		}
	}
	return venteToResponse(vente), nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *venteService) GetVente(ctx context.Context, id uuid.UUID) (*dto.VenteResponse, error) {
	vente, err := s.Ventes.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "commande %s introuvable", id)
	}
	return venteToResponse(vente), nil
}

func (s *venteService) ListVentes(ctx context.Context, filter dto.VenteFilter) (*dto.PageResponse[dto.VenteResponse], error) {
	ventes, total, err := s.Ventes.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VenteResponse, len(ventes))
	for i := range ventes {
		data[i] = *venteToResponse(&ventes[i])
	}
	return &dto.PageResponse[dto.VenteResponse]{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *venteService) ListClientVentes(ctx context.Context, clientID uuid.UUID) ([]dto.VenteResponse, error) {
	ventes, err := s.Ventes.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VenteResponse, len(ventes))
	for i := range ventes {
		data[i] = *venteToResponse(&ventes[i])
	}
	return data, nil
}

// ── Deletes ───────────────────────────────────────────────────────────────────
// Deleting an order always pulls its id from the owning client's list.

func (s *venteService) DeleteVente(ctx context.Context, id uuid.UUID) error {
	n, err := s.DeleteManyVentes(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("commande %s introuvable: %w", id, ErrNotFound)
	}
	return nil
}

func (s *venteService) DeleteManyVentes(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, invalid("aucune commande à supprimer")
	}
	var deleted int64
	err := runTx(ctx, s.Ventes.DB(), func(tx *gorm.DB) error {
		if err := s.Clients.DetachOrders(ctx, tx, ids); err != nil {
			return err
		}
		n, err := s.Ventes.Delete(ctx, tx, ids)
		deleted = n
		return err
	})
	return deleted, err
}

// ── Documents ─────────────────────────────────────────────────────────────────

func (s *venteService) ExportVentes(ctx context.Context, filter dto.VenteFilter, w io.Writer) error {
	ventes, err := s.Ventes.ListAll(ctx, filter)
	if err != nil {
		return err
	}
	return infra.WriteVentesXLSX(w, ventes)
}

// InvoicePDF renders the invoice of an order and returns its reference.
func (s *venteService) InvoicePDF(ctx context.Context, id uuid.UUID, w io.Writer) (string, error) {
	return NewInvoices(s.Ventes, s.Settings, "").Render(ctx, id, w)
}

// ── Resolution (read-only, before any write) ─────────────────────────────────

func (s *venteService) resolveAdminClient(ctx context.Context, isNew bool, in *dto.ClientInput, clientID *string) (*model.Client, bool, error) {
	if isNew {
		if in == nil {
			return nil, false, invalid("les informations du nouveau client sont requises")
		}
		return clientFromInput(*in), true, nil
	}
	if clientID == nil || *clientID == "" {
		return nil, false, invalid("clientId requis si isNewClient est faux")
	}
	id, err := uuid.Parse(*clientID)
	if err != nil {
		return nil, false, invalid("clientId invalide")
	}
	client, err := s.Clients.FindByID(ctx, id)
	if err != nil {
		return nil, false, notFound(err, "client %s introuvable", id)
	}
	return client, false, nil
}

func (s *venteService) resolveItemsByID(ctx context.Context, items []dto.VenteItemRequest, draft *orderDraft) error {
	for i, it := range items {
		id, err := uuid.Parse(it.ItemID)
		if err != nil {
			return invalid("itemId invalide: %s", it.ItemID)
		}
		var p pricedItem
		switch it.Type {
		case model.ItemProduct:
			prod, err := s.Products.FindByID(ctx, id)
			if err != nil {
				return notFound(err, "produit %s introuvable", id)
			}
			p = pricedItem{model.ItemProduct, prod.ID, prod.Designation, prod.Price, prod.OldPrice}
		case model.ItemPack:
			pack, err := s.Packs.FindByID(ctx, id)
			if err != nil {
				return notFound(err, "pack %s introuvable", id)
			}
			p = pricedItem{model.ItemPack, pack.ID, pack.Designation, pack.Price, pack.OldPrice}
		default:
			return invalid("type d'article inconnu: %s", it.Type)
		}
		draft.add(i, p, it.Quantity, it.Variant)
	}
	return nil
}

func (s *venteService) resolveItemsBySlug(ctx context.Context, items []dto.CommandeItemRequest, draft *orderDraft) error {
	for i, it := range items {
		var p pricedItem
		switch it.Type {
		case model.ItemProduct:
			prod, err := s.Products.FindBySlug(ctx, it.Slug)
			if err != nil {
				return notFound(err, "produit %q introuvable", it.Slug)
			}
			p = pricedItem{model.ItemProduct, prod.ID, prod.Designation, prod.Price, prod.OldPrice}
		case model.ItemPack:
			pack, err := s.Packs.FindBySlug(ctx, it.Slug)
			if err != nil {
				return notFound(err, "pack %q introuvable", it.Slug)
			}
			p = pricedItem{model.ItemPack, pack.ID, pack.Designation, pack.Price, pack.OldPrice}
		default:
			return invalid("type d'article inconnu: %s", it.Type)
		}
		draft.add(i, p, it.Quantity, it.Variant)
	}
	return nil
}

func (d *orderDraft) add(pos int, p pricedItem, qty int, variant *string) {
	d.items = append(d.items, model.VenteItem{
		Position:    pos,
		Type:        p.kind,
		ItemID:      p.id,
		Designation: p.designation,
		Price:       p.price,
		OldPrice:    p.oldPrice,
		Quantity:    qty,
		Variant:     variant,
	})
	d.lines = append(d.lines, Line{Kind: p.kind, Price: p.price, OldPrice: p.oldPrice, Quantity: qty})
}

// resolveCommon loads the promo code and the settings snapshot.
func (s *venteService) resolveCommon(ctx context.Context, code *string, draft *orderDraft) error {
	if code != nil && strings.TrimSpace(*code) != "" {
		promo, err := s.PromoCodes.FindByCode(ctx, strings.TrimSpace(*code))
		if err != nil {
			return notFound(err, "code promo %q introuvable", *code)
		}
		if promo.Applies(s.now()) {
			rate := promo.Discount
			draft.rate = &rate
			draft.promo = &model.PromoSnapshot{ID: promo.ID, Code: promo.Code, Value: promo.Discount}
		}
	}
	info, err := s.Settings.Settings(ctx)
	if err != nil {
		return err
	}
	draft.info = info
	return nil
}

// price computes the totals and stamps the settings used onto the order.
func (s *venteService) price(v *model.Vente, d *orderDraft, livraison, charges, extraDiscount decimal.Decimal) {
	totals := ComputeTotals(TotalsInput{
		Lines:              d.lines,
		TaxRate:            d.info.Tva,
		Timber:             d.info.Timber,
		Livraison:          livraison,
		AdditionalCharges:  charges,
		AdditionalDiscount: extraDiscount,
		PromoRate:          d.rate,
	})
	totals.apply(v)
	v.TaxRate = d.info.Tva
	v.Items = d.items
	v.PromoCode = d.promo
}

// insert draws a reference and writes client, order and back-reference in one transaction.
func (s *venteService) insert(ctx context.Context, v *model.Vente, d *orderDraft) error {
	ref, err := GenerateReference(ctx, s.Ventes.ReferenceExists)
	if err != nil {
		return err
	}
	v.Reference = ref

	return runTx(ctx, s.Ventes.DB(), func(tx *gorm.DB) error {
		if d.isNew {
			if err := s.Clients.Create(ctx, tx, d.client); err != nil {
				return err
			}
		}
		v.ClientID = &d.client.ID
		v.Client = snapshot(d.client)
		if err := s.Ventes.Create(ctx, tx, v); err != nil {
			return err
		}
		return s.Clients.AttachOrder(ctx, tx, d.client.ID, v.ID)
	})
}

// afterCreate runs the side effects of a committed order. Failures are logged only.
func (s *venteService) afterCreate(ctx context.Context, v *model.Vente, client *model.Client) {
	ctx = context.WithoutCancel(ctx)
	if s.Events != nil {
		s.Events.Publish(EventVenteCreated, venteToResponse(v))
	}
	if s.Notifier == nil {
		return
	}

	text := fmt.Sprintf("Merci pour votre commande %s. Montant à payer: %s TND.", v.Reference, money(v.NetAPayer))
	if err := s.Notifier.QueueSMS(ctx, &v.ID, client.Phone1, text); err != nil {
		log.Warn().Err(err).Str("reference", v.Reference).Msg("vente: confirmation sms not queued")
	}

	if client.Email == nil || *client.Email == "" {
		return
	}
	subject := fmt.Sprintf("Confirmation de commande %s", v.Reference)
	body := fmt.Sprintf("Bonjour %s,\n\nNous avons bien reçu votre commande %s.\nTotal TTC: %s TND\nNet à payer: %s TND\n\nMerci de votre confiance.",
		client.FirstName, v.Reference, money(v.TotalTTC), money(v.NetAPayer))
	// the worker renders the invoice before sending
	if err := s.Notifier.QueueEmail(ctx, &v.ID, *client.Email, subject, body, true); err != nil {
		log.Warn().Err(err).Str("reference", v.Reference).Msg("vente: confirmation email not queued")
	}
}

// ── Mappers ───────────────────────────────────────────────────────────────────

func clientFromInput(in dto.ClientInput) *model.Client {
	return &model.Client{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     in.Email,
		Phone1:    strings.TrimSpace(in.Phone1),
		Phone2:    in.Phone2,
		Address:   in.Address,
		City:      in.City,
		Active:    true,
	}
}

func snapshot(c *model.Client) model.ClientSnapshot {
	return model.ClientSnapshot{
		ClientID:  c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone1:    c.Phone1,
		Phone2:    c.Phone2,
		Address:   c.Address,
		City:      c.City,
	}
}

func livreur(in *dto.LivreurInput) *model.Livreur {
	if in == nil {
		return nil
	}
	return &model.Livreur{Name: in.Name, Phone: in.Phone}
}

func storeHeader(info *model.Information) infra.StoreHeader {
	return infra.StoreHeader{
		Name:    info.StoreName,
		Address: info.Address,
		Phone:   info.Phone,
		Email:   info.Email,
	}
}

func statusLabel(status string) string {
	switch status {
	case model.StatusPending:
		return "en attente"
	case model.StatusProcessing:
		return "en préparation"
	case model.StatusPaid:
		return "payée"
	case model.StatusDelivered:
		return "livrée"
	case model.StatusCancelled:
		return "annulée"
	case model.StatusRefunded:
		return "remboursée"
	}
	return status
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func venteToResponse(v *model.Vente) *dto.VenteResponse {
	resp := &dto.VenteResponse{
		ID:        v.ID.String(),
		Reference: v.Reference,
		Client: dto.ClientSnapshotResponse{
			ClientID:  v.Client.ClientID.String(),
			FirstName: v.Client.FirstName,
			LastName:  v.Client.LastName,
			Email:     v.Client.Email,
			Phone1:    v.Client.Phone1,
			Phone2:    v.Client.Phone2,
			Address:   v.Client.Address,
			City:      v.Client.City,
		},
		Items:             make([]dto.VenteItemResponse, len(v.Items)),
		Tva:               money(v.Tva),
		TotalHT:           money(v.TotalHT),
		TotalTTC:          money(v.TotalTTC),
		Livraison:         money(v.Livraison),
		Timber:            money(v.Timber),
		AdditionalCharges: money(v.AdditionalCharges),
		Discount:          money(v.Discount),
		ProductsDiscount:  money(v.ProductsDiscount),
		NetAPayer:         money(v.NetAPayer),
		TaxRate:           v.TaxRate.String(),
		ModePayment:       v.ModePayment,
		Status:            v.Status,
		Note:              v.Note,
		CreatedAt:         v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         v.UpdatedAt.Format(time.RFC3339),
	}
	if v.Livreur != nil {
		resp.Livreur = &dto.LivreurInput{Name: v.Livreur.Name, Phone: v.Livreur.Phone}
	}
	if v.PromoCode != nil {
		resp.PromoCode = &dto.PromoSnapshotResponse{
			ID:    v.PromoCode.ID.String(),
			Code:  v.PromoCode.Code,
			Value: v.PromoCode.Value.String(),
		}
	}
	for i, it := range v.Items {
		item := dto.VenteItemResponse{
			Type:        it.Type,
			ItemID:      it.ItemID.String(),
			Designation: it.Designation,
			Price:       money(it.Price),
			Quantity:    it.Quantity,
			Variant:     it.Variant,
		}
		if it.OldPrice != nil {
			old := money(*it.OldPrice)
			item.OldPrice = &old
		}
		resp.Items[i] = item
	}
	return resp
}
