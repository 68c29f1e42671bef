package service

import (
	"context"
	"errors"
	"io"

	"boutique/internal/infra"
	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/google/uuid"
)

// Invoices renders order invoices. The back-office download streams them and
// the notification worker saves them under dir for email attachments.
type Invoices struct {
	ventes   repository.VenteRepository
	settings SettingsSource
	dir      string
}

func NewInvoices(ventes repository.VenteRepository, settings SettingsSource, dir string) *Invoices {
	return &Invoices{ventes: ventes, settings: settings, dir: dir}
}

func (i *Invoices) load(ctx context.Context, id uuid.UUID) (*model.Vente, infra.StoreHeader, error) {
	vente, err := i.ventes.FindByID(ctx, id)
	if err != nil {
		return nil, infra.StoreHeader{}, notFound(err, "commande %s introuvable", id)
	}
	info, err := i.settings.Settings(ctx)
	if err != nil {
		return nil, infra.StoreHeader{}, err
	}
	return vente, storeHeader(info), nil
}

// Render writes the invoice PDF of an order to w and returns its reference.
func (i *Invoices) Render(ctx context.Context, id uuid.UUID, w io.Writer) (string, error) {
	vente, store, err := i.load(ctx, id)
	if err != nil {
		return "", err
	}
	return vente.Reference, infra.RenderInvoicePDF(w, vente, store)
}

// Save writes the invoice PDF of an order to dir/facture_{reference}.pdf.
func (i *Invoices) Save(ctx context.Context, id uuid.UUID) (string, error) {
	if i.dir == "" {
		return "", errors.New("invoice: no storage directory configured")
	}
	vente, store, err := i.load(ctx, id)
	if err != nil {
		return "", err
	}
	return infra.SaveInvoicePDF(i.dir, vente, store)
}
