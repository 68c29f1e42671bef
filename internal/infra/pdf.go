package infra

// pdf.go renders the A4 order invoice with go-pdf/fpdf:
//   - store header (name, address, phone, email)
//   - reference, date, client block and delivery person
//   - item table (designation, quantity, unit price, line total)
//   - totals block down to the net amount
//
// SaveInvoicePDF writes the invoice to dir/facture_{reference}.pdf for email attachments.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"boutique/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// StoreHeader is the issuer block printed at the top of an invoice.
type StoreHeader struct {
	Name    string
	Address *string
	Phone   *string
	Email   *string
}

// RenderInvoicePDF writes the invoice of v to w.
func RenderInvoicePDF(w io.Writer, v *model.Vente, store StoreHeader) error {
	pdf := buildInvoice(v, store)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: render invoice: %w", err)
	}
	return nil
}

// SaveInvoicePDF writes the invoice of v under dir (created if needed) and
// returns the file path.
func SaveInvoicePDF(dir string, v *model.Vente, store StoreHeader) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(dir, fmt.Sprintf("facture_%s.pdf", v.Reference))

	pdf := buildInvoice(v, store)
	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

func buildInvoice(v *model.Vente, store StoreHeader) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Store header ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 8, tr(store.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, line := range []*string{store.Address, store.Phone, store.Email} {
		if line != nil && *line != "" {
			pdf.CellFormat(contentW, 5, tr(*line), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(6)

	// ── Invoice info ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, tr("Facture N° "+v.Reference), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, v.CreatedAt.Format("02/01/2006 15:04"), "", 1, "R", false, 0, "")
	pdf.CellFormat(contentW, 5, tr("Paiement: "+v.ModePayment), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	// ── Client ───────────────────────────────────────────────────────────────
	c := v.Client
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Client", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr(strings.TrimSpace(c.FirstName+" "+c.LastName)), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, tr(c.Phone1), "", 1, "L", false, 0, "")
	address := joinNonEmpty(", ", c.Address, c.City)
	if address != "" {
		pdf.CellFormat(contentW, 5, tr(address), "", 1, "L", false, 0, "")
	}
	if v.Livreur != nil {
		pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Livreur: %s (%s)", v.Livreur.Name, v.Livreur.Phone)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Items ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52
	col2 := contentW * 0.12
	col3 := contentW * 0.18
	col4 := contentW * 0.18

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(col1, 7, tr("Désignation"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(col2, 7, tr("Qté"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(col3, 7, "Prix unitaire", "1", 0, "R", true, 0, "")
	pdf.CellFormat(col4, 7, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, it := range v.Items {
		name := it.Designation
		if it.Variant != nil && *it.Variant != "" {
			name += " (" + *it.Variant + ")"
		}
		if r := []rune(name); len(r) > 60 {
			name = string(r[:59]) + "…"
		}
		line := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		pdf.CellFormat(col1, 6, tr(name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, it.Price.StringFixed(3), "1", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, line.StringFixed(3), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// ── Totals ───────────────────────────────────────────────────────────────
	labelW := col1 + col2 + col3
	row := func(label string, amount decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(labelW, 6, tr(label), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, amount.StringFixed(3), "", 1, "R", false, 0, "")
	}
	row("Total HT", v.TotalHT, false)
	row(fmt.Sprintf("TVA (%s%%)", v.TaxRate.Mul(decimal.NewFromInt(100)).String()), v.Tva, false)
	row("Total TTC", v.TotalTTC, false)
	if !v.ProductsDiscount.IsZero() {
		row("Remise produits", v.ProductsDiscount.Neg(), false)
	}
	if !v.Discount.IsZero() {
		label := "Remise"
		if v.PromoCode != nil {
			label = "Remise (" + v.PromoCode.Code + ")"
		}
		row(label, v.Discount.Neg(), false)
	}
	if !v.Livraison.IsZero() {
		row("Livraison", v.Livraison, false)
	}
	if !v.AdditionalCharges.IsZero() {
		row("Frais additionnels", v.AdditionalCharges, false)
	}
	row("Timbre fiscal", v.Timber, false)
	row("Net à payer", v.NetAPayer, true)

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(contentW, 5, "Merci pour votre confiance !", "", 1, "C", false, 0, "")
	return pdf
}

func joinNonEmpty(sep string, parts ...*string) string {
	var out []string
	for _, p := range parts {
		if p != nil && strings.TrimSpace(*p) != "" {
			out = append(out, strings.TrimSpace(*p))
		}
	}
	return strings.Join(out, sep)
}
