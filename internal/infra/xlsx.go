package infra

import (
	"fmt"
	"io"
	"strings"

	"boutique/internal/model"

	"github.com/tealeg/xlsx"
)

var venteExportHeaders = []string{
	"Référence", "Date", "Client", "Téléphone", "Ville", "Articles",
	"Total HT", "TVA", "Total TTC", "Remise", "Livraison", "Timbre",
	"Net à payer", "Paiement", "Statut", "Code promo",
}

// WriteVentesXLSX writes one row per order to a single-sheet workbook.
func WriteVentesXLSX(w io.Writer, ventes []model.Vente) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Ventes")
	if err != nil {
		return fmt.Errorf("xlsx: add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range venteExportHeaders {
		header.AddCell().SetValue(h)
	}

	for _, v := range ventes {
		row := sheet.AddRow()
		row.AddCell().SetValue(v.Reference)
		row.AddCell().SetValue(v.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(strings.TrimSpace(v.Client.FirstName + " " + v.Client.LastName))
		row.AddCell().SetValue(v.Client.Phone1)
		city := ""
		if v.Client.City != nil {
			city = *v.Client.City
		}
		row.AddCell().SetValue(city)

		items := make([]string, 0, len(v.Items))
		for _, it := range v.Items {
			items = append(items, fmt.Sprintf("%dx %s", it.Quantity, it.Designation))
		}
		row.AddCell().SetValue(strings.Join(items, ", "))

		for _, amount := range []string{
			v.TotalHT.StringFixed(3), v.Tva.StringFixed(3), v.TotalTTC.StringFixed(3),
			v.Discount.Add(v.ProductsDiscount).StringFixed(3), v.Livraison.StringFixed(3),
			v.Timber.StringFixed(3), v.NetAPayer.StringFixed(3),
		} {
			row.AddCell().SetValue(amount)
		}
		row.AddCell().SetValue(v.ModePayment)
		row.AddCell().SetValue(v.Status)
		code := ""
		if v.PromoCode != nil {
			code = v.PromoCode.Code
		}
		row.AddCell().SetValue(code)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}
