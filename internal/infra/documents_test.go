package infra

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"boutique/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func sampleVente() *model.Vente {
	city := "Sfax"
	variant := "XL"
	return &model.Vente{
		ID:        uuid.New(),
		Reference: "AB12C",
		Client: model.ClientSnapshot{
			ClientID:  uuid.New(),
			FirstName: "Amel",
			LastName:  "Ben Salah",
			Phone1:    "22123456",
			City:      &city,
		},
		Livreur:     &model.Livreur{Name: "Sami", Phone: "98111222"},
		TotalHT:     decimal.RequireFromString("100.000"),
		Tva:         decimal.RequireFromString("19.000"),
		TotalTTC:    decimal.RequireFromString("119.000"),
		Discount:    decimal.RequireFromString("11.900"),
		Timber:      decimal.RequireFromString("1.000"),
		Livraison:   decimal.RequireFromString("7.000"),
		NetAPayer:   decimal.RequireFromString("115.100"),
		TaxRate:     decimal.RequireFromString("0.19"),
		ModePayment: "especes",
		Status:      model.StatusPending,
		PromoCode:   &model.PromoSnapshot{Code: "ETE10", Value: decimal.RequireFromString("0.1")},
		CreatedAt:   time.Date(2026, 5, 2, 10, 30, 0, 0, time.UTC),
		Items: []model.VenteItem{
			{Type: model.ItemProduct, Designation: "Robe été", Price: decimal.NewFromInt(50), Quantity: 2, Variant: &variant},
		},
	}
}

func TestRenderInvoicePDF(t *testing.T) {
	addr := "12 rue de Marseille, Tunis"
	var buf bytes.Buffer

	err := RenderInvoicePDF(&buf, sampleVente(), StoreHeader{Name: "Boutique", Address: &addr})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestSaveInvoicePDF_FileName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "factures")

	path, err := SaveInvoicePDF(dir, sampleVente(), StoreHeader{Name: "Boutique"})
	require.NoError(t, err)
	assert.Equal(t, "facture_AB12C.pdf", filepath.Base(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(100))
}

func TestWriteVentesXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVentesXLSX(&buf, []model.Vente{*sampleVente()}))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Ventes", sheet.Name)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Référence", sheet.Rows[0].Cells[0].String())

	row := sheet.Rows[1]
	assert.Equal(t, "AB12C", row.Cells[0].String())
	assert.Equal(t, "Amel Ben Salah", row.Cells[2].String())
	assert.Equal(t, "2x Robe été", row.Cells[5].String())
	assert.Equal(t, "115.100", row.Cells[12].String())
	assert.Equal(t, "ETE10", row.Cells[15].String())
}
