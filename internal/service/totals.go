package service

import (
	"boutique/internal/model"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimals kept on every monetary field (millimes).
const MoneyPlaces = 3

// Line is one resolved order line fed to ComputeTotals.
type Line struct {
	Kind     string // model.ItemProduct | model.ItemPack
	Price    decimal.Decimal
	OldPrice *decimal.Decimal
	Quantity int
}

// TotalsInput carries everything the order arithmetic depends on.
type TotalsInput struct {
	Lines              []Line
	TaxRate            decimal.Decimal
	Timber             decimal.Decimal
	Livraison          decimal.Decimal
	AdditionalCharges  decimal.Decimal
	AdditionalDiscount decimal.Decimal
	// PromoRate is the fraction of an applicable promo code, nil when none applies.
	PromoRate *decimal.Decimal
}

// Totals holds the computed monetary fields of an order, rounded to MoneyPlaces.
type Totals struct {
	Tva               decimal.Decimal
	TotalHT           decimal.Decimal
	TotalTTC          decimal.Decimal
	Livraison         decimal.Decimal
	Timber            decimal.Decimal
	AdditionalCharges decimal.Decimal
	Discount          decimal.Decimal
	ProductsDiscount  decimal.Decimal
	NetAPayer         decimal.Decimal
}

// ComputeTotals runs the order arithmetic shared by every order entry point.
//
// VAT is charged on the list price of each line; the promo discount applies
// to the tax-inclusive total afterwards. The old-price savings are reported in
// ProductsDiscount but never subtracted from the amount due.
func ComputeTotals(in TotalsInput) Totals {
	tva := decimal.Zero
	totalHT := decimal.Zero
	productDiscount := decimal.Zero
	packDiscount := decimal.Zero
	discount := decimal.Zero

	for _, l := range in.Lines {
		qty := decimal.NewFromInt(int64(l.Quantity))
		if l.OldPrice != nil && !l.OldPrice.IsZero() {
			saved := l.OldPrice.Sub(l.Price).Mul(qty)
			if l.Kind == model.ItemPack {
				packDiscount = packDiscount.Add(saved)
			} else {
				productDiscount = productDiscount.Add(saved)
			}
		}
		totalHT = totalHT.Add(l.Price.Mul(qty))
		tva = tva.Add(l.Price.Mul(in.TaxRate).Mul(qty))
	}

	totalTTC := totalHT.Add(tva).Add(in.AdditionalCharges).Add(in.Livraison).Add(in.Timber)

	if in.PromoRate != nil {
		discount = discount.Add(totalTTC.Mul(*in.PromoRate))
	}
	discount = discount.Add(in.AdditionalDiscount)

	return Totals{
		Tva:               tva.Round(MoneyPlaces),
		TotalHT:           totalHT.Round(MoneyPlaces),
		TotalTTC:          totalTTC.Round(MoneyPlaces),
		Livraison:         in.Livraison.Round(MoneyPlaces),
		Timber:            in.Timber.Round(MoneyPlaces),
		AdditionalCharges: in.AdditionalCharges.Round(MoneyPlaces),
		Discount:          discount.Round(MoneyPlaces),
		ProductsDiscount:  productDiscount.Add(packDiscount).Round(MoneyPlaces),
		NetAPayer:         totalTTC.Sub(discount).Round(MoneyPlaces),
	}
}

// apply copies the totals onto an order.
func (t Totals) apply(v *model.Vente) {
	v.Tva = t.Tva
	v.TotalHT = t.TotalHT
	v.TotalTTC = t.TotalTTC
	v.Livraison = t.Livraison
	v.Timber = t.Timber
	v.AdditionalCharges = t.AdditionalCharges
	v.Discount = t.Discount
	v.ProductsDiscount = t.ProductsDiscount
	v.NetAPayer = t.NetAPayer
}

// money renders an amount with exactly MoneyPlaces decimals.
func money(d decimal.Decimal) string { return d.StringFixed(MoneyPlaces) }
