package pricing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/pricing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeBid_TotalesConImpuesto(t *testing.T) {
	items := []entity.BidItem{
		{Description: "Ocean freight", Quantity: d("2"), UnitPrice: d("1500"), TaxRate: decimal.Zero},
		{Description: "THC", Quantity: d("2"), UnitPrice: d("180.555"), TaxRate: d("19")},
	}
	out, totals, err := pricing.ComputeBid(items)
	require.NoError(t, err)

	assert.True(t, out[0].Amount.Equal(d("3000")))
	assert.True(t, out[1].Amount.Equal(d("361.11")), "redondeo a 2 decimales por línea")
	assert.True(t, out[1].TaxRate.Equal(d("0.19")), "19 se normaliza a 0.19")
	assert.True(t, totals.Subtotal.Equal(d("3361.11")))
	assert.True(t, totals.Tax.Equal(d("68.61")))
	assert.True(t, totals.Total.Equal(d("3429.72")))
}

func TestComputeBid_LineaInvalida(t *testing.T) {
	_, _, err := pricing.ComputeBid([]entity.BidItem{{Quantity: decimal.Zero, UnitPrice: d("10")}})
	assert.Error(t, err)
	_, _, err = pricing.ComputeBid([]entity.BidItem{{Quantity: d("1"), UnitPrice: d("-1")}})
	assert.Error(t, err)
}

func TestConvert_PivoteUSD(t *testing.T) {
	rates := pricing.Rates{"EUR": d("0.9"), "COP": d("4000")}

	got, err := pricing.Convert(d("90"), "EUR", "USD", rates)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("100")))

	got, err = pricing.Convert(d("100"), "USD", "COP", rates)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("400000")))

	got, err = pricing.Convert(d("9"), "eur", "COP", rates)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("40000")))

	_, err = pricing.Convert(d("1"), "USD", "MXN", rates)
	assert.Error(t, err)
}

func TestValidCurrency(t *testing.T) {
	assert.True(t, pricing.ValidCurrency("usd"))
	assert.True(t, pricing.ValidCurrency("COP"))
	assert.False(t, pricing.ValidCurrency("XX"))
	assert.False(t, pricing.ValidCurrency("ABC"))
}

func TestSuggestedQuantity(t *testing.T) {
	rfq := &entity.RFQ{Containers: 3, WeightKg: d("1200.5"), VolumeCBM: decimal.Zero}
	assert.True(t, pricing.SuggestedQuantity(entity.BasisPerContainer, rfq).Equal(d("3")))
	assert.True(t, pricing.SuggestedQuantity(entity.BasisPerKg, rfq).Equal(d("1200.5")))
	assert.True(t, pricing.SuggestedQuantity(entity.BasisPerCBM, rfq).Equal(d("1")))
	assert.True(t, pricing.SuggestedQuantity(entity.BasisPerShipment, rfq).Equal(d("1")))
}

func TestDueDate(t *testing.T) {
	issue := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), pricing.DueDate(issue, 30))
	assert.Equal(t, issue, pricing.DueDate(issue, -5))
}

func TestInvoiceTotals(t *testing.T) {
	totals := pricing.InvoiceTotals([]*entity.InvoiceDetail{
		{Subtotal: d("100"), TaxRate: d("0.19")},
		{Subtotal: d("50"), TaxRate: decimal.Zero},
	})
	assert.True(t, totals.Subtotal.Equal(d("150")))
	assert.True(t, totals.Tax.Equal(d("19")))
	assert.True(t, totals.Total.Equal(d("169")))
}

func TestFormatMoney_CodigoInvalido(t *testing.T) {
	assert.Equal(t, "XX 10.50", pricing.FormatMoney(d("10.5"), "xx"))
	assert.NotEmpty(t, pricing.FormatMoney(d("10.5"), "USD"))
}

func TestNormalizeRate(t *testing.T) {
	cases := map[string]string{
		"19":   "0.19",
		"0.19": "0.19",
		"1":    "1",
		"0.01": "0.01",
		"1.5":  "0.015",
		"0":    "0",
	}
	for in, want := range cases {
		got := pricing.NormalizeRate(d(in))
		assert.True(t, got.Equal(d(want)), "%s -> %s, se obtuvo %s", in, want, got)
	}
}
