// Package pricing concentra la aritmética de dinero del dominio: líneas de oferta,
// totales, conversión entre monedas y vencimientos. Todo en shopspring/decimal.
package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
)

// BaseCurrency moneda contra la que se expresan todas las tasas.
const BaseCurrency = "USD"

var hundred = decimal.NewFromInt(100)

// NormalizeRate acepta la tasa como porcentaje (19) o fracción (0.19) y devuelve la fracción.
// Solo los valores mayores que 1 se leen como porcentaje: 1 es 100% (no 1%) y un 1% debe
// enviarse como 0.01. Los negativos se devuelven sin cambio; validarlos es del llamador.
func NormalizeRate(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return rate.Div(hundred)
	}
	return rate
}

// LineAmount redondea Quantity*UnitPrice a 2 decimales.
func LineAmount(qty, unitPrice decimal.Decimal) decimal.Decimal {
	return qty.Mul(unitPrice).Round(2)
}

// Totals subtotal, impuestos y total de un conjunto de líneas.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeBid calcula Amount de cada línea y los totales de la oferta.
// Las líneas con cantidad <= 0 o precio negativo son inválidas.
func ComputeBid(items []entity.BidItem) ([]entity.BidItem, Totals, error) {
	out := make([]entity.BidItem, len(items))
	var t Totals
	for i, it := range items {
		if !it.Quantity.GreaterThan(decimal.Zero) || it.UnitPrice.IsNegative() {
			return nil, Totals{}, fmt.Errorf("línea %d: cantidad o precio inválido", i+1)
		}
		it.TaxRate = NormalizeRate(it.TaxRate)
		it.Amount = LineAmount(it.Quantity, it.UnitPrice)
		t.Subtotal = t.Subtotal.Add(it.Amount)
		t.Tax = t.Tax.Add(it.Amount.Mul(it.TaxRate).Round(2))
		out[i] = it
	}
	t.Total = t.Subtotal.Add(t.Tax)
	return out, t, nil
}

// InvoiceTotals calcula los totales de una factura a partir de sus detalles.
func InvoiceTotals(details []*entity.InvoiceDetail) Totals {
	var t Totals
	for _, d := range details {
		t.Subtotal = t.Subtotal.Add(d.Subtotal)
		t.Tax = t.Tax.Add(d.Subtotal.Mul(d.TaxRate).Round(2))
	}
	t.Total = t.Subtotal.Add(t.Tax)
	return t
}

// Rates tasas por código de moneda (unidades por 1 USD).
type Rates map[string]decimal.Decimal

// Convert convierte amount de la moneda from a la moneda to usando USD como pivote.
func Convert(amount decimal.Decimal, from, to string, rates Rates) (decimal.Decimal, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return amount, nil
	}
	rateFrom, err := rateOf(from, rates)
	if err != nil {
		return decimal.Zero, err
	}
	rateTo, err := rateOf(to, rates)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Div(rateFrom).Mul(rateTo).Round(2), nil
}

func rateOf(code string, rates Rates) (decimal.Decimal, error) {
	if code == BaseCurrency {
		return decimal.NewFromInt(1), nil
	}
	r, ok := rates[code]
	if !ok || !r.GreaterThan(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("pricing: sin tasa para %s", code)
	}
	return r, nil
}

// ValidCurrency valida un código ISO 4217.
func ValidCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	_, err := currency.ParseISO(strings.ToUpper(code))
	return err == nil
}

// SuggestedQuantity cantidad por defecto de un componente según la base de cobro y el RFQ.
func SuggestedQuantity(basis string, rfq *entity.RFQ) decimal.Decimal {
	switch basis {
	case entity.BasisPerContainer:
		if rfq.Containers > 0 {
			return decimal.NewFromInt(int64(rfq.Containers))
		}
	case entity.BasisPerKg:
		if rfq.WeightKg.GreaterThan(decimal.Zero) {
			return rfq.WeightKg
		}
	case entity.BasisPerCBM:
		if rfq.VolumeCBM.GreaterThan(decimal.Zero) {
			return rfq.VolumeCBM
		}
	}
	return decimal.NewFromInt(1)
}

// DueDate fecha de vencimiento: emisión + días de plazo del cliente.
func DueDate(issue time.Time, termDays int) time.Time {
	if termDays < 0 {
		termDays = 0
	}
	return issue.AddDate(0, 0, termDays)
}
