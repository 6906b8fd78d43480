package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Spanish)

// FormatMoney formatea un monto con el símbolo de la moneda para PDFs y correos.
// Si el código no es ISO válido se devuelve "<CODE> <monto>".
func FormatMoney(amount decimal.Decimal, code string) string {
	unit, err := currency.ParseISO(strings.ToUpper(code))
	if err != nil {
		return strings.ToUpper(code) + " " + amount.StringFixed(2)
	}
	return printer.Sprint(currency.Symbol(unit.Amount(amount.Round(2).InexactFloat64())))
}
