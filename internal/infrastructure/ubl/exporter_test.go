package ubl

import (
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
)

func fixture() (*entity.Invoice, *entity.Company, *entity.Customer, []*entity.InvoiceDetail) {
	issue := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, 30)
	inv := &entity.Invoice{
		ID: "inv", Prefix: "FAC", Number: "000007", Currency: "USD", ShipmentID: "shp-1",
		IssueDate: &issue, DueDate: &due, Status: entity.InvoiceStatusIssued,
		NetTotal: decimal.NewFromInt(3050), TaxTotal: decimal.RequireFromString("9.5"), GrandTotal: decimal.RequireFromString("3059.5"),
	}
	company := &entity.Company{Name: "Acme & Co", TaxID: "900123456"}
	customer := &entity.Customer{Name: "Importadora Andina", TaxID: "800111222", Country: "CO"}
	details := []*entity.InvoiceDetail{
		{Description: "Flete marítimo", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(1500), Subtotal: decimal.NewFromInt(3000)},
		{Description: "Emisión de BL", PriceComponentID: "doc", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50), TaxRate: decimal.RequireFromString("0.19"), Subtotal: decimal.NewFromInt(50)},
	}
	return inv, company, customer, details
}

func TestBuild_EstructuraUBL(t *testing.T) {
	xmlBytes, digest, err := NewExporter().Build(fixture())
	require.NoError(t, err)
	assert.Len(t, digest, 64)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(xmlBytes))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Invoice", root.Tag)
	assert.Equal(t, "FAC-000007", root.FindElement("./cbc:ID").Text())
	assert.Equal(t, "2026-07-15", root.FindElement("./cbc:DueDate").Text())
	assert.Len(t, root.FindElements("./cac:InvoiceLine"), 2)
	assert.Len(t, root.FindElements("./cac:TaxTotal/cac:TaxSubtotal"), 2, "una por tarifa")
	payable := root.FindElement("./cac:LegalMonetaryTotal/cbc:PayableAmount")
	assert.Equal(t, "3059.50", payable.Text())
	assert.Equal(t, "USD", payable.SelectAttrValue("currencyID", ""))
	assert.True(t, strings.Contains(string(xmlBytes), "Acme &amp; Co"))
}

func TestBuild_DigestDeterministico(t *testing.T) {
	_, first, err := NewExporter().Build(fixture())
	require.NoError(t, err)
	_, second, err := NewExporter().Build(fixture())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	inv, company, customer, details := fixture()
	inv.GrandTotal = decimal.NewFromInt(1)
	_, changed, err := NewExporter().Build(inv, company, customer, details)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)
}

func TestDigest_IgnoraFormato(t *testing.T) {
	a, err := Digest([]byte(`<a x="1"  y="2"><b/></a>`))
	require.NoError(t, err)
	b, err := Digest([]byte(`<a y="2" x="1"><b></b></a>`))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuild_SinFechaDeEmision(t *testing.T) {
	inv, company, customer, details := fixture()
	inv.IssueDate = nil
	_, _, err := NewExporter().Build(inv, company, customer, details)
	assert.Error(t, err)
}
