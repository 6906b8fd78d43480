// Package ubl exporta las facturas en XML UBL 2.1 (OASIS) y calcula la huella SHA-256
// de su forma canónica (C14N), que se guarda en la factura al emitirla.
package ubl

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
)

// Namespaces UBL 2.1.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	customizationID = "urn:cen.eu:en16931:2017"
	invoiceTypeCode = "380" // factura comercial (UNCL1001)
	unitCode        = "C62" // unidad (UN/ECE Rec 20)
)

// Exporter implementa billing.UBLExporter.
type Exporter struct{}

// NewExporter crea el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// Build genera el XML y devuelve su huella canónica en hex.
func (e *Exporter) Build(inv *entity.Invoice, company *entity.Company, customer *entity.Customer, details []*entity.InvoiceDetail) ([]byte, string, error) {
	if inv == nil || company == nil || customer == nil {
		return nil, "", errors.New("ubl: faltan factura, empresa o cliente")
	}
	if inv.IssueDate == nil {
		return nil, "", errors.New("ubl: la factura no tiene fecha de emisión")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	cbc(root, "UBLVersionID", "2.1")
	cbc(root, "CustomizationID", customizationID)
	cbc(root, "ID", inv.Prefix+"-"+inv.Number)
	cbc(root, "IssueDate", inv.IssueDate.Format("2006-01-02"))
	if inv.DueDate != nil {
		cbc(root, "DueDate", inv.DueDate.Format("2006-01-02"))
	}
	cbc(root, "InvoiceTypeCode", invoiceTypeCode)
	if inv.Notes != "" {
		cbc(root, "Note", inv.Notes)
	}
	cbc(root, "DocumentCurrencyCode", inv.Currency)
	if inv.ShipmentID != "" {
		ref := root.CreateElement("cac:OriginatorDocumentReference")
		cbc(ref, "ID", inv.ShipmentID)
	}

	party(root.CreateElement("cac:AccountingSupplierParty"), company.Name, company.TaxID, company.Address, "", company.Email)
	party(root.CreateElement("cac:AccountingCustomerParty"), customer.Name, customer.TaxID, customer.Address, customer.Country, customer.Email)

	taxTotal(root, inv, details)

	lmt := root.CreateElement("cac:LegalMonetaryTotal")
	amount(lmt, "LineExtensionAmount", inv.NetTotal, inv.Currency)
	amount(lmt, "TaxExclusiveAmount", inv.NetTotal, inv.Currency)
	amount(lmt, "TaxInclusiveAmount", inv.GrandTotal, inv.Currency)
	amount(lmt, "PayableAmount", inv.GrandTotal, inv.Currency)

	for i, d := range details {
		line := root.CreateElement("cac:InvoiceLine")
		cbc(line, "ID", fmt.Sprintf("%d", i+1))
		q := cbc(line, "InvoicedQuantity", d.Quantity.String())
		q.CreateAttr("unitCode", unitCode)
		amount(line, "LineExtensionAmount", d.Subtotal, inv.Currency)
		item := line.CreateElement("cac:Item")
		cbc(item, "Name", d.Description)
		if d.PriceComponentID != "" {
			sid := item.CreateElement("cac:SellersItemIdentification")
			cbc(sid, "ID", d.PriceComponentID)
		}
		cat := item.CreateElement("cac:ClassifiedTaxCategory")
		cbc(cat, "ID", taxCategory(d.TaxRate))
		cbc(cat, "Percent", percent(d.TaxRate))
		scheme := cat.CreateElement("cac:TaxScheme")
		cbc(scheme, "ID", "VAT")
		price := line.CreateElement("cac:Price")
		amount(price, "PriceAmount", d.UnitPrice, inv.Currency)
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("ubl: serializar: %w", err)
	}
	digest, err := Digest(out)
	if err != nil {
		return nil, "", err
	}
	return out, digest, nil
}

// Digest SHA-256 (hex) de la forma canónica C14N del XML.
func Digest(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("ubl: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// taxTotal agrupa el impuesto por tarifa (TaxSubtotal por cada porcentaje distinto).
func taxTotal(root *etree.Element, inv *entity.Invoice, details []*entity.InvoiceDetail) {
	type group struct {
		rate, base, tax decimal.Decimal
	}
	var groups []*group
	byRate := map[string]*group{}
	for _, d := range details {
		key := d.TaxRate.String()
		g, ok := byRate[key]
		if !ok {
			g = &group{rate: d.TaxRate}
			byRate[key] = g
			groups = append(groups, g)
		}
		g.base = g.base.Add(d.Subtotal)
		g.tax = g.tax.Add(d.Subtotal.Mul(d.TaxRate).Round(2))
	}

	tt := root.CreateElement("cac:TaxTotal")
	amount(tt, "TaxAmount", inv.TaxTotal, inv.Currency)
	for _, g := range groups {
		sub := tt.CreateElement("cac:TaxSubtotal")
		amount(sub, "TaxableAmount", g.base, inv.Currency)
		amount(sub, "TaxAmount", g.tax, inv.Currency)
		cat := sub.CreateElement("cac:TaxCategory")
		cbc(cat, "ID", taxCategory(g.rate))
		cbc(cat, "Percent", percent(g.rate))
		scheme := cat.CreateElement("cac:TaxScheme")
		cbc(scheme, "ID", "VAT")
	}
}

func party(parent *etree.Element, name, taxID, address, country, email string) {
	p := parent.CreateElement("cac:Party")
	pn := p.CreateElement("cac:PartyName")
	cbc(pn, "Name", name)
	if address != "" || country != "" {
		addr := p.CreateElement("cac:PostalAddress")
		if address != "" {
			cbc(addr, "StreetName", address)
		}
		if country != "" {
			c := addr.CreateElement("cac:Country")
			cbc(c, "IdentificationCode", country)
		}
	}
	ts := p.CreateElement("cac:PartyTaxScheme")
	cbc(ts, "CompanyID", taxID)
	scheme := ts.CreateElement("cac:TaxScheme")
	cbc(scheme, "ID", "VAT")
	le := p.CreateElement("cac:PartyLegalEntity")
	cbc(le, "RegistrationName", name)
	if email != "" {
		contact := p.CreateElement("cac:Contact")
		cbc(contact, "ElectronicMail", email)
	}
}

func cbc(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + tag)
	el.SetText(value)
	return el
}

func amount(parent *etree.Element, tag string, v decimal.Decimal, currency string) {
	el := cbc(parent, tag, v.StringFixed(2))
	el.CreateAttr("currencyID", currency)
}

// taxCategory S = tarifa estándar, Z = tarifa cero (UNCL5305).
func taxCategory(rate decimal.Decimal) string {
	if rate.IsZero() {
		return "Z"
	}
	return "S"
}

func percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2)
}
