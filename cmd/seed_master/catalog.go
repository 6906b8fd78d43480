package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
)

// catalog es el archivo YAML con los datos maestros compartidos.
type catalog struct {
	Currencies []currencyDef  `yaml:"currencies"`
	Ports      []portDef      `yaml:"ports"`
	Components []componentDef `yaml:"price_components"`
}

type currencyDef struct {
	Code   string `yaml:"code"`
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
	Rate   string `yaml:"rate_to_usd"`
}

func (c currencyDef) rate() (decimal.Decimal, error) {
	return decimal.NewFromString(c.Rate)
}

type portDef struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind"`
	Affiliation string `yaml:"affiliation"`
}

type componentDef struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	Basis       string `yaml:"basis"`
	Taxable     bool   `yaml:"taxable"`
	Currency    string `yaml:"currency"`
	Affiliation string `yaml:"affiliation"`
}

var validBasis = map[string]bool{
	entity.BasisPerShipment:  true,
	entity.BasisPerContainer: true,
	entity.BasisPerKg:        true,
	entity.BasisPerCBM:       true,
	entity.BasisPerBL:        true,
}

func parseCatalog(r io.Reader) (*catalog, error) {
	var c catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decodificar catálogo: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *catalog) validate() error {
	var errs []error
	for i, cur := range c.Currencies {
		if len(cur.Code) != 3 {
			errs = append(errs, fmt.Errorf("currencies[%d]: código %q inválido", i, cur.Code))
		}
		if r, err := cur.rate(); err != nil || !r.IsPositive() {
			errs = append(errs, fmt.Errorf("currencies[%d] %s: rate_to_usd debe ser positivo", i, cur.Code))
		}
	}
	for i, p := range c.Ports {
		if len(p.Code) != 5 {
			errs = append(errs, fmt.Errorf("ports[%d]: LOCODE %q inválido", i, p.Code))
		}
		switch p.Kind {
		case entity.PortSea, entity.PortAir, entity.PortInland:
		default:
			errs = append(errs, fmt.Errorf("ports[%d] %s: kind %q inválido", i, p.Code, p.Kind))
		}
	}
	for i, pc := range c.Components {
		if pc.Code == "" || pc.Name == "" {
			errs = append(errs, fmt.Errorf("price_components[%d]: code y name son obligatorios", i))
		}
		if !validBasis[pc.Basis] {
			errs = append(errs, fmt.Errorf("price_components[%d] %s: basis %q inválida", i, pc.Code, pc.Basis))
		}
	}
	return errors.Join(errs...)
}

// readLocodes lee el CSV de UN/LOCODE publicado por UNECE (ISO-8859-1).
// Solo toma filas con función de puerto marítimo (1) o aeropuerto (4).
// Columnas: cambio, país, lugar, nombre, nombre sin diacríticos, subdivisión, función, ...
func readLocodes(r io.Reader, latin1 bool) ([]portDef, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var out []portDef
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if len(rec) < 7 {
			continue
		}
		country, place := strings.TrimSpace(rec[1]), strings.TrimSpace(rec[2])
		// Las filas sin lugar son los encabezados de país.
		if len(country) != 2 || len(place) != 3 || rec[0] == "X" {
			continue
		}
		kind := kindFromFunction(rec[6])
		if kind == "" {
			continue
		}
		out = append(out, portDef{Code: country + place, Name: strings.TrimSpace(rec[3]), Kind: kind})
	}
	return out, nil
}

func kindFromFunction(fn string) string {
	switch {
	case len(fn) > 0 && fn[0] == '1':
		return entity.PortSea
	case len(fn) > 3 && fn[3] == '4':
		return entity.PortAir
	default:
		return ""
	}
}

// writeSQL genera un script idempotente con el catálogo, para aplicarlo con psql.
func writeSQL(w io.Writer, c *catalog, newID func() string) error {
	var b strings.Builder
	b.WriteString("-- Datos maestros generados por seed_master\nBEGIN;\n\n")
	for _, cur := range c.Currencies {
		rate, _ := cur.rate()
		fmt.Fprintf(&b, "INSERT INTO currencies (code, name, symbol, rate_to_base, updated_at) VALUES (%s, %s, %s, %s, now())\n"+
			"    ON CONFLICT (code) DO UPDATE SET rate_to_base = EXCLUDED.rate_to_base, updated_at = now();\n",
			quote(strings.ToUpper(cur.Code)), quote(cur.Name), quote(cur.Symbol), rate.String())
	}
	b.WriteString("\n")
	for _, p := range c.Ports {
		code := strings.ToUpper(p.Code)
		fmt.Fprintf(&b, "INSERT INTO ports (code, name, country, kind, affiliation) VALUES (%s, %s, %s, %s, %s) ON CONFLICT (code) DO NOTHING;\n",
			quote(code), quote(p.Name), quote(code[:2]), quote(p.Kind), quote(p.Affiliation))
	}
	b.WriteString("\n")
	for _, pc := range c.Components {
		currency := pc.Currency
		if currency == "" {
			currency = "USD"
		}
		fmt.Fprintf(&b, "INSERT INTO price_components (id, affiliation, code, name, basis, taxable, default_currency, active)\n"+
			"    VALUES (%s, %s, %s, %s, %s, %t, %s, true) ON CONFLICT DO NOTHING;\n",
			quote(newID()), quote(pc.Affiliation), quote(pc.Code), quote(pc.Name), quote(pc.Basis), pc.Taxable, quote(currency))
	}
	b.WriteString("\nCOMMIT;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
