package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
)

func TestParseCatalog(t *testing.T) {
	in := `
currencies:
  - { code: COP, name: Peso, symbol: "$", rate_to_usd: "4100.5" }
ports:
  - { code: COBUN, name: Buenaventura, kind: sea }
price_components:
  - { code: OFR, name: Flete, basis: per_container }
`
	cat, err := parseCatalog(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, cat.Currencies, 1)
	rate, err := cat.Currencies[0].rate()
	require.NoError(t, err)
	assert.Equal(t, "4100.5", rate.String())
	assert.Equal(t, entity.PortSea, cat.Ports[0].Kind)
	assert.Equal(t, entity.BasisPerContainer, cat.Components[0].Basis)
}

func TestParseCatalog_Invalido(t *testing.T) {
	in := `
currencies:
  - { code: PESO, rate_to_usd: "0" }
ports:
  - { code: CO, kind: river }
price_components:
  - { code: X, name: Y, basis: per_pallet }
`
	_, err := parseCatalog(strings.NewReader(in))
	require.Error(t, err)
	for _, want := range []string{"currencies[0]", "rate_to_usd", "LOCODE", "kind", "basis"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestParseCatalog_CampoDesconocido(t *testing.T) {
	_, err := parseCatalog(strings.NewReader("puertos: []\n"))
	assert.Error(t, err)
}

func TestReadLocodes_Latin1(t *testing.T) {
	csv := strings.Join([]string{
		`,"CO",,".COLOMBIA",,,,,,,,`,
		`,"CO","BUN","Buenaventura","Buenaventura","VAC","1-------","AI","0601",,"0353N 07704W",`,
		`,"CO","BOG","Bogotá","Bogota","DC","---4----","AI","0601",,"0436N 07405W",`,
		`,"CO","MDE","Medellín","Medellin","ANT","--3-----","AI","0601",,,`,
		`X,"CO","OLD","Borrado","Borrado",,"1-------","XX",,,,`,
	}, "\n")
	encoded, err := charmap.ISO8859_1.NewEncoder().String(csv)
	require.NoError(t, err)

	ports, err := readLocodes(bytes.NewBufferString(encoded), true)
	require.NoError(t, err)
	require.Len(t, ports, 2)
	assert.Equal(t, portDef{Code: "COBUN", Name: "Buenaventura", Kind: entity.PortSea}, ports[0])
	assert.Equal(t, "Bogotá", ports[1].Name)
	assert.Equal(t, entity.PortAir, ports[1].Kind)
}

func TestWriteSQL(t *testing.T) {
	cat := &catalog{
		Currencies: []currencyDef{{Code: "cop", Name: "Peso", Symbol: "$", Rate: "4100"}},
		Ports:      []portDef{{Code: "cobun", Name: "Buenaventura", Kind: entity.PortSea}},
		Components: []componentDef{{Code: "BL", Name: "Emisión d'BL", Basis: entity.BasisPerBL, Taxable: true}},
	}
	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, cat, func() string { return "00000000-0000-0000-0000-000000000001" }))
	sql := buf.String()

	assert.Contains(t, sql, "VALUES ('COP', 'Peso', '$', 4100, now())")
	assert.Contains(t, sql, "('COBUN', 'Buenaventura', 'CO', 'sea', '')")
	assert.Contains(t, sql, "'Emisión d''BL'")
	assert.Contains(t, sql, "true, 'USD', true")
	assert.True(t, strings.HasSuffix(sql, "COMMIT;\n"))
}
