package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	in := Identity{UserID: "u-1", CompanyID: "c-1", Role: "customer", CustomerID: "cu-9"}
	tok, err := Generate("secreto", in, "freight-api", 5)
	require.NoError(t, err)

	out, err := Parse("secreto", tok)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := Generate("secreto", Identity{UserID: "u-1", CompanyID: "c-1", Role: "admin"}, "freight-api", 5)
	require.NoError(t, err)

	_, err = Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate("secreto", Identity{UserID: "u-1"}, "freight-api", -1)
	require.NoError(t, err)

	_, err = Parse("secreto", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", Identity{}, "x", 5)
	assert.Error(t, err)
}
