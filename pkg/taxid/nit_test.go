package taxid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNITCheckDigit(t *testing.T) {
	cases := map[string]byte{
		"800197268":   '4', // DIAN
		"860.034.313": '7',
		"900123456":   '8',
	}
	for base, want := range cases {
		got, err := NITCheckDigit(base)
		require.NoError(t, err, base)
		assert.Equal(t, string(want), string(got), base)
	}
	_, err := NITCheckDigit("abc")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("CO", "800197268-4"))
	assert.NoError(t, Validate("co", "900.123.456-8"))
	assert.Error(t, Validate("CO", "800197268-5"))

	// Sin dígito de verificación o de otro país: no se verifica.
	assert.NoError(t, Validate("CO", "800197268"))
	assert.NoError(t, Validate("CO", "DEMO-900100"))
	assert.NoError(t, Validate("US", "12-3456789"))
	assert.NoError(t, Validate("", "800197268-5"))
}
