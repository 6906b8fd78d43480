package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Freight-api/internal/domain"
)

func TestPutOpenDelete(t *testing.T) {
	mem := afero.NewMemMapFs()
	s := New(mem)
	ctx := context.Background()
	key := "co/shipment/s1/d1.pdf"

	n, err := s.Put(ctx, key, strings.NewReader("%PDF-1.7 contenido"))
	require.NoError(t, err)
	assert.Equal(t, int64(18), n)

	exists, err := afero.Exists(mem, "/co/shipment/s1/d1.pdf.part")
	require.NoError(t, err)
	assert.False(t, exists, "el temporal se renombra")

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 contenido", string(body))

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key), "borrar dos veces no falla")

	_, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCleanKey_RechazaEscapes(t *testing.T) {
	s := New(afero.NewMemMapFs())
	for _, k := range []string{"", "/etc/passwd", "../fuera.pdf", "co/../../x", ".."} {
		_, err := s.Put(context.Background(), k, strings.NewReader("x"))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, k)
	}
	p, err := cleanKey("co/./rfq//r1/d.pdf")
	require.NoError(t, err)
	assert.Equal(t, "/co/rfq/r1/d.pdf", p)
}

func TestNewDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDisk(dir + "/docs")
	require.NoError(t, err)
	_, err = s.Put(context.Background(), "co/invoice/i1/a.csv", strings.NewReader("a,b"))
	require.NoError(t, err)
	exists, err := afero.Exists(afero.NewOsFs(), dir+"/docs/co/invoice/i1/a.csv")
	require.NoError(t, err)
	assert.True(t, exists)
}
