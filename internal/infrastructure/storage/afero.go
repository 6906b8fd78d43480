// Package storage guarda los documentos adjuntos sobre un sistema de archivos afero
// (disco en producción, memoria en pruebas).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/jhoicas/Freight-api/internal/application/document"
	"github.com/jhoicas/Freight-api/internal/domain"
)

var _ document.Storage = (*FileStorage)(nil)

// FileStorage almacenamiento de objetos por clave sobre afero.
type FileStorage struct {
	fs afero.Fs
}

// NewDisk crea el almacenamiento bajo root (se crea si no existe).
func NewDisk(root string) (*FileStorage, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("storage: crear %s: %w", root, err)
	}
	return New(afero.NewBasePathFs(afero.NewOsFs(), root)), nil
}

// New envuelve un afero.Fs arbitrario.
func New(fsys afero.Fs) *FileStorage {
	return &FileStorage{fs: fsys}
}

// Put implementa document.Storage. Escribe en un temporal y renombra al terminar.
func (s *FileStorage) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	p, err := cleanKey(key)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.fs.MkdirAll(path.Dir(p), 0o750); err != nil {
		return 0, fmt.Errorf("storage: mkdir: %w", err)
	}
	tmp := p + ".part"
	f, err := s.fs.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("storage: create: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove(tmp)
		return 0, fmt.Errorf("storage: write %s: %w", key, err)
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		_ = s.fs.Remove(tmp)
		return 0, fmt.Errorf("storage: rename: %w", err)
	}
	return n, nil
}

// Open implementa document.Storage. Una clave inexistente devuelve domain.ErrNotFound.
func (s *FileStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	p, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fs.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: archivo %s", domain.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	return f, nil
}

// Delete implementa document.Storage. Borrar una clave inexistente no es error.
func (s *FileStorage) Delete(ctx context.Context, key string) error {
	p, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete: %w", err)
	}
	return nil
}

// cleanKey normaliza la clave y rechaza rutas que escapen de la raíz.
func cleanKey(key string) (string, error) {
	k := filepath.ToSlash(strings.TrimSpace(key))
	if k == "" || strings.HasPrefix(k, "/") {
		return "", fmt.Errorf("%w: clave de almacenamiento %q", domain.ErrInvalidInput, key)
	}
	clean := path.Clean(k)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: clave de almacenamiento %q", domain.ErrInvalidInput, key)
	}
	return "/" + clean, nil
}
