// Package library looks reference spectra up by library id in a JSON spectral
// database or in a SQLite library produced by convert-db.
package library

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/ChrisMcGann/msmirror/pkg/core"
	"github.com/ChrisMcGann/msmirror/pkg/source"
)

// ErrNotFound is returned when a library id is not in the database.
var ErrNotFound = errors.New("library entry not found")

// Library resolves library ids to spectra.
type Library interface {
	Lookup(id string) (*core.Spectrum, error)
	Close() error
}

// IsSQLite reports whether path names a SQLite library by its extension.
func IsSQLite(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Open opens the library at path, choosing the backend by file extension.
func Open(ctx context.Context, src *source.Source, path string) (Library, error) {
	if IsSQLite(path) {
		return OpenSQLite(path)
	}
	if src == nil {
		src = source.New()
	}
	data, err := src.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	return ParseJSON(data)
}
