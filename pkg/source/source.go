// Package source reads and writes input/output locations through viant/afs,
// so spectra, databases and result folders may be local paths or storage URLs.
package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

const fileScheme = "file://"

// Entry is a single listed object.
type Entry struct {
	Name  string
	Path  string // local path, or URL for remote storage
	IsDir bool
}

// Source wraps an afs service.
type Source struct {
	fs afs.Service
}

// New creates a Source backed by afs.New().
func New() *Source {
	return &Source{fs: afs.New()}
}

// Location turns a local path into an absolute file URL; URLs pass through.
func Location(p string) string {
	if isURL(p) {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		abs = p
	}
	return fileScheme + filepath.ToSlash(abs)
}

func isURL(p string) bool {
	return strings.Contains(p, "://")
}

// Read returns the full content at location.
func (s *Source) Read(ctx context.Context, location string) ([]byte, error) {
	data, err := s.fs.DownloadWithURL(ctx, Location(location))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	return data, nil
}

// Write stores data at location, creating parent folders as needed.
func (s *Source) Write(ctx context.Context, location string, data []byte) error {
	if err := s.fs.Upload(ctx, Location(location), 0644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", location, err)
	}
	return nil
}

// Exists reports whether location exists.
func (s *Source) Exists(ctx context.Context, location string) (bool, error) {
	return s.fs.Exists(ctx, Location(location))
}

// List returns the immediate children of location sorted by name. The listed
// folder itself is not part of the result.
func (s *Source) List(ctx context.Context, location string) ([]Entry, error) {
	base := Location(location)
	objects, err := s.fs.List(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", location, err)
	}

	basePath := path.Clean(url.Path(base))
	local := !isURL(location)

	var entries []Entry
	for _, obj := range objects {
		objPath := path.Clean(url.Path(obj.URL()))
		if objPath == basePath {
			continue
		}
		entry := Entry{
			Name:  obj.Name(),
			Path:  obj.URL(),
			IsDir: obj.IsDir(),
		}
		if local {
			entry.Path = filepath.FromSlash(objPath)
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Join appends elements to a local path or URL.
func Join(base string, elem ...string) string {
	if isURL(base) {
		return url.Join(base, elem...)
	}
	return filepath.Join(append([]string{base}, elem...)...)
}

// MkdirAll creates a local output folder; storage URLs need no folders.
func MkdirAll(location string) error {
	if isURL(location) {
		return nil
	}
	return os.MkdirAll(location, 0755)
}
