// Package match resolves precomputed feature-to-library matches laid out on
// disk as one folder per feature holding the matched library spectra.
package match

import (
	"context"
	"sort"
	"strings"

	"github.com/ChrisMcGann/msmirror/pkg/source"
)

// LibraryPrefix is the file name prefix of GNPS library spectra.
const LibraryPrefix = "CCMSLIB"

// Set maps a feature id to its candidate reference files.
type Set map[string][]string

// Features returns the feature ids in sorted order.
func (s Set) Features() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Pairs returns the number of feature/reference pairs.
func (s Set) Pairs() int {
	n := 0
	for _, refs := range s {
		n += len(refs)
	}
	return n
}

// Resolver lists result folders.
type Resolver struct {
	src    *source.Source
	Prefix string
}

// NewResolver creates a resolver matching files that start with LibraryPrefix.
func NewResolver(src *source.Source) *Resolver {
	if src == nil {
		src = source.New()
	}
	return &Resolver{src: src, Prefix: LibraryPrefix}
}

// Resolve treats every immediate subfolder of root as a feature id and collects
// the files in it whose name starts with the library prefix. Folders without
// such files are left out. Nothing below the first level is visited.
func (r *Resolver) Resolve(ctx context.Context, root string) (Set, error) {
	entries, err := r.src.List(ctx, root)
	if err != nil {
		return nil, err
	}

	set := make(Set)
	for _, entry := range entries {
		if !entry.IsDir {
			continue
		}

		files, err := r.src.List(ctx, entry.Path)
		if err != nil {
			return nil, err
		}

		var refs []string
		for _, f := range files {
			if f.IsDir || !strings.HasPrefix(f.Name, r.Prefix) {
				continue
			}
			refs = append(refs, f.Path)
		}
		if len(refs) > 0 {
			set[entry.Name] = refs
		}
	}

	return set, nil
}

// Resolve uses a default Resolver.
func Resolve(ctx context.Context, root string) (Set, error) {
	return NewResolver(nil).Resolve(ctx, root)
}
