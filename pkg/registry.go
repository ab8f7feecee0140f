package output

import (
	"sort"

	"golang.org/x/exp/maps"
)

// Registry maps an output format name to the constructor of its writer.
// The driver owns one registry and resolves the configured format once at
// startup; tests can build isolated registries.
type Registry map[string]func() Writer

// NewRegistry returns a registry with the built-in formats registered.
func NewRegistry() Registry {
	r := Registry{}
	r.Register("hdf5", func() Writer { return NewHdf5Writer() })
	r.Register("txt", func() Writer { return NewTxtWriter() })
	return r
}

// Register adds a constructor, replacing any previous one for the same name.
func (r Registry) Register(format string, constructor func() Writer) {
	r[format] = constructor
}

// Resolve returns a fresh writer for the format, or *ErrUnknownFormat listing
// what is registered. An unknown format is a fatal configuration error for
// the caller; there is no default writer.
func (r Registry) Resolve(format string) (Writer, error) {
	constructor, ok := r[format]
	if !ok {
		known := maps.Keys(r)
		sort.Strings(known)
		return nil, &ErrUnknownFormat{Format: format, Known: known}
	}
	return constructor(), nil
}
