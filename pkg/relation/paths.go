package relation

import (
	"maps"
	"slices"
	"strings"
)

// Paths is the tree of requested relation paths: each key is a relation
// name and its value holds the paths requested beneath it.
type Paths map[string]Paths

// ParsePaths parses a comma-separated list of dotted relation paths such as
// "adopter,surveys.user". Empty segments are skipped.
func ParsePaths(src string) Paths {
	return NewPaths(strings.Split(src, ",")...)
}

// NewPaths builds the tree from dotted relation paths.
func NewPaths(paths ...string) Paths {
	root := Paths{}
	for _, p := range paths {
		node := root
		for _, segment := range strings.Split(strings.TrimSpace(p), ".") {
			segment = strings.TrimSpace(segment)
			if segment == "" {
				break
			}
			next, ok := node[segment]
			if !ok {
				next = Paths{}
				node[segment] = next
			}
			node = next
		}
	}
	return root
}

// Names returns the requested relation names in a stable order.
func (p Paths) Names() []string {
	return slices.Sorted(maps.Keys(p))
}

// Has reports whether name is requested.
func (p Paths) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// With returns a copy of p that also requests name.
func (p Paths) With(name string) Paths {
	out := maps.Clone(p)
	if out == nil {
		out = Paths{}
	}
	if _, ok := out[name]; !ok {
		out[name] = Paths{}
	}
	return out
}
