package relation

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/go-multierror"

	srvErrors "github.com/kubev2v/query-engine/pkg/errors"
	"github.com/kubev2v/query-engine/pkg/query"
)

// Kind tags how a related table is fetched and attached.
type Kind int

const (
	// OneToOne is joined inline and attached as a single object.
	OneToOne Kind = iota + 1
	// OneToMany is batch-fetched by parent key and attached as an array.
	OneToMany
	// ManyToMany is fetched like OneToMany through a join table, then
	// collapsed onto the objects of its single one-to-one hop.
	ManyToMany
	// LatestInserted is fetched like OneToMany and reduced to the most
	// recently created row per parent, or null.
	LatestInserted
)

func (k Kind) String() string {
	switch k {
	case OneToOne:
		return "oneToOne"
	case OneToMany:
		return "oneToMany"
	case ManyToMany:
		return "manyToMany"
	case LatestInserted:
		return "latestInserted"
	default:
		return "unknown"
	}
}

// Descriptor describes how Table relates to the parent table of the graph
// holding it.
type Descriptor struct {
	Kind  Kind
	Table *query.Table
	// On is the field of Table matched against the parent.
	On string
	// From overrides the parent field. One-to-one relations default to the
	// relation name, the other kinds to the parent primary key.
	From string
	// Alias overrides the key the relation is attached under.
	Alias string
	// OrderBy optionally orders to-many children. Ignored by LatestInserted,
	// which always orders by creation time, newest first.
	OrderBy string
	Desc    bool
	// Children is the graph nested under Table.
	Children Graph
}

// Graph maps a relation name to its descriptor. It is authored once and
// read-only afterwards.
type Graph map[string]Descriptor

// Key is the row key the relation named name is attached under.
func (d Descriptor) Key(name string) string {
	if d.Alias != "" {
		return d.Alias
	}
	return name
}

// SourceField is the parent field matched against On.
func (d Descriptor) SourceField(name string, parent *query.Table) string {
	if d.From != "" {
		return d.From
	}
	if d.Kind == OneToOne {
		return name
	}
	return parent.PrimaryKey()
}

// Hop returns the single one-to-one child of a many-to-many relation.
func (d Descriptor) Hop() (string, Descriptor, bool) {
	var (
		hopName string
		hop     Descriptor
		found   int
	)
	for name, child := range d.Children {
		if child.Kind == OneToOne {
			hopName, hop = name, child
			found++
		}
	}
	if found != 1 {
		return "", Descriptor{}, false
	}
	return hopName, hop, true
}

// Names returns the relation names of the graph in a stable order.
func (g Graph) Names() []string {
	return slices.Sorted(maps.Keys(g))
}

// Validate checks every descriptor of the graph against parent, recursing
// into children with the descriptor's table as the new parent.
func (g Graph) Validate(parent *query.Table) error {
	var result *multierror.Error
	for _, name := range g.Names() {
		if err := g[name].validate(name, parent); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (d Descriptor) validate(name string, parent *query.Table) error {
	if d.Table == nil {
		return srvErrors.NewInvalidRelationError(name, "missing target table")
	}

	var result *multierror.Error
	invalid := func(format string, args ...any) {
		result = multierror.Append(result, srvErrors.NewInvalidRelationError(name, fmt.Sprintf(format, args...)))
	}

	switch d.Kind {
	case OneToOne, OneToMany, LatestInserted:
	case ManyToMany:
		if _, _, ok := d.Hop(); !ok {
			invalid("many-to-many relation must declare exactly one one-to-one child")
		}
	default:
		invalid("unknown relation kind %d", d.Kind)
	}

	if d.Kind == OneToOne && d.Key(name) == parent.Name() {
		invalid("key %q collides with the parent table alias", d.Key(name))
	}
	if !d.Table.Has(d.On) {
		invalid("on field %q is not a column of %s", d.On, d.Table.Name())
	}
	if src := d.SourceField(name, parent); !parent.Has(src) {
		invalid("source field %q is not a column of %s", src, parent.Name())
	}
	if d.Kind == LatestInserted && !d.Table.Has(d.Table.CreatedAt()) {
		invalid("%s has no creation field %q", d.Table.Name(), d.Table.CreatedAt())
	}
	if d.OrderBy != "" && !d.Table.Has(d.OrderBy) {
		invalid("order field %q is not a column of %s", d.OrderBy, d.Table.Name())
	}

	if err := d.Children.Validate(d.Table); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
