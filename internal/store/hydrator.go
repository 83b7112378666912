package store

import (
	"context"
	"fmt"
	"maps"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/kubev2v/query-engine/internal/models"
	srvErrors "github.com/kubev2v/query-engine/pkg/errors"
	"github.com/kubev2v/query-engine/pkg/query"
	"github.com/kubev2v/query-engine/pkg/relation"
)

// selection is the query of one hydration level before relations are joined.
type selection struct {
	table   *query.Table
	where   sq.Sqlizer
	orderBy []string
	limit   uint64
	offset  uint64
}

type hydrator struct {
	db     QueryInterceptor
	logger *zap.SugaredLogger
}

func newHydrator(db QueryInterceptor) *hydrator {
	return &hydrator{
		db:     db,
		logger: zap.S().Named("hydrator"),
	}
}

// load runs one level: requested one-to-one relations are joined into sel,
// then every requested to-many relation is batch-fetched and attached.
func (h *hydrator) load(ctx context.Context, sel selection, graph relation.Graph, paths relation.Paths) ([]models.Row, error) {
	table := sel.table
	alias := table.Name()

	builder := sq.Select(table.Select(alias, "")...).From(table.From(alias))

	var joined []string
	for _, name := range paths.Names() {
		d, ok := graph[name]
		if !ok || d.Kind != relation.OneToOne {
			continue
		}
		key := d.Key(name)
		builder = builder.
			Columns(d.Table.Select(key, key)...).
			LeftJoin(fmt.Sprintf("%s ON %s = %s",
				d.Table.From(key),
				table.Ref(alias, d.SourceField(name, table)),
				d.Table.Ref(key, d.On),
			))
		joined = append(joined, name)
	}

	if sel.where != nil {
		builder = builder.Where(sel.where)
	}
	if len(sel.orderBy) > 0 {
		builder = builder.OrderBy(sel.orderBy...)
	}
	if sel.limit > 0 {
		builder = builder.Limit(sel.limit)
	}
	if sel.offset > 0 {
		builder = builder.Offset(sel.offset)
	}

	rows, err := queryRows(ctx, h.db, builder)
	if err != nil {
		return nil, err
	}

	for _, name := range joined {
		d := graph[name]
		rows = nest(rows, d.Key(name), d.On)

		if len(paths[name]) == 0 {
			continue
		}
		if rows, err = h.hydrateNested(ctx, rows, d.Key(name), d, paths[name]); err != nil {
			return nil, err
		}
	}

	return h.attach(ctx, rows, table, graph, paths, true)
}

// attach hydrates the requested relations of graph onto rows that are
// already materialized. When joined is set, one-to-one relations were
// handled by the level's join and are skipped.
func (h *hydrator) attach(ctx context.Context, rows []models.Row, parent *query.Table, graph relation.Graph, paths relation.Paths, joined bool) ([]models.Row, error) {
	var err error
	for _, name := range paths.Names() {
		d, ok := graph[name]
		if !ok {
			continue
		}

		switch d.Kind {
		case relation.OneToOne:
			if joined {
				continue
			}
			rows, err = h.attachOne(ctx, rows, parent, name, d, paths[name])
		case relation.OneToMany, relation.ManyToMany, relation.LatestInserted:
			rows, err = h.attachMany(ctx, rows, parent, name, d, paths[name])
		default:
			err = srvErrors.NewInvalidRelationError(name, fmt.Sprintf("unknown relation kind %d", d.Kind))
		}
		if err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// attachOne batch-fetches a one-to-one relation for materialized rows.
func (h *hydrator) attachOne(ctx context.Context, rows []models.Row, parent *query.Table, name string, d relation.Descriptor, paths relation.Paths) ([]models.Row, error) {
	src := d.SourceField(name, parent)
	keys := distinctValues(rows, src)

	var index map[string][]models.Row
	if len(keys) > 0 {
		h.logger.Debugw("batch", "relation", name, "kind", d.Kind, "parents", len(rows), "keys", len(keys))

		children, err := h.load(ctx, selection{
			table: d.Table,
			where: sq.Eq{d.Table.Ref(d.Table.Name(), d.On): keys},
		}, d.Children, paths)
		if err != nil {
			return nil, err
		}
		index = groupBy(children, d.On)
	}

	key := d.Key(name)
	out := make([]models.Row, 0, len(rows))
	for _, r := range rows {
		c := maps.Clone(r)
		c[key] = nil
		if v := r[src]; v != nil {
			if group := index[keyOf(v)]; len(group) > 0 {
				c[key] = group[0]
			}
		}
		out = append(out, c)
	}
	return out, nil
}

// attachMany batch-fetches a one-to-many, many-to-many or latest-inserted
// relation with a single query for all rows.
func (h *hydrator) attachMany(ctx context.Context, rows []models.Row, parent *query.Table, name string, d relation.Descriptor, paths relation.Paths) ([]models.Row, error) {
	var hopKey string
	if d.Kind == relation.ManyToMany {
		hopName, hop, ok := d.Hop()
		if !ok {
			return nil, srvErrors.NewInvalidRelationError(name, "many-to-many relation must declare exactly one one-to-one child")
		}
		hopKey = hop.Key(hopName)
		paths = paths.With(hopName)
	}

	src := d.SourceField(name, parent)
	keys := distinctValues(rows, src)

	var groups map[string][]models.Row
	if len(keys) > 0 {
		h.logger.Debugw("batch", "relation", name, "kind", d.Kind, "parents", len(rows), "keys", len(keys))

		children, err := h.load(ctx, selection{
			table:   d.Table,
			where:   sq.Eq{d.Table.Ref(d.Table.Name(), d.On): keys},
			orderBy: childOrder(d),
		}, d.Children, paths)
		if err != nil {
			return nil, err
		}
		groups = groupBy(children, d.On)
	}

	key := d.Key(name)
	out := make([]models.Row, 0, len(rows))
	for _, r := range rows {
		var group []models.Row
		if v := r[src]; v != nil {
			group = groups[keyOf(v)]
		}

		c := maps.Clone(r)
		switch d.Kind {
		case relation.LatestInserted:
			c[key] = nil
			if len(group) > 0 {
				c[key] = group[0]
			}
		case relation.ManyToMany:
			related := make([]models.Row, 0, len(group))
			for _, jr := range group {
				if obj, ok := jr[hopKey].(models.Row); ok && obj != nil {
					related = append(related, obj)
				}
			}
			c[key] = related
		default:
			children := make([]models.Row, 0, len(group))
			c[key] = append(children, group...)
		}
		out = append(out, c)
	}
	return out, nil
}

// hydrateNested hydrates the children of a joined one-to-one relation on the
// nested objects found under key.
func (h *hydrator) hydrateNested(ctx context.Context, rows []models.Row, key string, d relation.Descriptor, paths relation.Paths) ([]models.Row, error) {
	var (
		objs    []models.Row
		parents []int
	)
	for i, r := range rows {
		if obj, ok := r[key].(models.Row); ok && obj != nil {
			objs = append(objs, obj)
			parents = append(parents, i)
		}
	}
	if len(objs) == 0 {
		return rows, nil
	}

	hydrated, err := h.attach(ctx, objs, d.Table, d.Children, paths, false)
	if err != nil {
		return nil, err
	}
	for i, idx := range parents {
		rows[idx][key] = hydrated[i]
	}
	return rows, nil
}

// nest moves the "key.field" columns of a joined relation into a nested Row
// under key. The relation is null when the join matched nothing.
func nest(rows []models.Row, key, on string) []models.Row {
	prefix := key + "."
	for _, r := range rows {
		obj := make(models.Row)
		for col, v := range r {
			if field, ok := strings.CutPrefix(col, prefix); ok {
				obj[field] = v
				delete(r, col)
			}
		}
		if obj[on] == nil {
			r[key] = nil
			continue
		}
		r[key] = obj
	}
	return rows
}

func childOrder(d relation.Descriptor) []string {
	t := d.Table
	alias := t.Name()
	pk := query.Sort{Field: t.PrimaryKey()}

	switch {
	case d.Kind == relation.LatestInserted:
		return []string{
			query.Sort{Field: t.CreatedAt(), Desc: true}.OrderBy(t, alias),
			query.Sort{Field: t.PrimaryKey(), Desc: true}.OrderBy(t, alias),
		}
	case d.OrderBy != "":
		order := []string{query.Sort{Field: d.OrderBy, Desc: d.Desc}.OrderBy(t, alias)}
		if d.OrderBy != t.PrimaryKey() {
			order = append(order, pk.OrderBy(t, alias))
		}
		return order
	case t.Has(t.PrimaryKey()):
		return []string{pk.OrderBy(t, alias)}
	default:
		return nil
	}
}

// orderWithTieBreaker appends the primary key to s so pages are stable.
func orderWithTieBreaker(s query.Sort, table *query.Table) []string {
	alias := table.Name()
	order := []string{s.OrderBy(table, alias)}
	if s.Field != table.PrimaryKey() && table.Has(table.PrimaryKey()) {
		order = append(order, query.Sort{Field: table.PrimaryKey()}.OrderBy(table, alias))
	}
	return order
}
