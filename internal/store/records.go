package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/query-engine/internal/models"
	srvErrors "github.com/kubev2v/query-engine/pkg/errors"
	"github.com/kubev2v/query-engine/pkg/filter"
	"github.com/kubev2v/query-engine/pkg/query"
	"github.com/kubev2v/query-engine/pkg/relation"
)

// maxOffset is the largest row offset a page query is issued with.
const maxOffset = 1<<62 - 1

// PageRequest holds the inputs of a paginated fetch.
type PageRequest struct {
	// Search is matched as a partial, case-insensitive string against every
	// field of SearchFields (comma-separated). The matches are OR-ed.
	Search       string
	SearchFields string
	// Filter uses the grammar of the filter package.
	Filter string
	// SortBy defaults to the primary key and Order to "asc".
	SortBy string
	Order  string
	// Page starts at 1. Page and Limit below 1 are raised to 1.
	Page  int
	Limit int
	// Include lists the relation paths to hydrate.
	Include relation.Paths
}

// RecordStore runs paginated fetches, lookups and relation hydration over
// any table described by a query.Table.
type RecordStore struct {
	db       QueryInterceptor
	hydrator *hydrator
}

func NewRecordStore(db QueryInterceptor) *RecordStore {
	return &RecordStore{
		db:       db,
		hydrator: newHydrator(db),
	}
}

// FetchPage returns one page of table rows matching the request, with the
// requested relations of graph hydrated, and the total number of matches.
//
// Client input errors are returned before any query runs. The page and the
// count are two queries outside a transaction, see the package doc.
func (s *RecordStore) FetchPage(ctx context.Context, table *query.Table, graph relation.Graph, req PageRequest) (*models.Page, error) {
	where := buildWhere(table, req)

	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = table.PrimaryKey()
	}
	order := req.Order
	if order == "" {
		order = query.Asc
	}
	sort, err := query.ResolveSort(sortBy, order, table)
	if err != nil {
		return nil, err
	}

	if len(req.Include) > 0 {
		if err := graph.Validate(table); err != nil {
			return nil, err
		}
	}

	page := max(req.Page, 1)
	limit := max(req.Limit, 1)

	rows := []models.Row{}
	// Pages starting past maxOffset hold no rows. Only the count runs.
	if page <= maxOffset/limit+1 {
		rows, err = s.hydrator.load(ctx, selection{
			table:   table,
			where:   where,
			orderBy: orderWithTieBreaker(sort, table),
			limit:   uint64(limit),
			offset:  uint64((page - 1) * limit),
		}, graph, req.Include)
		if err != nil {
			return nil, err
		}
	}

	countBuilder := sq.Select("COUNT(*)").From(table.From(table.Name()))
	if where != nil {
		countBuilder = countBuilder.Where(where)
	}
	total, err := countRows(ctx, s.db, countBuilder)
	if err != nil {
		return nil, err
	}

	result := models.NewPage(rows, total, page, limit)
	return &result, nil
}

// LookupOne returns the first row of table whose field equals value. An
// empty field selects the primary key. String values are coerced to the
// column type. A ResourceNotFoundError is returned when nothing matches.
func (s *RecordStore) LookupOne(ctx context.Context, table *query.Table, field string, value any) (models.Row, error) {
	if field == "" {
		field = table.PrimaryKey()
	}
	field = filter.NormalizeField(field)
	if !table.Has(field) {
		return nil, srvErrors.NewUnknownFieldError(table.Name(), field)
	}

	if raw, ok := value.(string); ok {
		value = table.Coerce(field, raw)
	}

	alias := table.Name()
	builder := sq.Select(table.Select(alias, "")...).
		From(table.From(alias)).
		Where(sq.Eq{table.Ref(alias, field): value}).
		Limit(1)

	rows, err := queryRows(ctx, s.db, builder)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, srvErrors.NewResourceNotFoundError(table.Name(), fmt.Sprint(value))
	}
	return rows[0], nil
}

// HydrateRelations attaches the requested relations of graph to rows of
// table. One-to-one relations are batch-fetched since the rows are already
// materialized. The input rows are not modified.
func (s *RecordStore) HydrateRelations(ctx context.Context, rows []models.Row, table *query.Table, graph relation.Graph, paths relation.Paths) ([]models.Row, error) {
	if len(paths) == 0 || len(rows) == 0 {
		return rows, nil
	}
	if err := graph.Validate(table); err != nil {
		return nil, err
	}
	return s.hydrator.attach(ctx, rows, table, graph, paths, false)
}

// buildWhere combines the filter predicates (AND) with the search
// predicates (OR). It returns nil when neither narrows the query.
func buildWhere(table *query.Table, req PageRequest) sq.Sqlizer {
	var where sq.And

	if f := query.CompileFilter(filter.Parse(req.Filter), table); f != nil {
		where = append(where, f)
	}
	if search := query.CompileSearch(req.Search, req.SearchFields, table); len(search) > 0 {
		where = append(where, sq.Or(search))
	}

	if len(where) == 0 {
		return nil
	}
	return where
}
