package services

import (
	"context"

	"github.com/kubev2v/query-engine/internal/catalog"
	"github.com/kubev2v/query-engine/internal/config"
	"github.com/kubev2v/query-engine/internal/models"
	"github.com/kubev2v/query-engine/internal/store"
	"github.com/kubev2v/query-engine/pkg/relation"
)

type RecordService struct {
	store   *store.Store
	catalog *catalog.Catalog
	limits  config.Query
}

func NewRecordService(st *store.Store, cat *catalog.Catalog, limits config.Query) *RecordService {
	return &RecordService{
		store:   st,
		catalog: cat,
		limits:  limits,
	}
}

type RecordListParams struct {
	Search       string
	SearchFields string
	Filter       string
	SortBy       string
	Order        string
	Page         int
	Limit        int
	// Include is a comma-separated list of dotted relation paths.
	Include string
}

// List returns a page of the named table. A missing limit takes the
// configured default and a limit above the configured maximum is lowered
// to it. Without SearchFields the table's default search fields are used.
func (s *RecordService) List(ctx context.Context, table string, params RecordListParams) (*models.Page, error) {
	entry, err := s.catalog.Get(table)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = s.limits.DefaultLimit
	}
	limit = min(limit, s.limits.MaxLimit)

	searchFields := params.SearchFields
	if searchFields == "" {
		searchFields = entry.SearchFields
	}

	return s.store.Records().FetchPage(ctx, entry.Table, entry.Relations, store.PageRequest{
		Search:       params.Search,
		SearchFields: searchFields,
		Filter:       params.Filter,
		SortBy:       params.SortBy,
		Order:        params.Order,
		Page:         params.Page,
		Limit:        limit,
		Include:      relation.ParsePaths(params.Include),
	})
}

// Get returns the first row of the named table whose field equals value,
// with the requested relations hydrated. An empty field is the primary key.
func (s *RecordService) Get(ctx context.Context, table, field, value, include string) (models.Row, error) {
	entry, err := s.catalog.Get(table)
	if err != nil {
		return nil, err
	}

	row, err := s.store.Records().LookupOne(ctx, entry.Table, field, value)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.Records().HydrateRelations(ctx, []models.Row{row}, entry.Table, entry.Relations, relation.ParsePaths(include))
	if err != nil {
		return nil, err
	}
	return rows[0], nil
}

// Tables lists the names of the tables that can be queried.
func (s *RecordService) Tables() []string {
	return s.catalog.Names()
}
