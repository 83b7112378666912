package models

import "math"

// Row is one materialized record keyed by field name. Hydrated relations are
// attached as Row, []Row or nil values.
type Row map[string]any

// Page is the envelope returned by a paginated fetch.
type Page struct {
	Data      []Row `json:"data"`
	Total     int   `json:"total"`
	TotalPage int   `json:"totalPage"`
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
}

// NewPage builds the envelope, computing the page count from total and limit.
func NewPage(data []Row, total, page, limit int) Page {
	if data == nil {
		data = []Row{}
	}
	totalPage := 0
	if limit > 0 {
		totalPage = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Page{
		Data:      data,
		Total:     total,
		TotalPage: totalPage,
		Page:      page,
		Limit:     limit,
	}
}
