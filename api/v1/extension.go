package v1

import (
	"github.com/kubev2v/query-engine/internal/models"
)

func NewRecordPage(p models.Page) RecordPage {
	data := make([]Record, 0, len(p.Data))
	for _, r := range p.Data {
		data = append(data, NewRecord(r))
	}

	return RecordPage{
		Data:      data,
		Limit:     p.Limit,
		Page:      p.Page,
		Total:     p.Total,
		TotalPage: p.TotalPage,
	}
}

// NewRecord converts a row and every relation nested in it.
func NewRecord(r models.Row) Record {
	if r == nil {
		return nil
	}

	rec := make(Record, len(r))
	for k, v := range r {
		rec[k] = fromValue(v)
	}
	return rec
}

func fromValue(v any) any {
	switch val := v.(type) {
	case models.Row:
		if val == nil {
			return nil
		}
		return NewRecord(val)
	case []models.Row:
		records := make([]Record, 0, len(val))
		for _, r := range val {
			records = append(records, NewRecord(r))
		}
		return records
	case []byte:
		return string(val)
	default:
		return v
	}
}
