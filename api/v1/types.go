package v1

// Record is one row of a table with its hydrated relations. Relations are
// nested as Record, []Record or null.
type Record map[string]interface{}

// RecordPage defines model for RecordPage.
type RecordPage struct {
	Data      []Record `json:"data"`
	Limit     int      `json:"limit"`
	Page      int      `json:"page"`
	Total     int      `json:"total"`
	TotalPage int      `json:"totalPage"`
}

// TableList defines model for TableList.
type TableList struct {
	Tables []string `json:"tables"`
}

// Error defines model for Error.
type Error struct {
	Error string `json:"error"`
}

// ListRecordsParams defines parameters for ListRecords.
type ListRecordsParams struct {
	// Search is matched case-insensitively against SearchFields.
	Search *string `form:"search,omitempty" json:"search,omitempty"`

	// SearchFields is a comma-separated list of fields.
	SearchFields *string `form:"searchFields,omitempty" json:"searchFields,omitempty"`

	// Filter uses the field:values:operator grammar.
	Filter *string `form:"filter,omitempty" json:"filter,omitempty"`

	SortBy *string `form:"sortBy,omitempty" json:"sortBy,omitempty"`
	Order  *string `form:"order,omitempty" json:"order,omitempty"`
	Page   *int    `form:"page,omitempty" json:"page,omitempty"`
	Limit  *int    `form:"limit,omitempty" json:"limit,omitempty"`

	// Include is a comma-separated list of dotted relation paths.
	Include *string `form:"include,omitempty" json:"include,omitempty"`
}

// GetRecordParams defines parameters for GetRecord.
type GetRecordParams struct {
	// Field matched against the path value. Defaults to the primary key.
	Field   *string `form:"field,omitempty" json:"field,omitempty"`
	Include *string `form:"include,omitempty" json:"include,omitempty"`
}
