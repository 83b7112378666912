package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/query-engine/api/v1"
	"github.com/kubev2v/query-engine/internal/services"
	srvErrors "github.com/kubev2v/query-engine/pkg/errors"
)

// ListTables returns the names of the tables that can be queried
// (GET /tables)
func (h *Handler) ListTables(c *gin.Context) {
	c.JSON(http.StatusOK, v1.TableList{Tables: h.recordSrv.Tables()})
}

// ListRecords returns a page of records with filtering, search, sorting and
// relation hydration
// (GET /records/{table})
func (h *Handler) ListRecords(c *gin.Context, table string, params v1.ListRecordsParams) {
	svcParams := services.RecordListParams{
		Search:       value(params.Search),
		SearchFields: value(params.SearchFields),
		Filter:       value(params.Filter),
		SortBy:       value(params.SortBy),
		Order:        value(params.Order),
		Include:      value(params.Include),
		Page:         1,
	}
	if params.Page != nil {
		svcParams.Page = *params.Page
	}
	if params.Limit != nil {
		svcParams.Limit = *params.Limit
	}

	page, err := h.recordSrv.List(c.Request.Context(), table, svcParams)
	if err != nil {
		writeError(c, err, "failed to list records", "table", table)
		return
	}

	c.JSON(http.StatusOK, v1.NewRecordPage(*page))
}

// GetRecord returns the first record whose field matches the path value
// (GET /records/{table}/{value})
func (h *Handler) GetRecord(c *gin.Context, table, val string, params v1.GetRecordParams) {
	row, err := h.recordSrv.Get(c.Request.Context(), table, value(params.Field), val, value(params.Include))
	if err != nil {
		writeError(c, err, "failed to get record", "table", table, "value", val)
		return
	}

	c.JSON(http.StatusOK, v1.NewRecord(row))
}

// writeError maps service errors to HTTP statuses. Only unexpected errors
// are logged; their details are not sent to the client.
func writeError(c *gin.Context, err error, msg string, keysAndValues ...any) {
	switch {
	case srvErrors.IsClientInputError(err):
		c.JSON(http.StatusBadRequest, v1.Error{Error: err.Error()})
	case srvErrors.IsResourceNotFoundError(err):
		c.JSON(http.StatusNotFound, v1.Error{Error: err.Error()})
	default:
		zap.S().Named("records_handler").Errorw(msg, append(keysAndValues, "error", err)...)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: msg})
	}
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
