package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kubev2v/query-engine/api/v1"
	"github.com/kubev2v/query-engine/internal/models"
	"github.com/kubev2v/query-engine/internal/services"
)

type RecordService interface {
	List(ctx context.Context, table string, params services.RecordListParams) (*models.Page, error)
	Get(ctx context.Context, table, field, value, include string) (models.Row, error)
	Tables() []string
}

type Handler struct {
	recordSrv RecordService
}

func New(recordSrv RecordService) *Handler {
	return &Handler{
		recordSrv: recordSrv,
	}
}

// RegisterHandlers binds the query parameters of every route and registers
// it on router.
func RegisterHandlers(router gin.IRouter, h *Handler) {
	router.GET("/tables", h.ListTables)
	router.GET("/records/:table", func(c *gin.Context) {
		var params v1.ListRecordsParams
		if err := c.ShouldBindQuery(&params); err != nil {
			c.JSON(http.StatusBadRequest, v1.Error{Error: err.Error()})
			return
		}
		h.ListRecords(c, c.Param("table"), params)
	})
	router.GET("/records/:table/:value", func(c *gin.Context) {
		var params v1.GetRecordParams
		if err := c.ShouldBindQuery(&params); err != nil {
			c.JSON(http.StatusBadRequest, v1.Error{Error: err.Error()})
			return
		}
		h.GetRecord(c, c.Param("table"), c.Param("value"), params)
	})
}
