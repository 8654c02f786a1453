package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"qfilter/internal/core/apperror"
	appctx "qfilter/internal/core/context"
	"qfilter/pkg/filters"
	"qfilter/pkg/filters/query"
	"qfilter/pkg/filters/query/memq"
)

// Source serves the collection of a resource and realises narrowed ones.
type Source interface {
	Collection() query.Collection
	Fetch(ctx context.Context, coll query.Collection) (any, error)
}

// MemorySource is a Source over fixed in-memory rows.
type MemorySource struct {
	rows []memq.Row
}

func NewMemorySource(rows []memq.Row) *MemorySource {
	return &MemorySource{rows: rows}
}

func (s *MemorySource) Collection() query.Collection {
	return memq.New(s.rows...)
}

func (s *MemorySource) Fetch(_ context.Context, coll query.Collection) (any, error) {
	return memq.Rows(coll)
}

// ListResponse is the body of a filtered list.
type ListResponse struct {
	Items   any                `json:"items"`
	Filters appctx.CleanedArgs `json:"filters"`
}

// FiltersResponse documents the query parameters of a list endpoint.
type FiltersResponse struct {
	Parameters []filters.Parameter   `json:"parameters"`
	Fields     []filters.SchemaField `json:"fields"`
}

// ListHandler serves a filterable, read-only resource.
type ListHandler struct {
	*BaseHandler
	source Source
	schema *filters.Definition
}

// NewListHandler creates a list handler filtering source through schema.
func NewListHandler(base *BaseHandler, source Source, schema *filters.Definition) *ListHandler {
	return &ListHandler{BaseHandler: base, source: source, schema: schema}
}

// List returns the rows matching the query string.
// GET /api/v1/<resource>
func (h *ListHandler) List(c *gin.Context) {
	coll, ok := h.Filter(c, h.schema, h.source.Collection())
	if !ok {
		return
	}

	items, err := h.source.Fetch(c.Request.Context(), coll)
	if err != nil {
		h.Error(c, apperror.From(err))
		return
	}

	h.OK(c, ListResponse{
		Items:   items,
		Filters: appctx.GetCleanedArgs(c.Request.Context()),
	})
}

// Filters describes the accepted query parameters.
// GET /api/v1/<resource>/filters
func (h *ListHandler) Filters(c *gin.Context) {
	h.OK(c, FiltersResponse{
		Parameters: h.schema.OperationParameters(),
		Fields:     h.schema.SchemaFields(),
	})
}
