package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"

	"ai-automation/backend/internal/repository"
	"ai-automation/backend/internal/services"
)

// IngestRequest is the body of an ingest call.
type IngestRequest struct {
	Content        string         `json:"content"`
	CollectionName string         `json:"collection_name"`
	Metadata       map[string]any `json:"metadata"`
}

// IngestResponse reports where a document was stored.
type IngestResponse struct {
	Success    bool   `json:"success"`
	DocumentID string `json:"document_id"`
	Collection string `json:"collection"`
}

// QueryResponse lists matching documents.
type QueryResponse struct {
	Query   string                `json:"query"`
	Results []repository.Document `json:"results"`
}

// IngestContent stores content in a keyword collection
// (POST /api/v1/embeddings/ingest)
func (s *Server) IngestContent(c echo.Context) error {
	var req IngestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if req.CollectionName == "" {
		req.CollectionName = services.DefaultCollection
	}

	id, err := s.Memory.Remember(c.Request().Context(), req.CollectionName, req.Content, req.Metadata)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, IngestResponse{Success: true, DocumentID: id, Collection: req.CollectionName})
}

// QueryContent searches a collection by keyword
// (GET /api/v1/embeddings/query?query=...&collection_name=...&n_results=...)
func (s *Server) QueryContent(c echo.Context) error {
	var (
		query      string
		collection = services.DefaultCollection
		limit      = services.DefaultQueryLimit
	)
	params := c.QueryParams()
	if err := runtime.BindQueryParameter("form", true, true, "query", params, &query); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter query: "+err.Error())
	}
	if err := runtime.BindQueryParameter("form", true, false, "collection_name", params, &collection); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter collection_name: "+err.Error())
	}
	if err := runtime.BindQueryParameter("form", true, false, "n_results", params, &limit); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter n_results: "+err.Error())
	}

	docs, err := s.Memory.Recall(c.Request().Context(), collection, query, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, QueryResponse{Query: query, Results: docs})
}

// DeleteCollection drops a keyword collection
// (DELETE /api/v1/embeddings/collection/{collection_name})
func (s *Server) DeleteCollection(c echo.Context) error {
	var collection string
	err := runtime.BindStyledParameterWithOptions("simple", "collection_name", c.Param("collection_name"), &collection,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter collection_name: "+err.Error())
	}

	if err := s.Memory.Forget(c.Request().Context(), collection); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "deleted": collection})
}
