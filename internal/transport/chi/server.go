// Package chi exposes the HTTP API.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/docbay-cloud/docbay/internal/domain"
	"github.com/docbay-cloud/docbay/internal/logger"
	documentuc "github.com/docbay-cloud/docbay/internal/usecase/document"
	healthuc "github.com/docbay-cloud/docbay/internal/usecase/health"
	searchuc "github.com/docbay-cloud/docbay/internal/usecase/search"
	suggestuc "github.com/docbay-cloud/docbay/internal/usecase/suggest"
)

// ownerHeader carries the authenticated owner id. Every document and
// search route is scoped to it.
const ownerHeader = "X-Owner-ID"

// errorCode is the machine-readable error identifier in error responses.
type errorCode string

// Error response codes.
const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeInvalidQuery     errorCode = "invalid_query"
	codeDocumentNotFound errorCode = "document_not_found"
	codeInternalError    errorCode = "internal_error"
)

// errorResponse is the error body of every non-2xx reply.
type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
	Reasons []string  `json:"reasons,omitempty"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes HTTP requests to the use case services.
type Server struct {
	documents     *documentuc.Service
	search        *searchuc.Service
	suggest       *suggestuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	documents *documentuc.Service,
	search *searchuc.Service,
	suggest *suggestuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		documents: documents,
		search:    search,
		suggest:   suggest,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		invalidQueryHandler,
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrInvalidDocument, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeDocumentNotFound),
	}
	return s
}

// Mount attaches all routes to the router.
func (s *Server) Mount(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.SearchDocuments)
		r.Get("/search/facets", s.SearchFacets)
		r.Get("/suggest", s.Suggest)
		r.Put("/documents/{id}", s.UpsertDocument)
		r.Get("/documents/{id}", s.GetDocument)
		r.Delete("/documents/{id}", s.DeleteDocument)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchDocuments handles POST /api/v1/search.
func (s *Server) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	var body searchRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := searchRequestFromBody(owner, body)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	resp, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	logger.FromContext(r.Context()).Debug("search executed",
		zap.Int("total", resp.Total),
		zap.Int64("timing_ms", resp.TimingMs),
	)
	writeJSON(w, http.StatusOK, resp)
}

// SearchFacets handles GET /api/v1/search/facets.
func (s *Server) SearchFacets(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	facets, err := s.search.FacetsOnly(r.Context(), r.URL.Query().Get("q"), owner)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, facetsResponse{Facets: facets})
}

// Suggest handles GET /api/v1/suggest.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	values, err := s.suggest.Suggest(
		r.Context(), owner,
		q.Get("dimension"), q.Get("prefix"), intParam(q.Get("limit")),
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestResponse{Suggestions: values})
}

// UpsertDocument handles PUT /api/v1/documents/{id}.
func (s *Server) UpsertDocument(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	var body upsertDocumentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	doc := documentFromBody(chi.URLParam(r, "id"), owner, body)
	created, err := s.documents.Upsert(r.Context(), &doc)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", "/api/v1/documents/"+doc.ID)
	}
	writeJSON(w, status, doc)
}

// GetDocument handles GET /api/v1/documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	doc, err := s.documents.Get(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// DeleteDocument handles DELETE /api/v1/documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	if err := s.documents.Delete(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ownerID extracts the owner scope from the request headers. Writes the
// error response itself when the header is missing.
func (s *Server) ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner := r.Header.Get(ownerHeader)
	if owner == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, ownerHeader+" header is required")
		return "", false
	}
	return owner, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrDocumentNotFound,
		domain.ErrInvalidQuery,
		domain.ErrInvalidDocument,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidQueryHandler handles InvalidQueryError with the per-problem
// reasons in the body.
func invalidQueryHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrInvalidQuery) {
		return false
	}
	var iqe *domain.InvalidQueryError
	if errors.As(err, &iqe) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    codeInvalidQuery,
			Message: msg,
			Reasons: iqe.Reasons,
		})
		return true
	}
	writeError(w, http.StatusBadRequest, codeInvalidQuery, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
