package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/solrq/internal/domain"
	"github.com/kailas-cloud/solrq/internal/domain/query"
	"github.com/kailas-cloud/solrq/internal/domain/result"
	"github.com/kailas-cloud/solrq/internal/logger"
	"github.com/kailas-cloud/solrq/internal/params"
	"github.com/kailas-cloud/solrq/internal/usecase/health"
)

// Document is a search result document as decoded from the server.
type Document = map[string]any

// searcher runs queries against the configured index.
type searcher interface {
	Execute(ctx context.Context, q query.Query, opts *query.Options) (*result.Set[Document], error)
	Params(q query.Query, opts *query.Options) params.Params
}

// healthChecker reports the state of the search server and the cache.
type healthChecker interface {
	Check(ctx context.Context) health.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the search gateway API.
type Server struct {
	search        searcher
	health        healthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search searcher, checker healthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		search: search,
		health: checker,
		logger: logger,
		errorHandlers: []errorHandler{
			upstreamStatusHandler,
			sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, codeUpstreamTimeout, "search server timed out"),
			sentinelHandler(domain.ErrTransport, http.StatusServiceUnavailable, codeUpstreamUnavailable, "search server unavailable"),
			sentinelHandler(domain.ErrParse, http.StatusBadGateway, codeBadUpstreamResponse, "unreadable search server response"),
		},
	}
}

// Search handles POST /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: unexpected data after JSON object")
		return
	}

	q, opts, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	if req.DryRun {
		writeJSON(w, http.StatusOK, DryRunResponse{Params: pairsToGen(s.search.Params(q, opts))})
		return
	}

	set, err := s.search.Execute(r.Context(), q, opts)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultToGen(set))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	resp := HealthResponse{Status: string(report.Status), Checks: make(map[string]string, len(report.Checks))}
	for name, res := range report.Checks {
		resp.Checks[name] = string(res)
	}

	status := http.StatusOK
	if report.Status == health.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	if report.Status != health.Healthy {
		s.log(r.Context()).Warn("Health check failed", zap.Any("checks", resp.Checks))
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// upstreamStatusHandler relays a non-success status from the search server.
// Client errors keep their status so a bad query reads as a bad request.
func upstreamStatusHandler(w http.ResponseWriter, err error) bool {
	var te *domain.TransportError
	if !errors.As(err, &te) || te.Status == 0 {
		return false
	}
	status := http.StatusBadGateway
	if te.Status >= 400 && te.Status < 500 {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, ErrorResponse{
		Code:           codeUpstreamError,
		Message:        fmt.Sprintf("search server returned status %d", te.Status),
		UpstreamStatus: te.Status,
	})
	return true
}

func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	log := s.log(ctx)
	log.Warn("search failed", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func (s *Server) log(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, s.logger)
}
