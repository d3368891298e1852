package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/viant/fluxtree/extension"
	"github.com/viant/fluxtree/model/graph"
	"github.com/viant/fluxtree/model/run"
	"github.com/viant/fluxtree/model/state"
	"github.com/viant/fluxtree/service/dao"
	"github.com/viant/fluxtree/service/dao/criteria"
)

// Engine defines the engine operations exposed over HTTP
type Engine interface {
	LoadTree(ctx context.Context, URL string) (graph.Node, error)
	Run(ctx context.Context, root graph.Node, params state.Context) (interface{}, error)
	Runs() dao.Service[string, run.Record]
	Tasks() *extension.Registry
}

// RunRequest is the body of POST /runs
type RunRequest struct {
	Tree   string        `json:"tree"`
	Params state.Context `json:"params,omitempty"`
}

// RunResponse is returned by POST /runs
type RunResponse struct {
	State interface{} `json:"state,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Server serves engine runs, run history, and metrics
type Server struct {
	Engine   Engine
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewHandler creates an HTTP handler for engine, a nil gatherer means the default one
func NewHandler(engine Engine, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{Engine: engine, Gatherer: gatherer, Logger: logger}
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/tasks", s.ListTasks)
	r.Route("/runs", func(r chi.Router) {
		r.Post("/", s.StartRun)
		r.Get("/", s.ListRuns)
		r.Get("/{id}", s.GetRun)
		r.Delete("/{id}", s.DeleteRun)
	})
	return r
}

// StartRun loads the requested tree and runs it synchronously
func (s *Server) StartRun(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Tree == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("StartRun: invalid request body", "error", err)
		return
	}
	root, err := s.Engine.LoadTree(r.Context(), body.Tree)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		s.Logger.Warn("StartRun: failed to load tree", "tree", body.Tree, "error", err)
		return
	}
	result, err := s.Engine.Run(r.Context(), root, body.Params)
	if err != nil {
		s.writeJSON(w, http.StatusConflict, &RunResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, &RunResponse{State: result})
}

// ListRuns lists stored runs, the status query parameter filters them
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs := s.Engine.Runs()
	if runs == nil {
		http.Error(w, "run history is disabled", http.StatusNotFound)
		return
	}
	var parameters []*dao.Parameter
	if status := r.URL.Query()["status"]; len(status) > 0 {
		parameters = append(parameters, dao.NewParameter(criteria.StatusParameter, status...))
	}
	records, err := runs.List(r.Context(), parameters...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		s.Logger.Error("ListRuns failed", "error", err)
		return
	}
	if records == nil {
		records = []*run.Record{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

// GetRun returns a stored run
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	runs := s.Engine.Runs()
	if runs == nil {
		http.Error(w, "run history is disabled", http.StatusNotFound)
		return
	}
	record, err := runs.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, record)
}

// DeleteRun removes a stored run
func (s *Server) DeleteRun(w http.ResponseWriter, r *http.Request) {
	runs := s.Engine.Runs()
	if runs == nil {
		http.Error(w, "run history is disabled", http.StatusNotFound)
		return
	}
	if err := runs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTasks returns registered task names
func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Tasks().Tasks())
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dao.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, dao.ErrInvalidID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		s.Logger.Error("request failed", "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}
