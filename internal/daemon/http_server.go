package daemon

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	ferrors "git.home.luguber.info/inful/refreshd/internal/foundation/errors"
	"git.home.luguber.info/inful/refreshd/internal/gateway"
	"git.home.luguber.info/inful/refreshd/internal/logfields"
	"git.home.luguber.info/inful/refreshd/internal/metrics"
)

// HTTPServer serves the admin API: health, metrics, status, gateway
// snapshots and the UI signals that drive the session and focus gate.
type HTTPServer struct {
	addr   string
	daemon *Daemon

	mu     sync.Mutex
	server *http.Server
	ln     net.Listener
}

// NewHTTPServer creates an admin server for d listening on addr.
func NewHTTPServer(addr string, d *Daemon) *HTTPServer {
	return &HTTPServer{addr: addr, daemon: d}
}

// Handler returns the admin routes wrapped in the logging/recovery middleware.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", metrics.HTTPHandler(s.daemon.registry))
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /snapshots/{resource}", s.handleSnapshot)
	mux.HandleFunc("PUT /ui/view", s.handleView)
	mux.HandleFunc("POST /ui/focus", s.handleFocus)
	mux.HandleFunc("PUT /ui/dirty", s.handleDirty)
	mux.HandleFunc("POST /ui/resume", s.handleResume)
	mux.HandleFunc("PUT /ui/tasks", s.handleTasks)
	mux.HandleFunc("POST /discovery/run", s.handleDiscoveryRun)
	return loggingMiddleware(panicRecoveryMiddleware(mux))
}

// Start binds the listener and serves in the background.
func (s *HTTPServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to bind admin server").
			WithContext("addr", s.addr).
			Build()
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.mu.Lock()
	s.server = srv
	s.ln = ln
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			slog.Error("Admin server failed", logfields.Error(err))
		}
	}()
	slog.Info("Admin server started", slog.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *HTTPServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts the server down.
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.ln = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "admin server shutdown").Build()
	}
	slog.Info("Admin server stopped")
	return nil
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := s.daemon.PerformHealthChecks()
	status := http.StatusOK
	if resp.Status == HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	_ = writeJSONPretty(w, r, status, resp)
}

func (s *HTTPServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	_ = writeJSONPretty(w, r, http.StatusOK, s.daemon.GetStatusResponse())
}

func (s *HTTPServer) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	resource := gateway.Resource(r.PathValue("resource"))
	snap, ok := s.daemon.Snapshots().Get(resource)
	if !ok {
		writeError(w, ferrors.NotFoundError("no snapshot for resource").
			WithContext("resource", string(resource)).
			Build())
		return
	}
	_ = writeJSONPretty(w, r, http.StatusOK, snap)
}

type viewRequest struct {
	View string `json:"view"`
}

func (s *HTTPServer) handleView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	view := strings.TrimSpace(req.View)
	if view == "" {
		writeError(w, ferrors.ValidationError("view is required").Build())
		return
	}
	if err := s.daemon.Session().SetView(view); err != nil {
		writeError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, viewRequest{View: view})
}

type focusRequest struct {
	Kind  string `json:"kind"`
	Event string `json:"event"` // "in" or "out"
}

type gateResponse struct {
	Accepted      bool `json:"accepted"`
	Paused        bool `json:"paused"`
	ResumePending bool `json:"resume_pending"`
}

func (s *HTTPServer) handleFocus(w http.ResponseWriter, r *http.Request) {
	var req focusRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	gate := s.daemon.Gate()
	var accepted bool
	switch strings.ToLower(req.Event) {
	case "in", "focusin":
		accepted = gate.FocusIn(req.Kind)
	case "out", "focusout":
		accepted = gate.FocusOut(req.Kind)
	default:
		writeError(w, ferrors.ValidationError("event must be \"in\" or \"out\"").
			WithContext("event", req.Event).
			Build())
		return
	}
	_ = writeJSON(w, http.StatusOK, s.gateState(accepted))
}

type dirtyRequest struct {
	Dirty bool `json:"dirty"`
}

func (s *HTTPServer) handleDirty(w http.ResponseWriter, r *http.Request) {
	var req dirtyRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.daemon.Gate().State().SetDirty(req.Dirty)
	_ = writeJSON(w, http.StatusOK, s.gateState(true))
}

func (s *HTTPServer) handleResume(w http.ResponseWriter, _ *http.Request) {
	s.daemon.Gate().Resume()
	_ = writeJSON(w, http.StatusOK, s.gateState(true))
}

func (s *HTTPServer) gateState(accepted bool) gateResponse {
	gate := s.daemon.Gate()
	return gateResponse{
		Accepted:      accepted,
		Paused:        gate.State().Paused(),
		ResumePending: gate.ResumePending(),
	}
}

type tasksRequest struct {
	Active int `json:"active"`
}

func (s *HTTPServer) handleTasks(w http.ResponseWriter, r *http.Request) {
	var req tasksRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Active < 0 {
		writeError(w, ferrors.ValidationError("active cannot be negative").Build())
		return
	}
	s.daemon.Busy().Set(req.Active)
	_ = writeJSON(w, http.StatusOK, tasksRequest{Active: s.daemon.Busy().ActiveTaskCount()})
}

func (s *HTTPServer) handleDiscoveryRun(w http.ResponseWriter, r *http.Request) {
	report, ran := s.daemon.TriggerDiscovery(r.Context())
	if !ran {
		_ = writeJSON(w, http.StatusConflict, errorResponse{Error: "discovery already running"})
		return
	}
	_ = writeJSON(w, http.StatusOK, report)
}
