package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/arpsweep/internal/discovery"
	"github.com/muurk/arpsweep/internal/logging"
)

// Handler returns the HTTP routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/hosts", s.handleHosts)
	mux.HandleFunc("GET /api/self", s.handleSelf)
	mux.HandleFunc("GET /api/search/ip", s.handleSearchIP)
	mux.HandleFunc("GET /api/search/mac", s.handleSearchMAC)
	mux.HandleFunc("GET /api/search/type", s.handleSearchType)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return logRequests(mux)
}

func (s *Server) handleHosts(w http.ResponseWriter, r *http.Request) {
	var hosts []discovery.HostRecord
	err := s.withEngine(func(e Engine) error {
		var err error
		hosts, err = e.Discover(r.Context(), r.URL.Query().Get("ref"))
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if hosts == nil {
		hosts = []discovery.HostRecord{}
	}
	writeJSON(w, http.StatusOK, hosts)
}

func (s *Server) handleSelf(w http.ResponseWriter, r *http.Request) {
	var self discovery.SelfInfo
	err := s.withEngine(func(e Engine) error {
		var err error
		self, err = e.ResolveSelf(r.Context())
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, self)
}

func (s *Server) handleSearchIP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var result discovery.SearchResult
	err := s.withEngine(func(e Engine) error {
		var err error
		result, err = e.SearchByIP(r.Context(), q["ip"], q.Get("ref"))
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, normalizeResult(result))
}

func (s *Server) handleSearchMAC(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var result discovery.SearchResult
	err := s.withEngine(func(e Engine) error {
		var err error
		result, err = e.SearchByMAC(r.Context(), q["mac"], q.Get("ref"))
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, normalizeResult(result))
}

func (s *Server) handleSearchType(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var hosts []discovery.HostRecord
	err := s.withEngine(func(e Engine) error {
		var err error
		hosts, err = e.SearchByType(r.Context(), q.Get("type"), q.Get("ref"))
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if hosts == nil {
		hosts = []discovery.HostRecord{}
	}
	writeJSON(w, http.StatusOK, hosts)
}

// normalizeResult replaces nil slices so they encode as [] rather than null.
func normalizeResult(r discovery.SearchResult) discovery.SearchResult {
	if r.Hosts == nil {
		r.Hosts = []discovery.HostRecord{}
	}
	if r.Missing == nil {
		r.Missing = []string{}
	}
	return r
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps engine errors to HTTP status codes. Caller mistakes are
// 400; everything else is a failure on this side.
func statusFor(err error) int {
	var inputErr *discovery.InputError
	var addrErr *discovery.AddressError
	if errors.As(err, &inputErr) || errors.As(err, &addrErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug("Failed to write response", zap.Error(err))
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets the WebSocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
