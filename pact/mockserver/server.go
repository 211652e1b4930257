// Package mockserver implements the Pact mock provider: an HTTP server
// that plays back recorded interactions, matches incoming requests against
// them, and reports whether the whole interaction set was exercised.
package mockserver

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/pact-go/pact/internal/log"
	"github.com/pact-go/pact/metrics"
	"github.com/pact-go/pact/pact"
	"github.com/pact-go/pact/pact/matching"
)

// State is the mock server's lifecycle state.
type State int

const (
	// Created means the server has been built but Listen has not run yet.
	Created State = iota
	// Listening means the server is accepting connections.
	Listening
	// Shutdown means the server has been torn down.
	Shutdown
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Listening:
		return "listening"
	case Shutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// ErrInvalidPort describes a listen address whose port cannot be parsed.
// Nothing in this package returns it: WithAddress does not validate its
// argument, and an unusable address surfaces as the error from Listen.
type ErrInvalidPort struct {
	Addr string
}

func (e *ErrInvalidPort) Error() string {
	return fmt.Sprintf("invalid listen address %q", e.Addr)
}

// Loop is the blocking accept loop returned by Listen, matching the
// teacher's own `type Loop func() error` shape (server/server.go).
type Loop func() error

// Server is a single mock provider instance: a fixed consumer/provider
// pair, the set of interactions it was built to play back, and the
// bookkeeping needed to answer a completeness check once the test run
// finishes.
type Server struct {
	ID       string
	Consumer string
	Provider string

	addr     string
	router   *mux.Router
	listener net.Listener
	httpSrv  *http.Server

	interactions  []*pact.Interaction
	results       ResultLog
	logger        log.Logger
	metrics       metrics.Metrics
	globalMetrics metrics.GlobalMetrics
	pactDir       string
	tlsCert       *tls.Certificate

	mtx     sync.RWMutex
	invoked map[int]int // interaction index -> times invoked
	state   State
}

// NewServer returns a Created server with a fresh random ID and an empty
// interaction set. Configure it further with the With* builder methods
// before calling Listen.
func NewServer() *Server {
	return &Server{
		ID:      uuid.NewString(),
		results: NewBoundedResultLog(1000),
		logger:  log.NewNoOpLogger(),
		metrics: metrics.New(),
		invoked: map[int]int{},
		state:   Created,
	}
}

// WithAddress sets the listen address (host:port, or :0 for an
// OS-assigned port).
func (s *Server) WithAddress(addr string) *Server {
	s.addr = addr
	return s
}

// WithConsumer sets the consumer name recorded in the emitted pact.
func (s *Server) WithConsumer(name string) *Server {
	s.Consumer = name
	return s
}

// WithProvider sets the provider name recorded in the emitted pact.
func (s *Server) WithProvider(name string) *Server {
	s.Provider = name
	return s
}

// WithInteractions registers the interactions this server will play back.
func (s *Server) WithInteractions(interactions []*pact.Interaction) *Server {
	s.interactions = interactions
	return s
}

// WithResultLog overrides the default bounded result log.
func (s *Server) WithResultLog(log ResultLog) *Server {
	s.results = log
	return s
}

// WithLogger sets the structured logger used for request/response tracing.
func (s *Server) WithLogger(logger log.Logger) *Server {
	s.logger = logger
	return s
}

// WithMetrics sets the metrics collection used to time dispatch.
func (s *Server) WithMetrics(m metrics.Metrics) *Server {
	s.metrics = m
	return s
}

// WithGlobalMetrics wires a Prometheus-backed GlobalMetrics into the
// server: every route gets http_requests_total/http_request_duration_seconds
// instrumentation, and a /_pact/metrics endpoint is registered to expose
// gm.Gather(). Optional; a server with no GlobalMetrics set runs exactly
// as before, so tests and programmatic callers that spin up many servers
// in one process don't collide registering the same collector twice.
func (s *Server) WithGlobalMetrics(gm metrics.GlobalMetrics) *Server {
	s.globalMetrics = gm
	return s
}

// WithPactDir sets the directory WritePactFile writes the completed pact into.
func (s *Server) WithPactDir(dir string) *Server {
	s.pactDir = dir
	return s
}

// WithTLS makes Listen serve HTTPS using cert, for providers under test
// that pin to a TLS pact URL.
func (s *Server) WithTLS(cert *tls.Certificate) *Server {
	s.tlsCert = cert
	return s
}

// State reports the server's current lifecycle state.
func (s *Server) State() State {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.state
}

// Addr returns the address the server is actually listening on. Only
// meaningful once State() == Listening.
func (s *Server) Addr() string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

func (s *Server) initRouter() {
	s.router = mux.NewRouter()
	s.registerRoute("/_pact/results", http.MethodGet, http.HandlerFunc(s.handleResults))
	s.registerRoute("/_pact/pact", http.MethodGet, http.HandlerFunc(s.handlePact))
	if s.globalMetrics != nil {
		s.globalMetrics.RegisterEndpoints(func(path, method string, handler http.Handler) {
			s.router.Handle(path, handler).Methods(method)
		})
	}
	s.router.PathPrefix("/").Handler(s.instrument("dispatch", http.HandlerFunc(s.handleDispatch)))
	s.router.Use(s.recoverMiddleware)
}

func (s *Server) registerRoute(path, method string, handler http.Handler) {
	s.router.Handle(path, s.instrument(path, handler)).Methods(method)
}

// instrument wraps handler with s.globalMetrics's InstrumentHandler when a
// GlobalMetrics has been configured, otherwise returns handler unchanged.
func (s *Server) instrument(label string, handler http.Handler) http.Handler {
	if s.globalMetrics == nil {
		return handler
	}
	return s.globalMetrics.InstrumentHandler(handler, label)
}

// recoverMiddleware turns a panicking handler into a 500 instead of taking
// down the whole process, the same role the teacher's instrumentHandler
// chain plays around its own route handlers.
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic handling %s %s: %v", r.Method, r.URL.Path, rec)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Listen opens the configured address and returns a Loop that blocks
// serving requests until Shutdown is called, mirroring the teacher's
// getListenerForHTTPServer/Listeners split (server/server.go): building
// the listener is separate from running it, so callers can register the
// server (e.g. in Global) between the two.
func (s *Server) Listen(ctx context.Context) (Loop, error) {
	s.mtx.Lock()
	if s.state != Created {
		s.mtx.Unlock()
		return nil, fmt.Errorf("mock server %q: Listen called in state %s", s.ID, s.state)
	}
	s.initRouter()
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.mtx.Unlock()
		return nil, err
	}
	if s.tlsCert != nil {
		listener = tls.NewListener(listener, &tls.Config{Certificates: []tls.Certificate{*s.tlsCert}})
	}
	s.listener = listener
	s.httpSrv = &http.Server{Handler: s.router}
	s.state = Listening
	s.mtx.Unlock()

	s.logger.Info("mock server %s listening on %s", s.ID, listener.Addr().String())

	return func() error {
		err := s.httpSrv.Serve(listener)
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}, nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mtx.Lock()
	if s.state != Listening {
		s.mtx.Unlock()
		return nil
	}
	s.state = Shutdown
	srv := s.httpSrv
	s.mtx.Unlock()
	return srv.Shutdown(ctx)
}

// handleDispatch is the catch-all handler: every request not matching an
// admin route is run through Dispatch and replayed against the best
// matching interaction's recorded response.
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	s.metrics.Timer(metrics.ServerHandler).Start()
	defer s.metrics.Timer(metrics.ServerHandler).Stop()

	req, err := parseHTTPRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := s.Dispatch(req)
	s.results.Push(result)

	switch result.Kind {
	case pact.RequestMatch:
		writeResponse(w, result.Interaction.Response)
	default:
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Pact", result.Kind.MatchKey())
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(result)
	}
}

// Dispatch matches req against every registered interaction and returns
// the outcome, without touching the HTTP layer. This is the algorithm
// spec.md's mock server section fixes:
//
//  1. Compute mismatches for req against every interaction's Request.
//  2. An interaction with zero mismatches is an exact match; the first
//     one found (in registration order) wins and is marked invoked.
//  3. Failing an exact match, rank every interaction by the number of
//     distinct mismatch kinds it produced (fewest wins) — this is the
//     same "closest plausible match" heuristic UniqueKinds exists to
//     support (pact/mismatch.go).
//  4. An empty interaction set has no candidate at all: the request is
//     reported as RequestNotFound.
//  5. If the closest candidate's mismatches still include a method or
//     path mismatch, req never matched any interaction this server knows
//     about at all: report RequestNotFound rather than RequestMismatch.
//  6. Otherwise the closest candidate's mismatches are reported as a
//     RequestMismatch.
func (s *Server) Dispatch(req *pact.Request) pact.MatchResult {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if len(s.interactions) == 0 {
		return pact.NewRequestNotFound(req)
	}

	bestIdx := -1
	var bestMismatches []pact.Mismatch
	bestScore := -1

	for i, ia := range s.interactions {
		mismatches := matching.MatchRequest(ia.Request, req)
		if len(mismatches) == 0 {
			s.invoked[i]++
			return pact.NewRequestMatch(ia)
		}
		score := pact.UniqueKinds(mismatches)
		if bestIdx == -1 || score < bestScore {
			bestIdx, bestScore, bestMismatches = i, score, mismatches
		}
	}

	if pact.HasKind(bestMismatches, pact.MethodMismatchKind) || pact.HasKind(bestMismatches, pact.PathMismatchKind) {
		return pact.NewRequestNotFound(req)
	}

	return pact.NewRequestMismatch(s.interactions[bestIdx], req, bestMismatches)
}

// Verify checks the server's completeness rule: every registered
// interaction must have been invoked at least once. It returns one
// MissingRequest result per uninvoked interaction, in registration order,
// and an empty slice when the server is complete.
func (s *Server) Verify() []pact.MatchResult {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var missing []pact.MatchResult
	for i, ia := range s.interactions {
		if s.invoked[i] == 0 {
			missing = append(missing, pact.NewMissingRequest(ia))
		}
	}
	return missing
}

// Complete reports whether Verify would return no missing interactions
// and no recorded mismatch/not-found results — the full "server
// completeness" condition WritePact gates on.
func (s *Server) Complete() bool {
	if len(s.Verify()) > 0 {
		return false
	}
	complete := true
	s.results.Iter(func(r pact.MatchResult) {
		if r.Kind != pact.RequestMatch {
			complete = false
		}
	})
	return complete
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.results.All())
}

func (s *Server) handlePact(w http.ResponseWriter, r *http.Request) {
	p := s.buildPact()
	raw, err := pact.EncodePact(p)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

func (s *Server) buildPact() *pact.Pact {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	p := pact.NewPact(s.Consumer, s.Provider)
	p.Interactions = append(p.Interactions, s.interactions...)
	return p
}

// WritePact encodes the server's pact and writes it to w, refusing to
// write an incomplete pact (spec.md's server completeness rule: a pact
// file is only emitted once every recorded interaction has actually been
// exercised by the consumer under test).
func (s *Server) WritePact(w io.Writer) error {
	if !s.Complete() {
		return fmt.Errorf("mock server %q: cannot write pact, %d interaction(s) never invoked", s.ID, len(s.Verify()))
	}
	raw, err := pact.EncodePact(s.buildPact())
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

// WritePactFile writes the server's pact to <pactDir>/<consumer>-<provider>.json,
// creating pactDir if necessary. It fails the same way WritePact does if
// the server isn't complete.
func (s *Server) WritePactFile() error {
	dir := s.pactDir
	if dir == "" {
		dir = "."
	}
	if !s.Complete() {
		return s.WritePact(io.Discard)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.json", s.Consumer, s.Provider))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.WritePact(f)
}

func parseHTTPRequest(r *http.Request) (*pact.Request, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	req := pact.NewRequest(r.Method, r.URL.Path)
	for k, vs := range r.URL.Query() {
		req.Query[k] = vs
	}
	for k, vs := range r.Header {
		req.Headers.Set(k, joinHeaderValues(vs))
	}
	if len(body) > 0 {
		contentType, _ := req.Headers.Get("Content-Type")
		req.Body = pact.PresentBody(body, contentType)
	}
	return req, nil
}

func joinHeaderValues(vs []string) string {
	out := ""
	for i, v := range vs {
		if i > 0 {
			out += ", "
		}
		out += v
	}
	return out
}

func writeResponse(w http.ResponseWriter, resp *pact.Response) {
	for _, k := range resp.Headers.Keys() {
		v, _ := resp.Headers.Get(k)
		w.Header().Set(k, v)
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if resp.Body.IsPresent() {
		_, _ = w.Write(resp.Body.Content())
	}
}

// encodeQueryValues renders a pact.Request's Query as a URL query string.
// Nothing in this package calls it; the verifier encodes its own queries.
func encodeQueryValues(q pact.QueryValues) string {
	values := url.Values{}
	for k, vs := range q {
		values[k] = vs
	}
	return values.Encode()
}
