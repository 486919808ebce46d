package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/hazard-cluster-service/internal/cluster"
	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
	"github.com/couchcryptid/hazard-cluster-service/internal/geo"
	"github.com/couchcryptid/hazard-cluster-service/internal/snapshot"
)

// Server exposes the cluster query API alongside health, readiness, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	store      *snapshot.Store
	engine     *cluster.CachedEngine
	padding    float64
	logger     *slog.Logger

	mu     sync.Mutex
	nearby nearbySnapshot
}

// nearbySnapshot is the spatial index built for one snapshot version.
type nearbySnapshot struct {
	version uint64
	reports []domain.Report
	index   *geo.NearbyIndex
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /clusters, and /reports routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, store *snapshot.Store, engine *cluster.CachedEngine, padding float64, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:   store,
		engine:  engine,
		padding: padding,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /clusters", s.handleClusters)
	mux.HandleFunc("GET /reports/nearby", s.handleNearby)
	mux.HandleFunc("GET /reports/{id}", s.handleReport)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleClusters(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	padding, err := parseFloatParam(r.URL.Query(), "padding", s.padding)
	if err != nil || padding < 0 {
		writeError(w, http.StatusBadRequest, errInvalidParam("padding"))
		return
	}

	version, reports := s.store.Snapshot()
	result := s.engine.Run(version, reports, criteria, padding)

	s.logger.Debug("clusters served",
		"version", version,
		"strategy", result.Strategy,
		"items", len(result.Items),
	)
	sharedobs.WriteJSON(w, http.StatusOK, result)
}

type nearbyReport struct {
	Report     domain.Report `json:"report"`
	DistanceKm float64       `json:"distanceKm"`
}

type nearbyResponse struct {
	Reports []nearbyReport `json:"reports"`
}

func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	q, err := parseNearbyQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	snap := s.nearbyIndex()
	neighbors := snap.index.Within(q.lat, q.lng, q.radiusKm)
	if len(neighbors) > q.limit {
		neighbors = neighbors[:q.limit]
	}
	resp := nearbyResponse{Reports: make([]nearbyReport, 0, len(neighbors))}
	for _, n := range neighbors {
		resp.Reports = append(resp.Reports, nearbyReport{
			Report:     snap.reports[n.Index],
			DistanceKm: n.DistanceKm,
		})
	}
	sharedobs.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.store.Get(r.PathValue("id"))
	if !ok {
		sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "report not found"})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, report)
}

// nearbyIndex returns the spatial index for the current snapshot, rebuilding
// it when the snapshot version has moved on.
func (s *Server) nearbyIndex() nearbySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nearby.index != nil && s.nearby.version == s.store.Version() {
		return s.nearby
	}

	version, reports := s.store.Snapshot()
	index := geo.NewNearbyIndex()
	for i, rep := range reports {
		if rep.Located() {
			index.Insert(i, rep.Location.Lat, rep.Location.Lng)
		}
	}
	s.nearby = nearbySnapshot{version: version, reports: reports, index: index}
	return s.nearby
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
