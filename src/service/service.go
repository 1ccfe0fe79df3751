package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	cm "github.com/jensdewaard/dist-alg3/src/common"
	"github.com/jensdewaard/dist-alg3/src/store"
	"github.com/sirupsen/logrus"
)

// Node is the view of a protocol node the service reports on.
type Node interface {
	ID() int
	GetStats() map[string]string
}

// Service exposes the status of the nodes of a run, and the stored results,
// over HTTP.
type Service struct {
	sync.Mutex

	bindAddress string
	nodes       map[int]Node
	store       store.Store
	mux         *http.ServeMux
	server      *http.Server
	logger      *logrus.Entry
}

// NewService ...
func NewService(bindAddress string, nodes []Node, s store.Store, logger *logrus.Entry) *Service {
	service := Service{
		bindAddress: bindAddress,
		nodes:       make(map[int]Node, len(nodes)),
		store:       s,
		mux:         http.NewServeMux(),
		logger:      logger,
	}

	for _, n := range nodes {
		service.nodes[n.ID()] = n
	}

	service.server = &http.Server{Addr: bindAddress, Handler: service.mux}

	service.registerHandlers()

	return &service
}

// registerHandlers registers the API handlers with the private mux of the
// service, so that several services may live in the same process.
func (s *Service) registerHandlers() {
	s.logger.Debug("Registering GHS API handlers")
	s.mux.HandleFunc("/stats", s.makeHandler(s.GetStats))
	s.mux.HandleFunc("/stats/", s.makeHandler(s.GetNodeStats))
	s.mux.HandleFunc("/mst", s.makeHandler(s.GetMST))
	s.mux.HandleFunc("/run/", s.makeHandler(s.GetRun))
}

func (s *Service) makeHandler(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Lock()
		defer s.Unlock()

		// enable CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")

		fn(w, r)
	}
}

// Handler returns the http.Handler serving the API.
func (s *Service) Handler() http.Handler {
	return s.mux
}

// Serve calls ListenAndServe. This is a blocking call which returns when the
// service is closed.
func (s *Service) Serve() {
	s.logger.WithField("bind_address", s.bindAddress).Debug("Serving GHS API")

	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.logger.Error(err)
	}
}

// Close stops Serve. A Serve called after Close returns immediately.
func (s *Service) Close() error {
	return s.server.Close()
}

// GetStats returns the stats of every node, keyed by node id.
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := make(map[string]map[string]string, len(s.nodes))
	for id, n := range s.nodes {
		stats[strconv.Itoa(id)] = n.GetStats()
	}

	writeJSON(w, stats)
}

// GetNodeStats returns the stats of the node named in the path.
func (s *Service) GetNodeStats(w http.ResponseWriter, r *http.Request) {
	param := r.URL.Path[len("/stats/"):]

	id, err := strconv.Atoi(param)
	if err != nil {
		s.logger.WithError(err).Errorf("Parsing node id parameter %s", param)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n, ok := s.nodes[id]
	if !ok {
		http.Error(w, "unknown node "+param, http.StatusNotFound)
		return
	}

	writeJSON(w, n.GetStats())
}

// MST is the JSON view of a finished run.
type MST struct {
	Index       int
	Order       int
	Edges       []string
	TotalWeight int64
	Verified    bool
	Duration    string
}

// GetMST returns the spanning tree of the last finished run.
func (s *Service) GetMST(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.LastRun()
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, mstView(run))
}

// GetRun returns the full record of the run named in the path.
func (s *Service) GetRun(w http.ResponseWriter, r *http.Request) {
	param := r.URL.Path[len("/run/"):]

	index, err := strconv.Atoi(param)
	if err != nil {
		s.logger.WithError(err).Errorf("Parsing run_index parameter %s", param)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	run, err := s.store.GetRun(index)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, run)
}

func (s *Service) writeStoreError(w http.ResponseWriter, err error) {
	if cm.IsStore(err, cm.KeyNotFound) || cm.IsStore(err, cm.Empty) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	s.logger.WithError(err).Error("Reading store")
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func mstView(run *store.Run) MST {
	edges := make([]string, len(run.MST))
	for i, e := range run.MST {
		edges[i] = fmt.Sprintf("%s %d", e, e.Weight.Value)
	}

	return MST{
		Index:       run.Index,
		Order:       run.Order,
		Edges:       edges,
		TotalWeight: run.TotalWeight,
		Verified:    run.Verified,
		Duration:    run.Duration().String(),
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(v)
}
