package ghs

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/jensdewaard/dist-alg3/src/config"
	"github.com/jensdewaard/dist-alg3/src/graph"
	"github.com/jensdewaard/dist-alg3/src/net"
	"github.com/jensdewaard/dist-alg3/src/node"
	"github.com/jensdewaard/dist-alg3/src/node/state"
	"github.com/jensdewaard/dist-alg3/src/peers"
	"github.com/jensdewaard/dist-alg3/src/service"
	"github.com/jensdewaard/dist-alg3/src/store"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNodeStopped is returned when a node stops before the spanning tree
	// is complete without recording a fault.
	ErrNodeStopped = errors.New("node stopped before halting")

	// ErrMismatch is returned when verification finds a distributed result
	// different from the sequential one.
	ErrMismatch = errors.New("distributed result differs from Kruskal")

	// ErrNoSeed is returned in node mode when the graph must be generated but
	// no seed was given, as every process has to generate the same graph.
	ErrNoSeed = errors.New("a random graph in node mode requires an explicit seed")
)

// GHS bootstraps one protocol node per vertex, waits for the spanning tree
// to be complete, collects and verifies it, and records the run.
type GHS struct {
	Config     *config.Config
	Graph      *graph.Graph
	Directory  *peers.Directory
	Transports []net.Transport
	Nodes      []*node.Node
	Store      store.Store
	Service    *service.Service

	seed   int64
	logger *logrus.Entry
}

// NewGHS ...
func NewGHS(conf *config.Config) *GHS {
	engine := &GHS{
		Config: conf,
		logger: conf.Logger(),
		seed:   conf.Seed,
	}

	if engine.seed == 0 {
		engine.seed = time.Now().UnixNano()
	}

	return engine
}

// SetGraph makes the engine run on g instead of loading or generating a
// graph. It must be called before Init.
func (g *GHS) SetGraph(gr *graph.Graph) {
	g.Graph = gr
}

// Init prepares an in-process run: every vertex gets a node and an in-memory
// transport.
func (g *GHS) Init() error {
	if err := g.initGraph(false); err != nil {
		return err
	}

	if err := g.initStore(); err != nil {
		return err
	}

	if err := g.initInmemTransports(); err != nil {
		return err
	}

	if err := g.initNodes(g.Graph.Vertices()); err != nil {
		return err
	}

	return g.initService()
}

// InitNode prepares the run of the single vertex Config.NodeID over TCP. The
// addresses of all vertices are read from peers.json in the data directory.
func (g *GHS) InitNode() error {
	if err := g.initGraph(true); err != nil {
		return err
	}

	if err := g.initStore(); err != nil {
		return err
	}

	if err := g.initPeers(); err != nil {
		return err
	}

	if err := g.initTCPTransport(); err != nil {
		return err
	}

	if err := g.initNodes([]int{g.Config.NodeID}); err != nil {
		return err
	}

	return g.initService()
}

func (g *GHS) initGraph(nodeMode bool) error {
	if g.Graph != nil {
		return nil
	}

	if path := g.Config.GraphPath(); path != "" {
		gr, err := graph.Load(path)
		if err != nil {
			return fmt.Errorf("loading graph from %s: %w", path, err)
		}

		g.logger.WithFields(logrus.Fields{
			"path":     path,
			"vertices": gr.Order(),
			"edges":    len(gr.Edges()),
		}).Debug("Loaded graph")

		g.Graph = gr
		return nil
	}

	if nodeMode && g.Config.Seed == 0 {
		return ErrNoSeed
	}

	g.Graph = graph.Random(
		rand.New(rand.NewSource(g.seed)),
		g.Config.Vertices,
		g.Config.ExtraEdges,
		g.Config.MaxWeight,
	)

	g.logger.WithFields(logrus.Fields{
		"seed":     g.seed,
		"vertices": g.Graph.Order(),
		"edges":    len(g.Graph.Edges()),
	}).Debug("Generated graph")

	return nil
}

func (g *GHS) initStore() error {
	if !g.Config.Store {
		g.Store = store.NewInmemStore()

		g.logger.Debug("created new in-mem store")
		return nil
	}

	g.logger.WithField("path", g.Config.DatabaseDir).Debug("Attempting to load or create database")

	s, err := store.NewBadgerStore(g.Config.DatabaseDir, g.logger)
	if err != nil {
		return err
	}

	g.Store = s
	return nil
}

func (g *GHS) delay(id int) net.Delay {
	if g.Config.MaxDelay <= 0 {
		return net.NoDelay{}
	}
	return net.NewRandomDelay(g.Config.MaxDelay, g.seed+int64(id))
}

func (g *GHS) initInmemTransports() error {
	inmems := []*net.InmemTransport{}
	ps := []*peers.Peer{}

	for _, id := range g.Graph.Vertices() {
		addr, trans := net.NewInmemTransport("", g.delay(id))
		inmems = append(inmems, trans)
		g.Transports = append(g.Transports, trans)
		ps = append(ps, peers.NewPeer(id, addr, ""))
	}

	net.ConnectAll(inmems)

	dir, err := peers.NewDirectory(ps)
	if err != nil {
		return err
	}

	g.Directory = dir
	return nil
}

func (g *GHS) initPeers() error {
	peerStore := peers.NewJSONPeers(g.Config.DataDir)

	dir, err := peerStore.Directory()
	if err != nil {
		return fmt.Errorf("reading %s: %w", peerStore.Path(), err)
	}

	for _, id := range g.Graph.Vertices() {
		if _, ok := dir.Resolve(id); !ok {
			return fmt.Errorf("%w: vertex %d is missing from %s", node.ErrUnresolved, id, peerStore.Path())
		}
	}

	g.logger.WithField("peers", dir.Len()).Debug("Loaded peers")

	g.Directory = dir
	return nil
}

func (g *GHS) initTCPTransport() error {
	self, ok := g.Directory.Resolve(g.Config.NodeID)
	if !ok {
		return fmt.Errorf("%w: %d", node.ErrUnresolved, g.Config.NodeID)
	}

	bindAddr := g.Config.BindAddr
	if bindAddr == "" {
		bindAddr = self.NetAddr
	}

	trans, err := net.NewTCPTransport(
		bindAddr,
		g.Config.AdvertiseAddr,
		g.Config.MaxPool,
		g.Config.TCPTimeout,
		g.logger,
	)
	if err != nil {
		return err
	}

	g.Transports = []net.Transport{trans}
	return nil
}

// initiator reports whether id wakes up spontaneously.
func (g *GHS) initiator(id int) bool {
	if g.Config.WakeAll {
		return true
	}
	lightest, ok := g.Graph.Lightest()
	if !ok {
		return true
	}
	return lightest.Low == id
}

func (g *GHS) initNodes(ids []int) error {
	for i, id := range ids {
		edges, err := g.Graph.IncidentEdges(id)
		if err != nil {
			return err
		}

		conf := node.NewConfig(
			g.Config.WakeupDelay,
			g.initiator(id),
			g.Config.SendRetries,
			g.Config.RetryBackoff,
			g.logger.Logger,
		)

		n, err := node.NewNode(conf, id, edges, g.Directory, g.Transports[i])
		if err != nil {
			return fmt.Errorf("failed to initialize node %d: %w", id, err)
		}

		g.Nodes = append(g.Nodes, n)
	}

	return nil
}

func (g *GHS) initService() error {
	if g.Config.NoService {
		return nil
	}

	nodes := make([]service.Node, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = n
	}

	g.Service = service.NewService(g.Config.ServiceAddr, nodes, g.Store, g.logger)
	return nil
}

// Run starts the nodes and blocks until every one of them has halted, one of
// them fails, or the context is done. The run is recorded in the store even
// when it fails.
func (g *GHS) Run(ctx context.Context) (*store.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run aborted: %w", err)
	}

	if g.Service != nil {
		go g.Service.Serve()
	}

	if g.Config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Config.RunTimeout)
		defer cancel()
	}

	started := time.Now()

	for _, n := range g.Nodes {
		n.RunAsync()
	}

	runErr := g.waitHalted(ctx)
	if runErr == nil {
		g.drain(ctx)
	}

	run := g.collect(started, time.Now())

	if runErr == nil && g.Config.Verify && !run.Verified {
		runErr = ErrMismatch
	}

	if _, err := g.Store.AddRun(run); err != nil {
		g.logger.WithError(err).Error("Failed to record run")
		if runErr == nil {
			runErr = err
		}
	}

	fields := logrus.Fields{
		"index":        run.Index,
		"vertices":     run.Order,
		"mst_edges":    len(run.MST),
		"total_weight": run.TotalWeight,
		"verified":     run.Verified,
		"duration":     run.Duration(),
	}
	if runErr != nil {
		g.logger.WithFields(fields).WithError(runErr).Error("Run failed")
	} else {
		g.logger.WithFields(fields).Info("Run finished")
	}

	return run, runErr
}

// waitHalted returns nil once every node has halted.
func (g *GHS) waitHalted(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan error, len(g.Nodes))

	for _, n := range g.Nodes {
		go func(n *node.Node) {
			results <- waitNode(ctx, n)
		}(n)
	}

	for range g.Nodes {
		if err := <-results; err != nil {
			return err
		}
	}

	return nil
}

func waitNode(ctx context.Context, n *node.Node) error {
	select {
	case <-n.Halted():
		return nil
	case <-n.Done():
		select {
		case <-n.Halted():
			return nil
		default:
		}
		if err := n.Err(); err != nil {
			return fmt.Errorf("node %d: %w", n.ID(), err)
		}
		return fmt.Errorf("node %d: %w", n.ID(), ErrNodeStopped)
	case <-ctx.Done():
		return fmt.Errorf("run aborted waiting for node %d: %w", n.ID(), ctx.Err())
	}
}

// drain waits for the messages sent by the nodes, the last HALTs among them,
// to be handed to the transport.
func (g *GHS) drain(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for {
		pending := 0
		for _, n := range g.Nodes {
			pending += n.Routines()
		}
		if pending == 0 {
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// collect gathers the branches of every node into a run record. With all
// vertices local, the union of branches must equal the Kruskal tree. A single
// node only has to agree on its own branches.
func (g *GHS) collect(started, finished time.Time) *store.Run {
	set := make(map[graph.Edge]bool)
	summaries := []store.NodeSummary{}

	for _, n := range g.Nodes {
		status := n.Status()
		branches := n.Branches()
		for _, e := range branches {
			set[e] = true
		}

		errString := ""
		if err := n.Err(); err != nil {
			errString = err.Error()
		}

		summaries = append(summaries, store.NodeSummary{
			ID:       n.ID(),
			State:    status.State.String(),
			Level:    status.Level,
			Core:     status.Name.String(),
			Branches: len(branches),
			Refused:  status.Refused,
			Error:    errString,
		})
	}

	mst := make([]graph.Edge, 0, len(set))
	for e := range set {
		mst = append(mst, e)
	}
	graph.SortEdges(mst)

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID < summaries[j].ID
	})

	return &store.Run{
		Started:     started,
		Finished:    finished,
		Order:       g.Graph.Order(),
		Edges:       g.Graph.Edges(),
		MST:         mst,
		TotalWeight: graph.TotalWeight(mst),
		Verified:    g.verify(mst),
		Nodes:       summaries,
	}
}

func (g *GHS) verify(mst []graph.Edge) bool {
	expected := make(map[graph.Edge]bool)
	for _, e := range graph.Kruskal(g.Graph) {
		expected[e] = true
	}

	for _, e := range mst {
		if !expected[e] {
			return false
		}
	}

	if len(g.Nodes) < g.Graph.Order() {
		return true
	}

	for _, n := range g.Nodes {
		if n.GetState() != state.Halted {
			return false
		}
	}

	return len(mst) == len(expected)
}

// Shutdown stops the nodes, the service and the store.
func (g *GHS) Shutdown() {
	g.logger.Debug("Shutdown")

	for _, n := range g.Nodes {
		n.Shutdown()
	}

	if g.Service != nil {
		if err := g.Service.Close(); err != nil {
			g.logger.WithError(err).Error("Closing service")
		}
	}

	if g.Store != nil {
		if err := g.Store.Close(); err != nil {
			g.logger.WithError(err).Error("Closing store")
		}
	}
}
