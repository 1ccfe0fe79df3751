package node

import (
	"fmt"

	"github.com/jensdewaard/dist-alg3/src/graph"
	"github.com/jensdewaard/dist-alg3/src/net"
	"github.com/jensdewaard/dist-alg3/src/node/state"
	"github.com/sirupsen/logrus"
)

// Sender hands an outgoing message to the network. The Core fills in every
// field except the clock. Send must not block on the remote node.
type Sender interface {
	Send(msg *net.Message) error
}

// SenderFunc adapts an ordinary function to the Sender interface.
type SenderFunc func(msg *net.Message) error

// Send calls f(msg).
func (f SenderFunc) Send(msg *net.Message) error {
	return f(msg)
}

// Core is the protocol state machine of a single vertex. It is not safe for
// concurrent use: the Node serializes every call.
type Core struct {
	id int

	// edges are the incident edges sorted by ascending weight.
	edges      []graph.Edge
	edgeStates map[graph.Edge]EdgeState

	state state.State

	// level and name identify the fragment the node belongs to. The name is
	// the weight of the fragment's core edge.
	level int
	name  graph.Weight

	// inBranch is the tree edge leading towards the core.
	inBranch *graph.Edge

	// bestEdge and bestWeight track the lightest outgoing edge found by this
	// node or its subtree during the current search round.
	bestEdge   *graph.Edge
	bestWeight graph.Weight

	// testEdge is the edge being probed with TEST, nil when none is.
	testEdge *graph.Edge

	// expectedReports holds the neighbours that still owe a REPORT in the
	// current round. Its size is the find count.
	expectedReports map[int]bool

	testQueue    deferralQueue
	reportQueue  deferralQueue
	connectQueue deferralQueue

	// refused counts growth messages dropped after halting.
	refused int

	sender Sender
	logger *logrus.Entry
}

// NewCore creates the protocol engine of vertex id. Every edge must touch id.
func NewCore(id int, edges []graph.Edge, sender Sender, logger *logrus.Entry) (*Core, error) {
	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	sorted := make([]graph.Edge, len(edges))
	copy(sorted, edges)
	graph.SortEdges(sorted)

	edgeStates := make(map[graph.Edge]EdgeState, len(sorted))
	for _, e := range sorted {
		if !e.Touches(id) {
			return nil, fmt.Errorf("%w: %v is not incident to %d", graph.ErrInvalidEdge, e, id)
		}
		if _, ok := edgeStates[e]; ok {
			return nil, fmt.Errorf("%w: %v listed twice", graph.ErrInvalidEdge, e)
		}
		edgeStates[e] = Unknown
	}

	return &Core{
		id:              id,
		edges:           sorted,
		edgeStates:      edgeStates,
		state:           state.Sleeping,
		bestWeight:      graph.Infinite,
		expectedReports: make(map[int]bool),
		sender:          sender,
		logger:          logger,
	}, nil
}

// Wakeup makes a sleeping node join the protocol: it connects over its lightest
// edge as a level 0 fragment. It does nothing if the node is already awake. A
// node without any edge is a complete spanning tree by itself and halts.
func (c *Core) Wakeup() error {
	if c.state != state.Sleeping {
		return nil
	}

	if len(c.edges) == 0 {
		c.logger.Info("No incident edge, halting")
		c.state = state.Halted
		return nil
	}

	c.logger.Debug("Wakeup")

	lightest := c.edges[0]
	if err := c.updateEdgeState(lightest, InMST); err != nil {
		return err
	}
	c.level = 0
	c.state = state.Found
	c.expectedReports = make(map[int]bool)

	return c.send(lightest, net.Message{Type: net.Connect, Level: 0})
}

// Handle processes a message that the ordering layer released, then replays
// every deferred message that became eligible.
func (c *Core) Handle(msg *net.Message) error {
	if msg.To != c.id {
		return fmt.Errorf("message %s addressed to %d delivered to %d", msg, msg.To, c.id)
	}

	if c.state == state.Sleeping {
		if err := c.Wakeup(); err != nil {
			return err
		}
	}

	if err := c.dispatch(msg); err != nil {
		return err
	}

	return c.replay()
}

func (c *Core) dispatch(msg *net.Message) error {
	c.logger.WithFields(logrus.Fields{
		"msg":   msg.String(),
		"state": c.state.String(),
		"level": c.level,
	}).Debug("Handle")

	if c.state == state.Halted {
		switch msg.Type {
		case net.Connect, net.Initiate, net.Test:
			c.refused++
			c.logger.WithField("msg", msg.String()).Warn("Halted, refusing message")
			return nil
		}
	}

	switch msg.Type {
	case net.Connect:
		return c.handleConnect(msg)
	case net.Initiate:
		return c.handleInitiate(msg)
	case net.Test:
		return c.handleTest(msg)
	case net.Accept:
		return c.handleAccept(msg)
	case net.Reject:
		return c.handleReject(msg)
	case net.Report:
		return c.handleReport(msg)
	case net.ChangeRoot:
		return c.changeRoot()
	case net.Halt:
		return c.handleHalt(msg)
	default:
		return c.fault(UnknownMessage, msg.String())
	}
}

func (c *Core) handleConnect(msg *net.Message) error {
	if msg.From == c.id {
		return c.fault(SelfConnect, msg.String())
	}

	j, err := c.identifyEdge(msg.From)
	if err != nil {
		return err
	}

	if msg.Level < c.level {
		// absorb the lower level fragment
		if err := c.updateEdgeState(j, InMST); err != nil {
			return err
		}
		if err := c.send(j, net.Message{
			Type:  net.Initiate,
			Level: c.level,
			Core:  c.name,
			State: c.state,
		}); err != nil {
			return err
		}
		if c.state == state.Find && !sameEdge(c.inBranch, j) {
			c.expectedReports[msg.From] = true
		}
		return nil
	}

	if c.edgeStates[j] == Unknown {
		c.connectQueue.push(msg, j)
		return nil
	}

	// merge two fragments of the same level across their common edge
	if err := c.send(j, net.Message{
		Type:  net.Initiate,
		Level: c.level + 1,
		Core:  j.Weight,
		State: state.Find,
	}); err != nil {
		return err
	}
	return c.updateEdgeState(j, InMST)
}

func (c *Core) handleInitiate(msg *net.Message) error {
	j, err := c.identifyEdge(msg.From)
	if err != nil {
		return err
	}

	if c.edgeStates[j] != InMST {
		return c.fault(InitiateNotInMST, msg.String())
	}

	c.level = msg.Level
	c.name = msg.Core
	c.state = msg.State
	c.inBranch = &j
	c.bestEdge = nil
	c.bestWeight = graph.Infinite

	for _, e := range c.edges {
		if e == j || c.edgeStates[e] != InMST {
			continue
		}
		if err := c.send(e, net.Message{
			Type:  net.Initiate,
			Level: msg.Level,
			Core:  msg.Core,
			State: msg.State,
		}); err != nil {
			return err
		}
		if msg.State == state.Find {
			other, _ := e.Other(c.id)
			c.expectedReports[other] = true
		}
	}

	if msg.State == state.Find {
		return c.test()
	}
	return nil
}

func (c *Core) handleTest(msg *net.Message) error {
	j, err := c.identifyEdge(msg.From)
	if err != nil {
		return err
	}

	if msg.Level > c.level {
		c.testQueue.push(msg, j)
		return nil
	}

	if msg.Core.Compare(c.name) != 0 {
		return c.send(j, net.Message{Type: net.Accept})
	}

	// both endpoints are in the same fragment
	if c.edgeStates[j] == Unknown {
		if err := c.updateEdgeState(j, NotInMST); err != nil {
			return err
		}
	}
	if !sameEdge(c.testEdge, j) {
		return c.send(j, net.Message{Type: net.Reject})
	}
	return c.test()
}

func (c *Core) handleAccept(msg *net.Message) error {
	j, err := c.identifyEdge(msg.From)
	if err != nil {
		return err
	}

	if !sameEdge(c.testEdge, j) {
		return c.fault(UnexpectedAccept, msg.String())
	}

	c.testEdge = nil
	if j.Weight.Less(c.bestWeight) {
		c.bestEdge = &j
		c.bestWeight = j.Weight
	}
	return c.report()
}

func (c *Core) handleReject(msg *net.Message) error {
	j, err := c.identifyEdge(msg.From)
	if err != nil {
		return err
	}

	if !sameEdge(c.testEdge, j) {
		return c.fault(UnexpectedReject, msg.String())
	}

	if c.edgeStates[j] == Unknown {
		if err := c.updateEdgeState(j, NotInMST); err != nil {
			return err
		}
	}
	return c.test()
}

func (c *Core) handleReport(msg *net.Message) error {
	j, err := c.identifyEdge(msg.From)
	if err != nil {
		return err
	}

	if c.edgeStates[j] != InMST {
		return c.fault(ReportNotInMST, msg.String())
	}

	if !sameEdge(c.inBranch, j) {
		if !c.expectedReports[msg.From] {
			return c.fault(UnexpectedReport, msg.String())
		}
		delete(c.expectedReports, msg.From)
		if msg.Core.Less(c.bestWeight) {
			c.bestEdge = &j
			c.bestWeight = msg.Core
		}
		return c.report()
	}

	// report from the other half of the core
	if c.state == state.Find {
		c.reportQueue.push(msg, j)
		return nil
	}

	if c.bestWeight.Less(msg.Core) {
		return c.changeRoot()
	}

	if msg.Core.IsInfinite() && c.bestWeight.IsInfinite() {
		c.logger.WithFields(logrus.Fields{
			"level": c.level,
			"core":  c.name.String(),
		}).Info("No outgoing edge left, spanning tree complete")
		return c.halt(j)
	}

	return nil
}

func (c *Core) handleHalt(msg *net.Message) error {
	if c.state == state.Halted {
		c.logger.WithField("msg", msg.String()).Debug("Already halted")
		return nil
	}

	j, err := c.identifyEdge(msg.From)
	if err != nil {
		return err
	}

	return c.halt(j)
}

// halt enters the terminal state and propagates HALT down every branch except
// the one it came from.
func (c *Core) halt(from graph.Edge) error {
	c.state = state.Halted
	c.testEdge = nil

	for _, e := range c.edges {
		if e == from || c.edgeStates[e] != InMST {
			continue
		}
		if err := c.send(e, net.Message{Type: net.Halt}); err != nil {
			return err
		}
	}
	return nil
}

// test probes the lightest unclassified edge, or reports if none is left.
func (c *Core) test() error {
	for i := range c.edges {
		e := c.edges[i]
		if c.edgeStates[e] != Unknown {
			continue
		}
		c.testEdge = &e
		return c.send(e, net.Message{
			Type:  net.Test,
			Level: c.level,
			Core:  c.name,
		})
	}

	c.testEdge = nil
	return c.report()
}

// report sends the best weight of the subtree towards the core once every
// child has reported and the local probing is finished. It fires at most once
// per search round because it leaves the Find state.
func (c *Core) report() error {
	if c.state != state.Find || len(c.expectedReports) != 0 || c.testEdge != nil {
		return nil
	}

	c.state = state.Found
	return c.send(*c.inBranch, net.Message{
		Type: net.Report,
		Core: c.bestWeight,
	})
}

// changeRoot moves the root of the fragment one step towards the best edge,
// and connects over it once it is reached.
func (c *Core) changeRoot() error {
	if c.bestEdge == nil {
		return c.fault(NoBestEdge, "change root")
	}

	best := *c.bestEdge
	if c.edgeStates[best] == InMST {
		return c.send(best, net.Message{Type: net.ChangeRoot})
	}

	if err := c.send(best, net.Message{Type: net.Connect, Level: c.level}); err != nil {
		return err
	}
	return c.updateEdgeState(best, InMST)
}

// replay handles the oldest deferred message whose precondition holds, and
// starts over until no queue makes progress, since every replayed message can
// unblock others.
func (c *Core) replay() error {
	for {
		d, ok := c.testQueue.popReady(func(d deferred) bool {
			return d.msg.Level <= c.level
		})
		if !ok {
			d, ok = c.reportQueue.popReady(func(d deferred) bool {
				return !sameEdge(c.inBranch, d.edge) || c.state != state.Find
			})
		}
		if !ok {
			// a CONNECT becomes an absorb once the level rises, even if its
			// edge is still unclassified
			d, ok = c.connectQueue.popReady(func(d deferred) bool {
				return d.msg.Level < c.level || c.edgeStates[d.edge] != Unknown
			})
		}
		if !ok {
			return nil
		}

		c.logger.WithField("msg", d.msg.String()).Debug("Replay deferred message")

		if err := c.dispatch(d.msg); err != nil {
			return err
		}
	}
}

// identifyEdge returns the incident edge leading to neighbor.
func (c *Core) identifyEdge(neighbor int) (graph.Edge, error) {
	for _, e := range c.edges {
		if e.Touches(neighbor) && neighbor != c.id {
			return e, nil
		}
	}
	return graph.Edge{}, fmt.Errorf("%w: %d is not a neighbour of %d", graph.ErrUnknownNeighbor, neighbor, c.id)
}

// updateEdgeState classifies e. Setting the current classification again is
// a no-op.
func (c *Core) updateEdgeState(e graph.Edge, s EdgeState) error {
	cur, ok := c.edgeStates[e]
	if !ok {
		return fmt.Errorf("%w: %v is not incident to %d", graph.ErrUnknownNeighbor, e, c.id)
	}

	if s == Unknown {
		return c.fault(IllegalEdgeState, fmt.Sprintf("%v cannot go back to %s", e, Unknown))
	}

	if cur == s {
		return nil
	}

	if cur != Unknown {
		return c.fault(IllegalEdgeState, fmt.Sprintf("%v is %s, cannot become %s", e, cur, s))
	}

	c.edgeStates[e] = s

	c.logger.WithFields(logrus.Fields{
		"edge":  e.String(),
		"state": s.String(),
	}).Debug("Classified edge")

	return nil
}

func (c *Core) send(e graph.Edge, msg net.Message) error {
	to, err := e.Other(c.id)
	if err != nil {
		return err
	}
	msg.From = c.id
	msg.To = to
	return c.sender.Send(&msg)
}

func (c *Core) fault(t ProtocolErrType, detail string) error {
	return NewProtocolError(c.id, t, detail)
}

func sameEdge(p *graph.Edge, e graph.Edge) bool {
	return p != nil && *p == e
}

/*******************************************************************************
Inspection
*******************************************************************************/

// Status is a snapshot of the protocol state of a node.
type Status struct {
	ID               int
	State            state.State
	Level            int
	Name             graph.Weight
	InBranch         *graph.Edge
	FindCount        int
	TestEdge         *graph.Edge
	BestWeight       graph.Weight
	DeferredTests    int
	DeferredReports  int
	DeferredConnects int
	Refused          int
}

// Status returns a snapshot of the node's state.
func (c *Core) Status() Status {
	return Status{
		ID:               c.id,
		State:            c.state,
		Level:            c.level,
		Name:             c.name,
		InBranch:         copyEdge(c.inBranch),
		FindCount:        len(c.expectedReports),
		TestEdge:         copyEdge(c.testEdge),
		BestWeight:       c.bestWeight,
		DeferredTests:    c.testQueue.Len(),
		DeferredReports:  c.reportQueue.Len(),
		DeferredConnects: c.connectQueue.Len(),
		Refused:          c.refused,
	}
}

// State returns the protocol state.
func (c *Core) State() state.State {
	return c.state
}

// EdgeState returns the classification of e, and false if e is not incident
// to the node.
func (c *Core) EdgeState(e graph.Edge) (EdgeState, bool) {
	s, ok := c.edgeStates[e]
	return s, ok
}

// Branches returns the incident edges classified InMST, sorted by weight.
func (c *Core) Branches() []graph.Edge {
	res := []graph.Edge{}
	for _, e := range c.edges {
		if c.edgeStates[e] == InMST {
			res = append(res, e)
		}
	}
	return res
}

func copyEdge(e *graph.Edge) *graph.Edge {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}
