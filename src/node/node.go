package node

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jensdewaard/dist-alg3/src/graph"
	"github.com/jensdewaard/dist-alg3/src/net"
	"github.com/jensdewaard/dist-alg3/src/node/state"
	"github.com/jensdewaard/dist-alg3/src/peers"
	"github.com/sirupsen/logrus"
)

// Node is the actor running the protocol for one vertex. A single goroutine
// reads messages from the transport, restores their per-edge order, and hands
// them to the Core. Outgoing messages are stamped synchronously and delivered
// from background routines, so handlers never wait on the network.
type Node struct {
	// Manager mirrors the protocol state for lock-free reads and tracks the
	// delivery routines.
	state.Manager

	id     int
	conf   *Config
	logger *logrus.Entry

	core     *Core
	coreLock sync.Mutex

	reorderer *net.Reorderer
	clocks    *net.SendClocks
	directory *peers.Directory

	trans net.Transport
	netCh <-chan *net.Message

	controlTimer *ControlTimer

	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	haltedCh     chan struct{}
	haltedOnce   sync.Once
	doneCh       chan struct{}

	errLock sync.Mutex
	err     error

	running  int32
	start    time.Time
	received int64
	sent     int64
	dropped  int64
}

// NewNode creates the actor of vertex id with its incident edges. Neighbours
// are resolved through directory and reached over trans.
func NewNode(conf *Config,
	id int,
	edges []graph.Edge,
	directory *peers.Directory,
	trans net.Transport,
) (*Node, error) {

	logger := conf.Logger.WithField("node_id", id)

	node := &Node{
		id:           id,
		conf:         conf,
		logger:       logger,
		reorderer:    net.NewReorderer(),
		clocks:       net.NewSendClocks(),
		directory:    directory,
		trans:        trans,
		netCh:        trans.Consumer(),
		controlTimer: NewRandomControlTimer(),
		shutdownCh:   make(chan struct{}),
		haltedCh:     make(chan struct{}),
		doneCh:       make(chan struct{}),
		start:        time.Now(),
	}

	core, err := NewCore(id, edges, SenderFunc(node.send), logger)
	if err != nil {
		return nil, err
	}
	node.core = core

	return node, nil
}

// RunAsync calls Run as a separate thread
func (n *Node) RunAsync() {
	n.logger.WithField("initiator", n.conf.Initiator).Debug("runasync")
	atomic.StoreInt32(&n.running, 1)
	go n.Run()
}

// Run invokes the event loop of the node. It returns when the node is shut
// down or hits a protocol fault.
func (n *Node) Run() {
	atomic.StoreInt32(&n.running, 1)
	defer close(n.doneCh)

	go n.trans.Listen()

	if n.conf.Initiator {
		go n.controlTimer.Run(n.conf.WakeupDelay)
	}

	for {
		select {
		case msg := <-n.netCh:
			atomic.AddInt64(&n.received, 1)
			if err := n.process(msg); err != nil {
				n.fail(err)
				return
			}
		case <-n.controlTimer.tickCh:
			n.logger.Debug("Spontaneous wakeup")
			if err := n.wakeup(); err != nil {
				n.fail(err)
				return
			}
		case <-n.shutdownCh:
			return
		}
	}
}

func (n *Node) wakeup() error {
	n.coreLock.Lock()
	defer n.coreLock.Unlock()

	if err := n.core.Wakeup(); err != nil {
		return err
	}
	n.syncState()
	return nil
}

// process releases msg and any message it unblocks from the reorder buffer and
// runs them through the Core.
func (n *Node) process(msg *net.Message) error {
	n.coreLock.Lock()
	defer n.coreLock.Unlock()

	ready, err := n.reorderer.Receive(msg)
	if err != nil {
		return err
	}

	for _, m := range ready {
		if err := n.core.Handle(m); err != nil {
			return err
		}
	}

	n.syncState()
	return nil
}

// syncState copies the Core's state into the Manager. Must be called with the
// coreLock held.
func (n *Node) syncState() {
	s := n.core.State()
	n.SetState(s)
	if s != state.Sleeping {
		// an awake node has no use for its spontaneous wakeup
		n.controlTimer.Stop()
	}
	if s == state.Halted {
		n.haltedOnce.Do(func() {
			n.logger.WithField("branches", len(n.core.Branches())).Info("Halted")
			close(n.haltedCh)
		})
	}
}

// send is the Sender of the Core. The clock is stamped before returning, so
// the order of send calls is the order the receiver will handle them in.
func (n *Node) send(msg *net.Message) error {
	peer, ok := n.directory.Resolve(msg.To)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnresolved, msg.To)
	}

	msg.Clock = n.clocks.Stamp(msg.To)

	n.logger.WithFields(logrus.Fields{
		"msg": msg.String(),
		"to":  peer.NetAddr,
	}).Debug("Send")

	n.GoFunc(func() {
		n.deliver(peer, msg)
	})

	return nil
}

// deliver pushes msg to the transport, retrying with exponential backoff.
func (n *Node) deliver(peer *peers.Peer, msg *net.Message) {
	backoff := n.conf.RetryBackoff

	for attempt := 0; ; attempt++ {
		err := n.trans.Send(peer.NetAddr, msg)
		if err == nil {
			atomic.AddInt64(&n.sent, 1)
			return
		}

		if err == net.ErrTransportShutdown || attempt >= n.conf.SendRetries {
			atomic.AddInt64(&n.dropped, 1)
			n.logger.WithFields(logrus.Fields{
				"msg":     msg.String(),
				"peer":    peer.String(),
				"attempt": attempt,
				"error":   err,
			}).Error("Failed to deliver message")
			return
		}

		n.logger.WithFields(logrus.Fields{
			"msg":     msg.String(),
			"attempt": attempt,
			"error":   err,
		}).Debug("Retrying send")

		select {
		case <-time.After(backoff):
		case <-n.shutdownCh:
			return
		}
		backoff *= 2
	}
}

func (n *Node) fail(err error) {
	n.errLock.Lock()
	n.err = err
	n.errLock.Unlock()

	n.logger.WithError(err).Error("Protocol fault, stopping node")
}

// Shutdown stops the event loop, closes the transport and waits for pending
// deliveries to finish.
func (n *Node) Shutdown() {
	n.shutdownOnce.Do(func() {
		n.logger.Debug("Shutdown")

		close(n.shutdownCh)

		n.controlTimer.Shutdown()

		// no new delivery routine may start while we wait for the others
		if atomic.LoadInt32(&n.running) == 1 {
			<-n.doneCh
		}

		// closing the transport unblocks deliveries waiting on a delay or on
		// a full consumer
		n.trans.Close()

		n.WaitRoutines()
	})
}

// ID returns the vertex id of the node.
func (n *Node) ID() int {
	return n.id
}

// Halted is closed when the node learns that the spanning tree is complete.
func (n *Node) Halted() <-chan struct{} {
	return n.haltedCh
}

// Done is closed when the event loop exits.
func (n *Node) Done() <-chan struct{} {
	return n.doneCh
}

// Err returns the fault that stopped the node, if any.
func (n *Node) Err() error {
	n.errLock.Lock()
	defer n.errLock.Unlock()
	return n.err
}

// Status returns a snapshot of the protocol state.
func (n *Node) Status() Status {
	n.coreLock.Lock()
	defer n.coreLock.Unlock()
	return n.core.Status()
}

// Branches returns the incident edges this node classified InMST.
func (n *Node) Branches() []graph.Edge {
	n.coreLock.Lock()
	defer n.coreLock.Unlock()
	return n.core.Branches()
}

// GetStats returns a flat description of the node for the status service.
func (n *Node) GetStats() map[string]string {
	n.coreLock.Lock()
	status := n.core.Status()
	buffered := n.reorderer.Buffered()
	n.coreLock.Unlock()

	edgeString := func(e *graph.Edge) string {
		if e == nil {
			return "nil"
		}
		return e.String()
	}

	errString := "nil"
	if err := n.Err(); err != nil {
		errString = err.Error()
	}

	return map[string]string{
		"id":                strconv.Itoa(n.id),
		"state":             status.State.String(),
		"level":             strconv.Itoa(status.Level),
		"core":              status.Name.String(),
		"in_branch":         edgeString(status.InBranch),
		"find_count":        strconv.Itoa(status.FindCount),
		"test_edge":         edgeString(status.TestEdge),
		"best_weight":       status.BestWeight.String(),
		"deferred_tests":    strconv.Itoa(status.DeferredTests),
		"deferred_reports":  strconv.Itoa(status.DeferredReports),
		"deferred_connects": strconv.Itoa(status.DeferredConnects),
		"refused":           strconv.Itoa(status.Refused),
		"reorder_buffer":    strconv.Itoa(buffered),
		"received":          strconv.FormatInt(atomic.LoadInt64(&n.received), 10),
		"sent":              strconv.FormatInt(atomic.LoadInt64(&n.sent), 10),
		"dropped":           strconv.FormatInt(atomic.LoadInt64(&n.dropped), 10),
		"routines":          strconv.Itoa(n.Routines()),
		"time_elapsed":      time.Since(n.start).String(),
		"error":             errString,
	}
}
