package net

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"
)

// NewInmemAddr returns a new in-memory addr with
// a randomly generate UUID as the ID.
func NewInmemAddr() string {
	return generateUUID()
}

// generateUUID is used to generate a random UUID.
func generateUUID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Errorf("failed to read random bytes: %v", err))
	}

	return fmt.Sprintf("%08x-%04x-%04x-%04x-%12x",
		buf[0:4],
		buf[4:6],
		buf[6:8],
		buf[8:10],
		buf[10:16])
}

// InmemTransport Implements the Transport interface, to allow a set of nodes
// to run in a single process without going over a network. Every message is
// held back for the duration returned by the transport's Delay before it
// reaches the consumer of the target.
type InmemTransport struct {
	sync.RWMutex
	consumerCh chan *Message
	localAddr  string
	peers      map[string]*InmemTransport
	delay      Delay
	shutdownCh chan struct{}
	closeOnce  sync.Once
}

// NewInmemTransport is used to initialize a new transport
// and generates a random local address if none is specified.
// A nil delay means NoDelay.
func NewInmemTransport(addr string, delay Delay) (string, *InmemTransport) {
	if addr == "" {
		addr = NewInmemAddr()
	}
	if delay == nil {
		delay = NoDelay{}
	}
	trans := &InmemTransport{
		consumerCh: make(chan *Message, 64),
		localAddr:  addr,
		peers:      make(map[string]*InmemTransport),
		delay:      delay,
		shutdownCh: make(chan struct{}),
	}
	return addr, trans
}

// Consumer implements the Transport interface.
func (i *InmemTransport) Consumer() <-chan *Message {
	return i.consumerCh
}

// LocalAddr implements the Transport interface.
func (i *InmemTransport) LocalAddr() string {
	return i.localAddr
}

// AdvertiseAddr implements the Transport interface.
func (i *InmemTransport) AdvertiseAddr() string {
	return i.localAddr
}

// Send implements the Transport interface. It sleeps for the configured delay
// and then hands a copy of msg to the target, so callers must not expect it to
// return quickly.
func (i *InmemTransport) Send(target string, msg *Message) error {
	i.RLock()
	peer, ok := i.peers[target]
	i.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownTarget, target)
	}

	if d := i.delay.Next(); d > 0 {
		select {
		case <-time.After(d):
		case <-i.shutdownCh:
			return ErrTransportShutdown
		}
	}

	cp := *msg

	select {
	case peer.consumerCh <- &cp:
		return nil
	case <-peer.shutdownCh:
		return ErrTransportShutdown
	case <-i.shutdownCh:
		return ErrTransportShutdown
	}
}

// Connect is used to connect this transport to another transport for
// a given peer name. This allows for local routing.
func (i *InmemTransport) Connect(peer string, t Transport) {
	trans := t.(*InmemTransport)
	i.Lock()
	defer i.Unlock()
	i.peers[peer] = trans
}

// Disconnect is used to remove the ability to route to a given peer.
func (i *InmemTransport) Disconnect(peer string) {
	i.Lock()
	defer i.Unlock()
	delete(i.peers, peer)
}

// DisconnectAll is used to remove all routes to peers.
func (i *InmemTransport) DisconnectAll() {
	i.Lock()
	defer i.Unlock()
	i.peers = make(map[string]*InmemTransport)
}

// Close is used to permanently disable the transport
func (i *InmemTransport) Close() error {
	i.closeOnce.Do(func() {
		close(i.shutdownCh)
	})
	i.DisconnectAll()
	return nil
}

// Listen is an empty function as there is no need to defer
// initialisation of the InMem service
func (i *InmemTransport) Listen() {
}

// ConnectAll wires every pair of transports together so that each can reach
// the others by their local address.
func ConnectAll(transports []*InmemTransport) {
	for _, a := range transports {
		for _, b := range transports {
			if a != b {
				a.Connect(b.LocalAddr(), b)
			}
		}
	}
}
