package peers

import "fmt"

// Peer is a node of the graph and the transport address where it listens.
type Peer struct {
	ID      int
	NetAddr string
	Moniker string
}

// NewPeer creates a Peer. An empty moniker defaults to "node<id>".
func NewPeer(id int, netAddr string, moniker string) *Peer {
	if moniker == "" {
		moniker = fmt.Sprintf("node%d", id)
	}
	return &Peer{
		ID:      id,
		NetAddr: netAddr,
		Moniker: moniker,
	}
}

// String ...
func (p *Peer) String() string {
	return fmt.Sprintf("%s(%d)@%s", p.Moniker, p.ID, p.NetAddr)
}
