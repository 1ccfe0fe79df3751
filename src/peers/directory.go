package peers

import (
	"fmt"
	"sort"
	"sync"
)

// Directory resolves node ids to peers. Lookups may run concurrently from every
// node of the process.
type Directory struct {
	sync.RWMutex
	byID map[int]*Peer
}

// NewDirectory creates a Directory holding the given peers. Duplicate ids are
// refused.
func NewDirectory(peers []*Peer) (*Directory, error) {
	d := &Directory{
		byID: make(map[int]*Peer),
	}
	for _, p := range peers {
		if err := d.Add(p); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Add registers a peer.
func (d *Directory) Add(p *Peer) error {
	d.Lock()
	defer d.Unlock()

	if _, ok := d.byID[p.ID]; ok {
		return fmt.Errorf("peer %d already registered", p.ID)
	}
	d.byID[p.ID] = p
	return nil
}

// Resolve returns the peer registered under id. The boolean is false when no
// such peer exists.
func (d *Directory) Resolve(id int) (*Peer, bool) {
	d.RLock()
	defer d.RUnlock()

	p, ok := d.byID[id]
	return p, ok
}

// Peers returns the registered peers sorted by id.
func (d *Directory) Peers() []*Peer {
	d.RLock()
	defer d.RUnlock()

	res := make([]*Peer, 0, len(d.byID))
	for _, p := range d.byID {
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// Len returns the number of registered peers.
func (d *Directory) Len() int {
	d.RLock()
	defer d.RUnlock()
	return len(d.byID)
}
