package peers

import (
	"fmt"
	"io/ioutil"
	"os"
	"sync"
	"testing"
)

func TestDirectoryResolve(t *testing.T) {
	dir, err := NewDirectory([]*Peer{
		NewPeer(2, "addr2", ""),
		NewPeer(1, "addr1", "first"),
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	p, ok := dir.Resolve(1)
	if !ok {
		t.Fatalf("peer 1 should be found")
	}
	if p.NetAddr != "addr1" || p.Moniker != "first" {
		t.Fatalf("bad peer: %v", p)
	}

	if _, ok := dir.Resolve(3); ok {
		t.Fatalf("peer 3 should not be found")
	}

	ps := dir.Peers()
	if len(ps) != 2 || ps[0].ID != 1 || ps[1].ID != 2 {
		t.Fatalf("peers should be sorted by id: %v", ps)
	}
	if ps[1].Moniker != "node2" {
		t.Fatalf("default moniker should be node2, not %s", ps[1].Moniker)
	}
}

func TestDirectoryDuplicate(t *testing.T) {
	_, err := NewDirectory([]*Peer{
		NewPeer(1, "a", ""),
		NewPeer(1, "b", ""),
	})
	if err == nil {
		t.Fatalf("duplicate ids should be refused")
	}
}

func TestDirectoryConcurrentResolve(t *testing.T) {
	dir, _ := NewDirectory(nil)
	for i := 1; i <= 10; i++ {
		dir.Add(NewPeer(i, fmt.Sprintf("addr%d", i), ""))
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := i%10 + 1
			p, ok := dir.Resolve(id)
			if !ok || p.ID != id {
				t.Errorf("peer %d should resolve", id)
			}
		}(i)
	}
	wg.Wait()
}

func TestJSONPeers(t *testing.T) {
	// Create a test dir
	dir, err := ioutil.TempDir("", "ghs")
	if err != nil {
		t.Fatalf("err: %v ", err)
	}
	defer os.RemoveAll(dir)

	// Create the store
	store := NewJSONPeers(dir)

	// Try a read, should get an error
	if _, err := store.Directory(); err == nil {
		t.Fatalf("store.Directory() should generate an error")
	}

	peers := []*Peer{}
	for i := 1; i <= 3; i++ {
		peers = append(peers, NewPeer(i, fmt.Sprintf("127.0.0.1:%d", 1336+i), ""))
	}

	if err := store.Write(peers); err != nil {
		t.Fatalf("err: %v", err)
	}

	// Try a read, should find 3 peers
	d, err := store.Directory()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if d.Len() != 3 {
		t.Fatalf("directory should contain 3 peers, not %d", d.Len())
	}

	for _, exp := range peers {
		got, ok := d.Resolve(exp.ID)
		if !ok {
			t.Fatalf("peer %d not found", exp.ID)
		}
		if *got != *exp {
			t.Fatalf("peer %d should be %v, not %v", exp.ID, exp, got)
		}
	}
}
