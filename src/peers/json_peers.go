package peers

import (
	"io/ioutil"
	"path/filepath"
	"sync"

	"github.com/ugorji/go/codec"
)

const jsonPeerPath = "peers.json"

// JSONPeers is used to provide peer persistence on disk in the form
// of a JSON file. This allows human operators to manipulate the file.
type JSONPeers struct {
	l    sync.Mutex
	path string
}

// NewJSONPeers creates a new JSONPeers store.
func NewJSONPeers(base string) *JSONPeers {
	path := filepath.Join(base, jsonPeerPath)
	store := &JSONPeers{
		path: path,
	}
	return store
}

// Path returns the location of the peers file.
func (j *JSONPeers) Path() string {
	return j.path
}

// Directory parses the JSON file and returns the corresponding Directory.
func (j *JSONPeers) Directory() (*Directory, error) {
	j.l.Lock()
	defer j.l.Unlock()

	// Read the file
	buf, err := ioutil.ReadFile(j.path)
	if err != nil {
		return nil, err
	}

	// Check for no peers
	if len(buf) == 0 {
		return NewDirectory(nil)
	}

	// Decode the peers
	var peers []*Peer
	dec := codec.NewDecoderBytes(buf, &codec.JsonHandle{})
	if err := dec.Decode(&peers); err != nil {
		return nil, err
	}

	return NewDirectory(peers)
}

// Write persists peers to the JSON file.
func (j *JSONPeers) Write(peers []*Peer) error {
	j.l.Lock()
	defer j.l.Unlock()

	var buf []byte
	jh := &codec.JsonHandle{Indent: 2}
	enc := codec.NewEncoderBytes(&buf, jh)
	if err := enc.Encode(peers); err != nil {
		return err
	}

	// Write out as JSON
	return ioutil.WriteFile(j.path, buf, 0644)
}
