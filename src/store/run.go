package store

import (
	"bytes"
	"time"

	"github.com/jensdewaard/dist-alg3/src/graph"
	"github.com/ugorji/go/codec"
)

// NodeSummary is the final state of one node.
type NodeSummary struct {
	ID       int
	State    string
	Level    int
	Core     string
	Branches int
	Refused  int
	Error    string
}

// Run is the record of one spanning tree computation.
type Run struct {
	Index       int
	Started     time.Time
	Finished    time.Time
	Order       int
	Edges       []graph.Edge
	MST         []graph.Edge
	TotalWeight int64
	Verified    bool
	Nodes       []NodeSummary
}

// Duration returns the wall-clock time of the run.
func (r *Run) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Marshal ...
func (r *Run) Marshal() ([]byte, error) {
	b := new(bytes.Buffer)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(b, jh)

	if err := enc.Encode(r); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// Unmarshal ...
func (r *Run) Unmarshal(data []byte) error {
	b := bytes.NewBuffer(data)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	dec := codec.NewDecoder(b, jh)

	return dec.Decode(r)
}
