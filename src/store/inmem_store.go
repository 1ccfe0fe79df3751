package store

import (
	"strconv"
	"sync"

	cm "github.com/jensdewaard/dist-alg3/src/common"
)

// InmemStore implements the Store interface in memory. Runs are lost when the
// process exits.
type InmemStore struct {
	sync.RWMutex
	runs []*Run
}

// NewInmemStore creates an empty InmemStore.
func NewInmemStore() *InmemStore {
	return &InmemStore{}
}

// AddRun implements the Store interface.
func (s *InmemStore) AddRun(run *Run) (int, error) {
	s.Lock()
	defer s.Unlock()

	run.Index = len(s.runs)
	s.runs = append(s.runs, run)
	return run.Index, nil
}

// GetRun implements the Store interface.
func (s *InmemStore) GetRun(index int) (*Run, error) {
	s.RLock()
	defer s.RUnlock()

	if index < 0 || index >= len(s.runs) {
		return nil, cm.NewStoreErr("RunCache", cm.KeyNotFound, strconv.Itoa(index))
	}
	return s.runs[index], nil
}

// LastRun implements the Store interface.
func (s *InmemStore) LastRun() (*Run, error) {
	s.RLock()
	defer s.RUnlock()

	if len(s.runs) == 0 {
		return nil, cm.NewStoreErr("RunCache", cm.Empty, "")
	}
	return s.runs[len(s.runs)-1], nil
}

// LastRunIndex implements the Store interface.
func (s *InmemStore) LastRunIndex() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.runs) - 1
}

// Close implements the Store interface.
func (s *InmemStore) Close() error {
	return nil
}

// StorePath implements the Store interface.
func (s *InmemStore) StorePath() string {
	return ""
}
