package store

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/dgraph-io/badger"
	cm "github.com/jensdewaard/dist-alg3/src/common"
	"github.com/sirupsen/logrus"
)

const (
	runPrefix  = "run"
	lastRunKey = "last_run"
)

// BadgerStore persists runs in a Badger database.
type BadgerStore struct {
	sync.Mutex
	db   *badger.DB
	path string
	last int
}

// NewBadgerStore opens an existing database or creates a new one if nothing is
// found in path.
func NewBadgerStore(path string, logger *logrus.Entry) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).
		WithSyncWrites(false).
		WithTruncate(true)

	if logger != nil {
		sub := logger.WithFields(logrus.Fields{"ns": "badger"})
		opts = opts.WithLogger(sub)
	}

	handle, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	store := &BadgerStore{
		db:   handle,
		path: path,
		last: -1,
	}

	last, err := store.dbGetLastRunIndex()
	if err != nil && !isDBKeyNotFound(err) {
		handle.Close()
		return nil, err
	}
	if err == nil {
		store.last = last
	}

	return store, nil
}

/*******************************************************************************
Keys
*******************************************************************************/

func runKey(index int) []byte {
	return []byte(fmt.Sprintf("%s_%09d", runPrefix, index))
}

/*******************************************************************************
Implement the Store interface
*******************************************************************************/

// AddRun implements the Store interface.
func (s *BadgerStore) AddRun(run *Run) (int, error) {
	s.Lock()
	defer s.Unlock()

	run.Index = s.last + 1
	if err := s.dbSetRun(run); err != nil {
		return -1, err
	}
	s.last = run.Index
	return run.Index, nil
}

// GetRun implements the Store interface.
func (s *BadgerStore) GetRun(index int) (*Run, error) {
	run, err := s.dbGetRun(index)
	return run, mapError(err, "Run", string(runKey(index)))
}

// LastRun implements the Store interface.
func (s *BadgerStore) LastRun() (*Run, error) {
	last := s.LastRunIndex()
	if last < 0 {
		return nil, cm.NewStoreErr("Run", cm.Empty, "")
	}
	return s.GetRun(last)
}

// LastRunIndex implements the Store interface.
func (s *BadgerStore) LastRunIndex() int {
	s.Lock()
	defer s.Unlock()
	return s.last
}

// Close implements the Store interface.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// StorePath implements the Store interface.
func (s *BadgerStore) StorePath() string {
	return s.path
}

/*******************************************************************************
DB Methods
*******************************************************************************/

func (s *BadgerStore) dbGetRun(index int) (*Run, error) {
	var runBytes []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(runKey(index))
		if err != nil {
			return err
		}
		runBytes, err = item.ValueCopy(nil)
		return err
	})

	if err != nil {
		return nil, err
	}

	run := new(Run)
	if err := run.Unmarshal(runBytes); err != nil {
		return nil, err
	}

	return run, nil
}

// dbSetRun writes the run and moves the last-run pointer in one transaction.
func (s *BadgerStore) dbSetRun(run *Run) error {
	tx := s.db.NewTransaction(true)
	defer tx.Discard()

	val, err := run.Marshal()
	if err != nil {
		return err
	}

	if err := tx.Set(runKey(run.Index), val); err != nil {
		return err
	}

	if err := tx.Set([]byte(lastRunKey), []byte(strconv.Itoa(run.Index))); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *BadgerStore) dbGetLastRunIndex() (int, error) {
	var last int
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(lastRunKey))
		if err != nil {
			return err
		}
		v, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		last, err = strconv.Atoi(string(v))
		return err
	})
	return last, err
}

func isDBKeyNotFound(err error) bool {
	return err == badger.ErrKeyNotFound
}

func mapError(err error, name, key string) error {
	if err != nil {
		if isDBKeyNotFound(err) {
			return cm.NewStoreErr(name, cm.KeyNotFound, key)
		}
	}
	return err
}
