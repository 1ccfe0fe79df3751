package store

// Store is an interface for backend stores.
type Store interface {
	// AddRun saves a run, sets its Index, and returns it.
	AddRun(run *Run) (int, error)
	// GetRun returns the run with the given index.
	GetRun(index int) (*Run, error)
	// LastRun returns the most recent run.
	LastRun() (*Run, error)
	// LastRunIndex returns the index of the most recent run, or -1.
	LastRunIndex() int
	// Close closes the store.
	Close() error
	// StorePath returns the location of the data, empty for in-memory stores.
	StorePath() string
}
