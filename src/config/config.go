package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jensdewaard/dist-alg3/src/common"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default filenames.
const (
	// DefaultBadgerFile is the default name of the folder containing the Badger
	// database
	DefaultBadgerFile = "badger_db"

	// DefaultGraphFile is the default name of the graph description read by
	// the run and node commands when no explicit path is given.
	DefaultGraphFile = "graph.txt"

	// DefaultInfoLogFile and DefaultDebugLogFile receive the log output when
	// LogFile is set.
	DefaultInfoLogFile  = "ghs_info.log"
	DefaultDebugLogFile = "ghs_debug.log"
)

// Default configuration values.
const (
	DefaultLogLevel     = "info"
	DefaultBindAddr     = ""
	DefaultServiceAddr  = "127.0.0.1:8000"
	DefaultTCPTimeout   = 1000 * time.Millisecond
	DefaultMaxPool      = 2
	DefaultMaxDelay     = 5 * time.Millisecond
	DefaultWakeupDelay  = 100 * time.Millisecond
	DefaultWakeAll      = false
	DefaultRunTimeout   = 60 * time.Second
	DefaultSendRetries  = 5
	DefaultRetryBackoff = 10 * time.Millisecond
	DefaultVertices     = 10
	DefaultExtraEdges   = 20
	DefaultMaxWeight    = 1000
	DefaultStore        = false
	DefaultNoService    = true
	DefaultVerify       = true
)

// Config contains all the configuration properties of a GHS run, whether it
// simulates the whole graph in one process or runs a single vertex over TCP.
type Config struct {
	// DataDir is the top-level directory containing configuration and data
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// LogFile additionally writes info and debug output to files in DataDir.
	LogFile bool `mapstructure:"log-file"`

	// GraphFile is the path of the graph description. When empty, a random
	// connected graph is generated from Vertices, ExtraEdges and MaxWeight.
	GraphFile string `mapstructure:"graph"`

	// Vertices, ExtraEdges and MaxWeight shape the random graph.
	Vertices   int   `mapstructure:"vertices"`
	ExtraEdges int   `mapstructure:"extra-edges"`
	MaxWeight  int64 `mapstructure:"max-weight"`

	// Seed feeds the random graph and the random network delays. Zero picks
	// a seed from the clock.
	Seed int64 `mapstructure:"seed"`

	// NodeID is the vertex run by the node command.
	NodeID int `mapstructure:"id"`

	// BindAddr is the local address:port where the node command listens for
	// protocol messages. When empty, the address of the node in peers.json is
	// used.
	BindAddr string `mapstructure:"listen"`

	// AdvertiseAddr is used to change the address that we advertise to other
	// nodes.
	AdvertiseAddr string `mapstructure:"advertise"`

	// MaxPool controls how many connections are pooled per neighbour.
	MaxPool int `mapstructure:"max-pool"`

	// TCPTimeout is the dial and write timeout of TCP connections.
	TCPTimeout time.Duration `mapstructure:"timeout"`

	// MaxDelay bounds the random delay of every in-memory message. Zero
	// delivers immediately.
	MaxDelay time.Duration `mapstructure:"max-delay"`

	// WakeupDelay bounds the random delay before an initiator wakes up.
	WakeupDelay time.Duration `mapstructure:"wakeup-delay"`

	// WakeAll makes every vertex an initiator. Otherwise only the lower
	// endpoint of the lightest edge wakes up on its own.
	WakeAll bool `mapstructure:"wake-all"`

	// RunTimeout bounds the time a run may take before it is abandoned.
	RunTimeout time.Duration `mapstructure:"run-timeout"`

	// SendRetries and RetryBackoff control redelivery of failed sends.
	SendRetries  int           `mapstructure:"send-retries"`
	RetryBackoff time.Duration `mapstructure:"retry-backoff"`

	// Verify compares the distributed result with a sequential Kruskal run.
	Verify bool `mapstructure:"verify"`

	// Store activates persistant storage.
	Store bool `mapstructure:"store"`

	// DatabaseDir is the directory containing database files.
	DatabaseDir string `mapstructure:"db"`

	// NoService disables the HTTP API service.
	NoService bool `mapstructure:"no-service"`

	// ServiceAddr is the address:port of the optional HTTP service.
	ServiceAddr string `mapstructure:"service-listen"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	config := &Config{
		DataDir:      DefaultDataDir(),
		LogLevel:     DefaultLogLevel,
		Vertices:     DefaultVertices,
		ExtraEdges:   DefaultExtraEdges,
		MaxWeight:    DefaultMaxWeight,
		BindAddr:     DefaultBindAddr,
		MaxPool:      DefaultMaxPool,
		TCPTimeout:   DefaultTCPTimeout,
		MaxDelay:     DefaultMaxDelay,
		WakeupDelay:  DefaultWakeupDelay,
		WakeAll:      DefaultWakeAll,
		RunTimeout:   DefaultRunTimeout,
		SendRetries:  DefaultSendRetries,
		RetryBackoff: DefaultRetryBackoff,
		Verify:       DefaultVerify,
		Store:        DefaultStore,
		DatabaseDir:  DefaultDatabaseDir(),
		NoService:    DefaultNoService,
		ServiceAddr:  DefaultServiceAddr,
	}

	return config
}

// NewTestConfig returns a config object with default values and a special
// logger for debugging tests.
func NewTestConfig(t testing.TB, level logrus.Level) *Config {
	config := NewDefaultConfig()
	config.DataDir = ""
	config.DatabaseDir = ""
	config.WakeupDelay = 10 * time.Millisecond
	config.MaxDelay = time.Millisecond
	config.RunTimeout = 10 * time.Second
	config.logger = common.NewTestLogger(t, level)
	return config
}

// SetDataDir sets the top-level directory, and updates the database
// directory if it is currently set to the default value. If the database
// directory is not currently the default, it means the user has explicitely set
// it to something else, so avoid changing it again here.
func (c *Config) SetDataDir(dataDir string) {
	c.DataDir = dataDir
	if c.DatabaseDir == DefaultDatabaseDir() {
		c.DatabaseDir = filepath.Join(dataDir, DefaultBadgerFile)
	}
}

// GraphPath returns the graph file to load, or an empty string when the
// graph should be generated.
func (c *Config) GraphPath() string {
	if c.GraphFile == "" {
		return ""
	}
	if filepath.IsAbs(c.GraphFile) {
		return c.GraphFile
	}
	if _, err := os.Stat(c.GraphFile); err == nil {
		return c.GraphFile
	}
	return filepath.Join(c.DataDir, c.GraphFile)
}

// SetLogger replaces the logger returned by Logger.
func (c *Config) SetLogger(logger *logrus.Logger) {
	c.logger = logger
}

// Logger returns a formatted logrus Entry, with prefix set to "ghs".
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)

		if c.LogFile {
			c.addFileHook()
		}
	}
	return c.logger.WithField("prefix", "ghs")
}

// addFileHook mirrors info and debug output into files of the data
// directory.
func (c *Config) addFileHook() {
	if err := os.MkdirAll(c.DataDir, 0700); err != nil {
		c.logger.WithError(err).Info("Failed to create data directory, logging to stderr only")
		return
	}

	pathMap := lfshook.PathMap{
		logrus.InfoLevel:  filepath.Join(c.DataDir, DefaultInfoLogFile),
		logrus.WarnLevel:  filepath.Join(c.DataDir, DefaultInfoLogFile),
		logrus.ErrorLevel: filepath.Join(c.DataDir, DefaultInfoLogFile),
		logrus.DebugLevel: filepath.Join(c.DataDir, DefaultDebugLogFile),
	}

	c.logger.Hooks.Add(lfshook.NewHook(
		pathMap,
		&logrus.TextFormatter{},
	))
}

// DefaultDatabaseDir returns the default path for the badger database files.
func DefaultDatabaseDir() string {
	return filepath.Join(DefaultDataDir(), DefaultBadgerFile)
}

// DefaultDataDir return the default directory name for top-level config
// based on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".GHS")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "GHS")
		} else {
			return filepath.Join(home, ".ghs")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
