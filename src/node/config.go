package node

import (
	"testing"
	"time"

	"github.com/jensdewaard/dist-alg3/src/common"
	"github.com/sirupsen/logrus"
)

// Config holds the settings of a single node.
type Config struct {
	// WakeupDelay bounds the random delay before an initiator wakes up
	// spontaneously.
	WakeupDelay time.Duration `mapstructure:"wakeup-delay"`

	// Initiator nodes wake up on their own. Other nodes sleep until their
	// first message.
	Initiator bool `mapstructure:"initiator"`

	// SendRetries is the number of times a failed send is retried before the
	// message is given up.
	SendRetries int `mapstructure:"send-retries"`

	// RetryBackoff is the delay before the first retry. It doubles with each
	// attempt.
	RetryBackoff time.Duration `mapstructure:"retry-backoff"`

	Logger *logrus.Logger
}

// NewConfig ...
func NewConfig(wakeupDelay time.Duration,
	initiator bool,
	sendRetries int,
	retryBackoff time.Duration,
	logger *logrus.Logger) *Config {

	return &Config{
		WakeupDelay:  wakeupDelay,
		Initiator:    initiator,
		SendRetries:  sendRetries,
		RetryBackoff: retryBackoff,
		Logger:       logger,
	}
}

// DefaultConfig ...
func DefaultConfig() *Config {
	logger := logrus.New()
	logger.Level = logrus.DebugLevel

	return &Config{
		WakeupDelay:  100 * time.Millisecond,
		Initiator:    false,
		SendRetries:  5,
		RetryBackoff: 10 * time.Millisecond,
		Logger:       logger,
	}
}

// TestConfig returns a default Config logging into t.
func TestConfig(t testing.TB) *Config {
	config := DefaultConfig()
	config.WakeupDelay = 10 * time.Millisecond
	config.Logger = common.NewTestLogger(t, common.TestLogLevel)
	return config
}
