package commands

import (
	"github.com/jensdewaard/dist-alg3/src/config"
)

var _config = NewDefaultCLIConfig()

//CLIConfig contains configuration for the commands
type CLIConfig struct {
	GHS config.Config `mapstructure:",squash"`

	// RunIndex selects the run printed by the show command. A negative index
	// selects the last run.
	RunIndex int `mapstructure:"index"`
}

//NewDefaultCLIConfig creates a CLIConfig with default values
func NewDefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		GHS:      *config.NewDefaultConfig(),
		RunIndex: -1,
	}
}
