package commands

import (
	"github.com/jensdewaard/dist-alg3/src/store"
	"github.com/spf13/cobra"
)

//NewShowCmd returns the command that prints a recorded run
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Print a run recorded in the database",
		PreRunE: loadConfig,
		RunE:    show,
	}
	AddShowFlags(cmd)
	return cmd
}

func show(cmd *cobra.Command, args []string) error {
	logger := _config.GHS.Logger()

	s, err := store.NewBadgerStore(_config.GHS.DatabaseDir, logger)
	if err != nil {
		logger.Error("Cannot open database:", err)
		return err
	}
	defer s.Close()

	var run *store.Run
	if _config.RunIndex < 0 {
		run, err = s.LastRun()
	} else {
		run, err = s.GetRun(_config.RunIndex)
	}
	if err != nil {
		return err
	}

	printRun(run)
	return nil
}

//AddShowFlags adds flags to the Show command
func AddShowFlags(cmd *cobra.Command) {
	cmd.Flags().String("datadir", _config.GHS.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().String("db", _config.GHS.DatabaseDir, "Database directory")
	cmd.Flags().String("log", _config.GHS.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().Int("index", _config.RunIndex, "Index of the run, last run if negative")
}
