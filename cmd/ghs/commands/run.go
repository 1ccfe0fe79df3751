package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jensdewaard/dist-alg3/src/ghs"
	"github.com/jensdewaard/dist-alg3/src/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//NewRunCmd returns the command that simulates a whole graph in one process
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Compute the spanning tree of a graph with one in-memory node per vertex",
		PreRunE: loadConfig,
		RunE:    runGHS,
	}
	AddRunFlags(cmd)
	return cmd
}

/*******************************************************************************
* RUN
*******************************************************************************/

func runGHS(cmd *cobra.Command, args []string) error {
	engine := ghs.NewGHS(&_config.GHS)

	if err := engine.Init(); err != nil {
		_config.GHS.Logger().Error("Cannot initialize engine:", err)
		return err
	}
	defer engine.Shutdown()

	return runEngine(engine)
}

// runEngine runs an initialized engine, prints the result, and keeps the HTTP
// service up until interrupted.
func runEngine(engine *ghs.GHS) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := engine.Run(ctx)
	if run != nil {
		printRun(run)
	}
	if err != nil {
		return err
	}

	if engine.Service != nil {
		_config.GHS.Logger().
			WithField("service", _config.GHS.ServiceAddr).
			Info("Serving results, interrupt to exit")
		<-ctx.Done()
	}

	return nil
}

func printRun(run *store.Run) {
	fmt.Printf("Run %d: %d vertices, %d edges, %s\n",
		run.Index, run.Order, len(run.Edges), run.Duration())

	for _, n := range run.Nodes {
		line := fmt.Sprintf("[Node %d, Level %d, Core %s] %s, %d branches",
			n.ID, n.Level, n.Core, n.State, n.Branches)
		if n.Error != "" {
			line += ", error: " + n.Error
		}
		fmt.Println(line)
	}

	fmt.Println("MST:")
	for _, e := range run.MST {
		fmt.Printf("  %s %d\n", e, e.Weight.Value)
	}
	fmt.Printf("Total weight: %d, verified: %t\n", run.TotalWeight, run.Verified)
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

//AddRunFlags adds flags to the Run command
func AddRunFlags(cmd *cobra.Command) {
	addCommonFlags(cmd)

	// Network
	cmd.Flags().Duration("max-delay", _config.GHS.MaxDelay, "Max random delay of a message")
	cmd.Flags().Bool("wake-all", _config.GHS.WakeAll, "Wake every vertex up spontaneously")
}

// addCommonFlags adds the flags shared by the run and node commands.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("datadir", _config.GHS.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().String("log", _config.GHS.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().Bool("log-file", _config.GHS.LogFile, "Also write the logs to files in datadir")

	// Graph
	cmd.Flags().StringP("graph", "g", _config.GHS.GraphFile, "Graph file, random graph if empty")
	cmd.Flags().Int64("seed", _config.GHS.Seed, "Seed of the random graph and delays, 0 for a random seed")
	cmd.Flags().Int("vertices", _config.GHS.Vertices, "Number of vertices of the random graph")
	cmd.Flags().Int("extra-edges", _config.GHS.ExtraEdges, "Edges added to the random spanning chain")
	cmd.Flags().Int64("max-weight", _config.GHS.MaxWeight, "Max edge weight of the random graph")

	// Protocol
	cmd.Flags().Duration("wakeup-delay", _config.GHS.WakeupDelay, "Max random delay before an initiator wakes up")
	cmd.Flags().Duration("run-timeout", _config.GHS.RunTimeout, "Time allowed for the run, 0 for no limit")
	cmd.Flags().Int("send-retries", _config.GHS.SendRetries, "Retries of a failed send")
	cmd.Flags().Duration("retry-backoff", _config.GHS.RetryBackoff, "Delay before the first retry of a send")
	cmd.Flags().Bool("verify", _config.GHS.Verify, "Check the result against Kruskal")

	// Service
	cmd.Flags().Bool("no-service", _config.GHS.NoService, "Disable HTTP service")
	cmd.Flags().StringP("service-listen", "s", _config.GHS.ServiceAddr, "Listen IP:Port for HTTP service")

	// Store
	cmd.Flags().Bool("store", _config.GHS.Store, "Record runs in badgerDB instead of in-mem DB")
	cmd.Flags().String("db", _config.GHS.DatabaseDir, "Database directory")
}

func loadConfig(cmd *cobra.Command, args []string) error {

	err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	// If --datadir was explicitely set, but not --db, this will update the
	// default database dir to be inside the new datadir
	_config.GHS.SetDataDir(_config.GHS.DataDir)

	logFields := logrus.Fields{
		"ghs.DataDir":      _config.GHS.DataDir,
		"ghs.LogLevel":     _config.GHS.LogLevel,
		"ghs.LogFile":      _config.GHS.LogFile,
		"ghs.GraphFile":    _config.GHS.GraphFile,
		"ghs.Seed":         _config.GHS.Seed,
		"ghs.WakeupDelay":  _config.GHS.WakeupDelay,
		"ghs.RunTimeout":   _config.GHS.RunTimeout,
		"ghs.SendRetries":  _config.GHS.SendRetries,
		"ghs.RetryBackoff": _config.GHS.RetryBackoff,
		"ghs.Verify":       _config.GHS.Verify,
		"ghs.NoService":    _config.GHS.NoService,
		"ghs.ServiceAddr":  _config.GHS.ServiceAddr,
		"ghs.Store":        _config.GHS.Store,
	}

	if _config.GHS.GraphFile == "" {
		logFields["ghs.Vertices"] = _config.GHS.Vertices
		logFields["ghs.ExtraEdges"] = _config.GHS.ExtraEdges
		logFields["ghs.MaxWeight"] = _config.GHS.MaxWeight
	}

	if _config.GHS.Store {
		logFields["ghs.DatabaseDir"] = _config.GHS.DatabaseDir
	}

	_config.GHS.Logger().WithFields(logFields).Debug("RUN")

	return nil
}

// Bind all flags and read the config into viper
func bindFlagsLoadViper(cmd *cobra.Command) error {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	// look for config file in [datadir]/ghs.toml (.json, .yaml also work)
	viper.SetConfigName("ghs")               // name of config file (without extension)
	viper.AddConfigPath(_config.GHS.DataDir) // search root directory

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		_config.GHS.Logger().Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		_config.GHS.Logger().Debugf("No config file found in: %s", _config.GHS.DataDir)
	} else {
		return err
	}

	// second unmarshal to read from config file
	return viper.Unmarshal(_config)
}
