package commands

import (
	"github.com/jensdewaard/dist-alg3/src/ghs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//NewNodeCmd returns the command that runs a single vertex over TCP
func NewNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "node",
		Short:   "Run one vertex, reaching its neighbours over TCP",
		PreRunE: loadNodeConfig,
		RunE:    runNode,
	}
	AddNodeFlags(cmd)
	return cmd
}

/*******************************************************************************
* RUN
*******************************************************************************/

func runNode(cmd *cobra.Command, args []string) error {
	engine := ghs.NewGHS(&_config.GHS)

	if err := engine.InitNode(); err != nil {
		_config.GHS.Logger().Error("Cannot initialize node:", err)
		return err
	}
	defer engine.Shutdown()

	return runEngine(engine)
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

//AddNodeFlags adds flags to the Node command
func AddNodeFlags(cmd *cobra.Command) {
	addCommonFlags(cmd)

	cmd.Flags().IntP("id", "i", _config.GHS.NodeID, "Vertex run by this process")
	cmd.Flags().Bool("wake-all", _config.GHS.WakeAll, "Wake this vertex up even if it is not an endpoint of the lightest edge")

	// Network
	cmd.Flags().StringP("listen", "l", _config.GHS.BindAddr, "Listen IP:Port, defaults to the address in peers.json")
	cmd.Flags().StringP("advertise", "a", _config.GHS.AdvertiseAddr, "Advertise IP:Port")
	cmd.Flags().DurationP("timeout", "t", _config.GHS.TCPTimeout, "TCP Timeout")
	cmd.Flags().Int("max-pool", _config.GHS.MaxPool, "Connection pool size max")
}

func loadNodeConfig(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd, args); err != nil {
		return err
	}

	_config.GHS.Logger().WithFields(logrus.Fields{
		"ghs.NodeID":        _config.GHS.NodeID,
		"ghs.BindAddr":      _config.GHS.BindAddr,
		"ghs.AdvertiseAddr": _config.GHS.AdvertiseAddr,
		"ghs.TCPTimeout":    _config.GHS.TCPTimeout,
		"ghs.MaxPool":       _config.GHS.MaxPool,
	}).Debug("NODE")

	return nil
}
