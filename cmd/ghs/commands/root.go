package commands

import (
	"github.com/spf13/cobra"
)

//RootCmd is the root command for GHS
var RootCmd = &cobra.Command{
	Use:              "ghs",
	Short:            "distributed minimum spanning tree",
	TraverseChildren: true,
}
