package main

import (
	_ "net/http/pprof"
	"os"

	cmd "github.com/jensdewaard/dist-alg3/cmd/ghs/commands"
)

func main() {
	rootCmd := cmd.RootCmd

	rootCmd.AddCommand(
		cmd.VersionCmd,
		cmd.NewRunCmd(),
		cmd.NewNodeCmd(),
		cmd.NewShowCmd())

	//Do not print usage when error occurs
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
