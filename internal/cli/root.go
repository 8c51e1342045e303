// Package cli implements the cmdtool commands.
package cli

import (
	"github.com/spf13/cobra"
)

type rootOpts struct {
	configPath string
	envPath    string
	verbose    bool
}

// NewRootCmd builds the cmdtool command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOpts{}
	root := &cobra.Command{
		Use:          "cmdtool",
		Short:        "Turn natural language tasks into validated ffmpeg commands and run them",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "cmdtool.yaml", "config file path")
	root.PersistentFlags().StringVar(&opts.envPath, "env", ".env", "path to .env file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newExecCmd(opts))
	root.AddCommand(newPlanCmd(opts))
	root.AddCommand(newToolsCmd(opts))
	root.AddCommand(newCallCmd(opts))
	return root
}
