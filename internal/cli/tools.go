package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errBadArgs = errors.New("tool arguments must be a json object")

func newToolsCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools available to an agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.registry.Describe())
			return nil
		},
	}
}

func newCallCmd(opts *rootOpts) *cobra.Command {
	var observe bool
	cmd := &cobra.Command{
		Use:   "call tool [json-args]",
		Short: "Call a tool the way an agent would",
		Long: "Call a tool the way an agent would. With --observe, failures are printed as the " +
			"observation text an agent receives and the command succeeds.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			toolArgs := map[string]any{}
			if len(args) == 2 {
				if err := json.Unmarshal([]byte(args[1]), &toolArgs); err != nil {
					return fmt.Errorf("%w: %v", errBadArgs, err)
				}
			}
			if observe {
				fmt.Fprintln(cmd.OutOrStdout(), a.registry.Observe(args[0], toolArgs))
				return nil
			}
			result, err := a.registry.Call(args[0], toolArgs)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&observe, "observe", false, "print failures as agent observations instead of failing")
	return cmd
}
