package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JoshPattman/cmdtool"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newExecCmd(opts *rootOpts) *cobra.Command {
	var async, events bool
	cmd := &cobra.Command{
		Use:   "exec [task...]",
		Short: "Generate a command for a task and run it",
		Long:  "Generate a command for a task and run it. With no task, tasks are read from stdin, one per line.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			var execOpts []cmdtool.ExecOpt
			if events {
				execOpts = append(execOpts, cmdtool.WithCallEventStreamer(cmdtool.NewJSONLinesStreamer(cmd.ErrOrStderr())))
			}
			useAsync := async || a.cfg.Command.Async

			run := func(task string) error {
				var out string
				var err error
				if useAsync {
					res := <-a.adapter.ExecuteAsync(cmd.Context(), task, execOpts...)
					out, err = res.Output, res.Err
				} else {
					out, err = a.adapter.Execute(cmd.Context(), task, execOpts...)
				}
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}

			if len(args) > 0 {
				return run(strings.Join(args, " "))
			}
			return forEachTask(cmd, run)
		},
	}
	cmd.Flags().BoolVar(&async, "async", false, "run through the non-blocking execution path")
	cmd.Flags().BoolVar(&events, "events", false, "write execution events to stderr as json lines")
	return cmd
}

func newPlanCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "plan task...",
		Short: "Generate and validate a command for a task without running it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			inv, err := a.adapter.Plan(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), inv.String())
			return nil
		},
	}
}

// forEachTask runs every non-empty line of stdin as a task, prompting when stdin is a terminal.
// Failures are reported and the loop continues.
func forEachTask(cmd *cobra.Command, run func(string) error) error {
	in := cmd.InOrStdin()
	interactive := isTerminal(in)
	scanner := bufio.NewScanner(in)
	failed := 0
	for {
		if interactive {
			fmt.Fprint(cmd.OutOrStdout(), "> ")
		}
		if !scanner.Scan() {
			break
		}
		task := strings.TrimSpace(scanner.Text())
		if task == "" {
			continue
		}
		if err := run(task); err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d task(s) failed", failed)
	}
	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
