package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssconf"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Reload a build config on every change",
	Long: `Watch a build config and reload it whenever it changes. Valid edits
replace the active config as a whole; invalid edits are reported and the
previous config stays active.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Bool("lint", true, "Lint every accepted reload")
}

func runWatch(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigFile(args)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), getBoolWithFallback("verbose", "verbose", false), getBoolWithFallback("quiet", "quiet", false))
	lint := getBoolWithFallback("lint", "watch.lint", true)
	out := cmd.OutOrStdout()

	describe := func(res *cssconf.LoadResult) {
		c := res.Config
		fmt.Fprintf(out, "%s: %d content globs, %d safelisted classes, %d plugins\n",
			res.File, len(c.ContentGlobs()), c.Safelist().Len(), len(c.Plugins()))
		if lint {
			cssconf.NewReporter(out, false, false).PrintDiagnostics(cssconf.Lint(res.File, c))
		}
	}

	w, err := cssconf.NewWatcher(path, cssconf.WatcherOptions{
		Loader: &cssconf.Loader{Registry: buildRegistry(), Logger: logger},
		OnChange: func(res *cssconf.LoadResult) {
			logger.Info("config reloaded", "file", res.File)
			describe(res)
		},
		OnError: func(err error) {
			logger.Error("config rejected, keeping previous", "file", path, "error", err)
		},
	})
	if err != nil {
		return err
	}
	describe(w.Snapshot())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("watching", "file", path)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
