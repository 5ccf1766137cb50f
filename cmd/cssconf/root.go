package main

import (
	"errors"

	"github.com/spf13/cobra"
)

// errFailed signals a failed check whose diagnostics were already printed.
var errFailed = errors.New("check failed")

var rootCmd = &cobra.Command{
	Use:   "cssconf",
	Short: "Check, convert and watch CSS utility-class build configs",
	Long: `Load a tailwind-style build configuration (JS, JSON, YAML or HCL),
validate it against the schema and plugin registry, and report problems
before the CSS engine runs.`,
	// Default behavior: run check when no subcommand is given.
	// We must call loadConfig here because PreRunE of checkCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runCheck(cmd, args)
	},
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress all output (exit code only)")
	rootCmd.PersistentFlags().Bool("color", false, "Force color output")
	rootCmd.PersistentFlags().String("config", ".cssconf.yaml", "cssconf settings file path")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
