package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssconf"
)

var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Print the normalized config, optionally in another format",
	Long: `Load a build config and print it back in canonical key order.
Use --format to convert between js, json, yaml and hcl.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runShow,
}

func init() {
	showCmd.Flags().String("format", "", "Output format: js|json|yaml|hcl (default: same as input)")
	_ = showCmd.RegisterFlagCompletionFunc("format", completeFormats)
}

func runShow(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigFile(args)
	if err != nil {
		return err
	}

	loader := &cssconf.Loader{
		Registry: buildRegistry(),
		Logger:   newLogger(cmd.ErrOrStderr(), getBoolWithFallback("verbose", "verbose", false), getBoolWithFallback("quiet", "quiet", false)),
	}
	res, err := loader.LoadFile(path)
	if err != nil {
		return err
	}

	format := res.Format
	if name := getStringWithFallback("format", "show.format", ""); name != "" {
		if format, err = cssconf.ParseFormat(name); err != nil {
			return err
		}
	}

	data, err := cssconf.Marshal(res.Config, format)
	if err != nil {
		return fmt.Errorf("converting %s: %w", path, err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
