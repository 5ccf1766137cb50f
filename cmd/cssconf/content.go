package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssconf"
)

var contentCmd = &cobra.Command{
	Use:   "content [file]",
	Short: "List the files the content globs select",
	Long: `Expand the content globs of a build config against the file system and
print the files the CSS engine would scan, with per-pattern match counts.
Negated globs and .gitignore entries are honored.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runContent,
}

func init() {
	contentCmd.Flags().String("base-dir", "", "Directory globs resolve against (default: working directory)")
}

func runContent(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigFile(args)
	if err != nil {
		return err
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	loader := &cssconf.Loader{
		Registry: buildRegistry(),
		Logger:   newLogger(cmd.ErrOrStderr(), getBoolWithFallback("verbose", "verbose", false), quiet),
	}
	res, err := loader.LoadFile(path)
	if err != nil {
		return err
	}

	baseDir := getStringWithFallback("base-dir", "content.base-dir", "")
	if baseDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		baseDir = cssconf.ContentBaseDir(res.Config, path, cwd)
	}

	result, err := cssconf.ResolveContent(res.Config, baseDir)
	if err != nil {
		return err
	}

	if !quiet {
		useColors := cssconf.ShouldUseColors(getBoolWithFallback("color", "color", false))
		cssconf.NewReporter(cmd.OutOrStdout(), useColors, false).PrintContent(result)
	}
	return nil
}
