package main

import (
	"log/slog"

	"github.com/knadh/koanf/providers/file"
	"github.com/spf13/cobra"
	"github.com/yacobolo/cssconf"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate and lint a build config",
	Long: `Load a build config, report syntax and schema errors, unknown keys and
lint findings. Exits 1 on errors, or on warnings with --strict.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.Bool("strict", false, "Exit 1 on warnings too (CI mode)")
	f.String("output-format", "text", "Output format: text|summary|json")
	f.Bool("print-lines", true, "Show source lines with located diagnostics")

	_ = checkCmd.RegisterFlagCompletionFunc("output-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "summary", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := buildCheckConfig()
	path, err := resolveConfigFile(args)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.Quiet)
	loader := &cssconf.Loader{Registry: buildRegistry()}
	report := checkFile(loader, logger, path)

	if !cfg.PrintLines {
		for i := range report.Diagnostics {
			report.Diagnostics[i].Text = ""
		}
	}

	if !cfg.Quiet {
		format := cssconf.DetermineOutputFormat(cfg.OutputFormat)
		if err := cssconf.WriteReport(cmd.OutOrStdout(), report, format, cfg.UseColors); err != nil {
			return err
		}
	}

	if report.Failed(cfg.Strict) {
		return errFailed
	}
	return nil
}

// checkFile loads and lints path, turning every failure into diagnostics.
func checkFile(loader *cssconf.Loader, logger *slog.Logger, path string) *cssconf.Report {
	report := &cssconf.Report{File: path}

	data, err := file.Provider(path).ReadBytes()
	if err != nil {
		report.Diagnostics = append(report.Diagnostics, cssconf.DiagnosticFromError(path, err))
		return report
	}

	res, err := loader.Load(path, data)
	if err != nil {
		logger.Debug("config rejected", "file", path, "error", err)
		report.Diagnostics = append(report.Diagnostics, cssconf.DiagnosticFromError(path, err))
		cssconf.AttachSourceLines(report.Diagnostics, data)
		return report
	}
	logger.Debug("config loaded", "file", path, "format", string(res.Format), "warnings", len(res.Warnings))

	report.Result = res
	for _, w := range res.Warnings {
		report.Diagnostics = append(report.Diagnostics, cssconf.DiagnosticFromWarning(w))
	}
	report.Diagnostics = append(report.Diagnostics, cssconf.Lint(path, res.Config)...)
	cssconf.AttachSourceLines(report.Diagnostics, data)
	return report
}
