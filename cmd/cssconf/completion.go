package main

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:       "completion [bash|zsh|fish|powershell]",
	Short:     "Generate shell completion scripts",
	Long:      `Generate shell completion scripts for cssconf commands, flags and config file names.`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

var formatNames = []string{"js", "json", "yaml", "hcl"}

// completeFormats completes --format values.
func completeFormats(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return formatNames, cobra.ShellCompDirectiveNoFileComp
}

// completeConfigFile completes the [file] argument with config extensions.
func completeConfigFile(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"js", "cjs", "mjs", "json", "jsonc", "yaml", "yml", "hcl"}, cobra.ShellCompDirectiveFilterFileExt
}

func init() {
	for _, cmd := range []*cobra.Command{checkCmd, showCmd, contentCmd, watchCmd} {
		cmd.ValidArgsFunction = completeConfigFile
	}
}
