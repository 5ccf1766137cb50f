package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssconf"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter build config",
	Long: `Create tailwind.config.<ext> in the current directory with content globs
for templates and static scripts. With --settings also write a .cssconf.yaml
holding the CLI defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")
		name, _ := cmd.Flags().GetString("format")
		withSettings, _ := cmd.Flags().GetBool("settings")

		format, err := cssconf.ParseFormat(name)
		if err != nil {
			return err
		}

		cfg, err := cssconf.New(starterOptions)
		if err != nil {
			return err
		}
		data, err := cssconf.Marshal(cfg, format)
		if err != nil {
			return err
		}

		path := "tailwind.config" + format.Extension()
		if err := writeNew(path, data, force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)

		if withSettings {
			if err := writeNew(".cssconf.yaml", []byte(defaultSettings), force); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Created .cssconf.yaml")
		}
		return nil
	},
}

// starterOptions scans server-rendered templates and static scripts.
var starterOptions = cssconf.Options{
	Content: []string{
		"./templates/**/*.html",
		"./static/**/*.js",
	},
}

const defaultSettings = `# cssconf settings
# Docs: https://github.com/yacobolo/cssconf
#
# Every key can be set from the environment with a CSSCONF_ prefix. Sections
# are separated by "_" and hyphens are written as "__", for example
# CSSCONF_CHECK_STRICT=true or CSSCONF_CHECK_OUTPUT__FORMAT=json.

# Build config to use when no file argument is given.
# Default: first tailwind.config.{js,cjs,mjs,json,jsonc,yaml,yml,hcl} found.
# file: tailwind.config.js

verbose: false

# Extra plugin names accepted besides the first-party @tailwindcss/* ones.
plugins:
  allow: []

check:
  strict: false
  output-format: text # text | summary | json
  print-lines: true

show:
  format: "" # js | json | yaml | hcl, empty = same as input

content:
  base-dir: "" # empty = working directory

watch:
  lint: true
`

func writeNew(path string, data []byte, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing files")
	initCmd.Flags().String("format", "js", "Config format: js|json|yaml|hcl")
	initCmd.Flags().Bool("settings", false, "Also write .cssconf.yaml")
	_ = initCmd.RegisterFlagCompletionFunc("format", completeFormats)
}
