package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yacobolo/cssconf"
)

var k = koanf.New(".")

// loadConfig loads settings with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".cssconf.yaml"
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence, only flags that were explicitly set).
	// Unset flags are skipped so their defaults never shadow the section
	// keys (check.strict) read by the fallback helpers.
	flags := cmd.Flags()
	provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads settings from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Settings file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (CSSCONF_* prefix)
	if err := k.Load(env.Provider("CSSCONF_", ".", envKey), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// envKey maps an environment variable to a settings key. A single
// underscore separates sections and a double underscore stands for a
// hyphen:
//
//	CSSCONF_CHECK_STRICT         -> check.strict
//	CSSCONF_CHECK_OUTPUT__FORMAT -> check.output-format
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "CSSCONF_"))
	s = strings.ReplaceAll(s, "__", "-")
	return strings.ReplaceAll(s, "_", ".")
}

// checkConfig holds the resolved settings of `cssconf check`.
type checkConfig struct {
	Strict       bool
	OutputFormat string
	PrintLines   bool
	UseColors    bool
	Quiet        bool
	Verbose      bool
}

// buildCheckConfig constructs check settings from koanf state.
func buildCheckConfig() checkConfig {
	return checkConfig{
		Strict:       getBoolWithFallback("strict", "check.strict", false),
		OutputFormat: getStringWithFallback("output-format", "check.output-format", "text"),
		PrintLines:   getBoolWithFallback("print-lines", "check.print-lines", true),
		UseColors:    cssconf.ShouldUseColors(getBoolWithFallback("color", "color", false)),
		Quiet:        getBoolWithFallback("quiet", "quiet", false),
		Verbose:      getBoolWithFallback("verbose", "verbose", false),
	}
}

// buildRegistry returns the default plugin registry extended with the
// names listed under plugins.allow. Extra plugins accept any options.
func buildRegistry() *cssconf.PluginRegistry {
	reg := cssconf.DefaultRegistry()
	allowed := k.Strings("plugins.allow")
	if len(allowed) == 0 {
		return reg
	}
	specs := make([]cssconf.PluginSpec, 0, len(allowed))
	for _, name := range allowed {
		specs = append(specs, cssconf.PluginSpec{Name: name})
	}
	return reg.With(specs...)
}

// resolveConfigFile picks the build config to operate on: the positional
// argument, then the file setting, then the first default name in the
// working directory.
func resolveConfigFile(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if v := k.String("file"); v != "" {
		return v, nil
	}
	return cssconf.FindConfigFile(".")
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}
