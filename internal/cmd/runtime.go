package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/salmonumbrella/draftpm/internal/config"
	"github.com/salmonumbrella/draftpm/internal/convert"
	"github.com/salmonumbrella/draftpm/internal/pm"
)

// loadConfigFromFlag loads config from --config if provided, otherwise from default path.
func loadConfigFromFlag() (*config.Config, error) {
	if strings.TrimSpace(configFile) != "" {
		return config.Load(configFile)
	}
	return config.ReadConfig()
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	if cmd.Flags().Changed(name) {
		return true
	}
	return cmd.InheritedFlags().Changed(name)
}

// resolveLogLevel resolves the log level with precedence:
// --debug > DRAFTPM_LOG_LEVEL > config > info.
func resolveLogLevel(cfg *config.Config) string {
	if debug {
		return "debug"
	}
	if v := strings.TrimSpace(envGet("DRAFTPM_LOG_LEVEL")); v != "" {
		return v
	}
	if cfg != nil && strings.TrimSpace(cfg.LogLevel) != "" {
		return strings.TrimSpace(cfg.LogLevel)
	}
	return "info"
}

// converterOptionsFromConfig builds converter options from config mappings.
// Block aliases must name a built-in block type.
func converterOptionsFromConfig(cfg *config.Config) ([]convert.Option, error) {
	if cfg == nil {
		return nil, nil
	}

	var opts []convert.Option
	builtins := convert.DefaultBlockHandlers()
	for _, alias := range config.SortedKeys(cfg.BlockAliases) {
		target := strings.TrimSpace(cfg.BlockAliases[alias])
		if _, ok := builtins[target]; !ok {
			return nil, fmt.Errorf("block_aliases.%s: unknown block type %q", alias, target)
		}
		opts = append(opts, convert.WithBlockAlias(alias, target))
	}
	for _, style := range config.SortedKeys(cfg.Styles) {
		mark := pm.Mark{Type: strings.TrimSpace(cfg.Styles[style])}
		opts = append(opts, convert.WithStyle(style, convert.StaticMark(mark)))
	}
	for _, entityType := range config.SortedKeys(cfg.EntityMarks) {
		opts = append(opts, convert.WithEntityMark(entityType, convert.EntityDataMark(strings.TrimSpace(cfg.EntityMarks[entityType]))))
	}
	for _, entityType := range config.SortedKeys(cfg.EntityNodes) {
		opts = append(opts, convert.WithEntityNode(entityType, convert.EntityDataNode(strings.TrimSpace(cfg.EntityNodes[entityType]))))
	}
	return opts, nil
}

// newConverter builds a converter from the loaded config and logger.
func newConverter(cfg *config.Config, log *zap.Logger) (*convert.Converter, error) {
	opts, err := converterOptionsFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	opts = append(opts, convert.WithLogger(log))
	return convert.New(opts...), nil
}

// commandConverter builds the converter for a running command.
func commandConverter(cmd *cobra.Command) (*convert.Converter, error) {
	return newConverter(activeConfig, loggerFromContext(cmd.Context()))
}

func formatConfigLoadError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load config: %w", err)
}
