package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/draftpm/internal/config"
	"github.com/salmonumbrella/draftpm/internal/convert"
	"github.com/salmonumbrella/draftpm/internal/logging"
	"github.com/salmonumbrella/draftpm/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration stored in ~/.config/draftpm/config.yaml.

Scalar keys are output_format and log_level. Mapping keys take a name after
a dot, for example:

  draftpm config set styles.KBD code
  draftpm config set block_aliases.paragraph-small unstyled
  draftpm config set entity_marks.MENTION mention
  draftpm config unset entity_nodes.EMBED`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigFromFlag()
		if err != nil {
			return formatConfigLoadError(err)
		}
		if structuredOutputRequested() {
			return printOutput(cmd.Context(), cfg)
		}

		out := stdoutFromContext(cmd.Context())
		fmt.Fprintln(out, "Config:")
		fmt.Fprintf(out, "  output_format: %s\n", cfg.OutputFormat)
		fmt.Fprintf(out, "  log_level: %s\n", cfg.LogLevel)
		for _, sec := range mappingSections(cfg) {
			fmt.Fprintf(out, "  %s:\n", sec.name)
			for _, key := range config.SortedKeys(*sec.m) {
				fmt.Fprintf(out, "    %s: %s\n", key, (*sec.m)[key])
			}
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Unset a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List supported configuration keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := supportedConfigKeys()
		sort.Strings(keys)

		if structuredOutputRequested() {
			return printOutput(cmd.Context(), keys)
		}

		out := stdoutFromContext(cmd.Context())
		fmt.Fprintln(out, "Supported keys:")
		for _, key := range keys {
			fmt.Fprintf(out, "  %s\n", key)
		}
		return nil
	},
}

func configPath() (string, error) {
	if strings.TrimSpace(configFile) != "" {
		return configFile, nil
	}
	return config.DefaultConfigPath()
}

type mappingSection struct {
	name string
	m    *map[string]string
}

func mappingSections(cfg *config.Config) []mappingSection {
	return []mappingSection{
		{"styles", &cfg.Styles},
		{"block_aliases", &cfg.BlockAliases},
		{"entity_marks", &cfg.EntityMarks},
		{"entity_nodes", &cfg.EntityNodes},
	}
}

func supportedConfigKeys() []string {
	return []string{
		"output_format",
		"log_level",
		"styles.<style>",
		"block_aliases.<block type>",
		"entity_marks.<entity type>",
		"entity_nodes.<entity type>",
	}
}

// splitConfigKey splits "section.name" keys. Names keep their case.
func splitConfigKey(key string) (section, name string) {
	section, name, _ = strings.Cut(strings.TrimSpace(key), ".")
	return strings.ToLower(section), strings.TrimSpace(name)
}

func findMappingSection(cfg *config.Config, section string) (mappingSection, bool) {
	for _, sec := range mappingSections(cfg) {
		if sec.name == section {
			return sec, true
		}
	}
	return mappingSection{}, false
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	section, name := splitConfigKey(key)
	switch section {
	case "output_format":
		if _, err := output.ParseFormat(value); err != nil {
			return err
		}
		cfg.OutputFormat = value
		return nil
	case "log_level":
		if _, err := logging.ParseLevel(value); err != nil {
			return err
		}
		cfg.LogLevel = value
		return nil
	}

	sec, ok := findMappingSection(cfg, section)
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	if name == "" {
		return fmt.Errorf("config key %s needs a name: %s.<name>", section, section)
	}
	if value == "" {
		return fmt.Errorf("config key %s needs a value", key)
	}
	if section == "block_aliases" {
		if _, ok := convert.DefaultBlockHandlers()[value]; !ok {
			return fmt.Errorf("block_aliases.%s: unknown block type %q", name, value)
		}
	}
	if *sec.m == nil {
		*sec.m = make(map[string]string)
	}
	(*sec.m)[name] = value
	return nil
}

func clearConfigValue(cfg *config.Config, key string) error {
	section, name := splitConfigKey(key)
	switch section {
	case "output_format":
		cfg.OutputFormat = ""
		return nil
	case "log_level":
		cfg.LogLevel = ""
		return nil
	}

	sec, ok := findMappingSection(cfg, section)
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	if name == "" {
		*sec.m = nil
		return nil
	}
	delete(*sec.m, name)
	if len(*sec.m) == 0 {
		*sec.m = nil
	}
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configKeysCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := strings.TrimSpace(args[0])
	value := strings.TrimSpace(args[1])

	cfg, err := loadConfigFromFlag()
	if err != nil {
		return formatConfigLoadError(err)
	}

	if err := applyConfigValue(cfg, key, value); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	if structuredOutputRequested() {
		return printOutput(cmd.Context(), map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}

	fmt.Fprintf(stdoutFromContext(cmd.Context()), "Updated %s\n", key)
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	key := strings.TrimSpace(args[0])

	cfg, err := loadConfigFromFlag()
	if err != nil {
		return formatConfigLoadError(err)
	}

	if err := clearConfigValue(cfg, key); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	if structuredOutputRequested() {
		return printOutput(cmd.Context(), map[string]string{
			"status": "unset",
			"key":    key,
		})
	}

	fmt.Fprintf(stdoutFromContext(cmd.Context()), "Unset %s\n", key)
	return nil
}
