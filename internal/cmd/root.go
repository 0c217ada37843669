package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/salmonumbrella/draftpm/internal/config"
	"github.com/salmonumbrella/draftpm/internal/output"
)

var (
	// Version is set at build time
	version = "dev"
	// Commit is set at build time
	commit = "none"
	// Date is set at build time
	date = "unknown"
)

// SetVersionInfo sets the version information from build flags
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = v
	rootCmd.SetVersionTemplate(versionTemplate())
}

// Global flags
var (
	outputFmt   string
	outputType  output.Format
	debug       bool
	logFormat   string
	configFile  string
	queryExpr   string
	queryFile   string
	errorFmt    string
	resultLimit int
	resultSort  string
	resultDesc  bool
)

// Loaded per invocation in PersistentPreRunE.
var (
	activeConfig *config.Config
	logger       = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "draftpm",
	Short: "Convert Draft.js content to ProseMirror documents",
	Long: `draftpm converts raw Draft.js editor content into ProseMirror (Tiptap)
document JSON.

Anything the converter cannot map is reported as a non-fatal diagnostic:
unmatched block types, unresolved entities and unknown inline styles.

Environment Variables:
  DRAFTPM_OUTPUT     Default output format (text|json|ndjson|table|yaml)
  DRAFTPM_LOG_LEVEL  Log level (debug|info|warn|error)`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		skipConfigLoad := cmd.Name() == "config" || (cmd.Parent() != nil && cmd.Parent().Name() == "config")
		cfg := &config.Config{}
		if !skipConfigLoad {
			loadedCfg, err := loadConfigFromFlag()
			if err != nil {
				return formatConfigLoadError(err)
			}
			cfg = loadedCfg
		}
		activeConfig = cfg

		format, err := output.ParseFormat(resolveOutputFormat(cmd, cfg))
		if err != nil {
			return err
		}
		outputType = format
		outputFmt = string(format)

		// jq query
		if queryExpr != "" && queryFile != "" {
			return fmt.Errorf("use only one of --query or --query-file")
		}
		if queryFile != "" {
			loaded, err := readInputSource(queryFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			queryExpr = strings.TrimSpace(string(loaded))
		}

		ctx := cmd.Context()
		ctx = withIO(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		ctx = output.WithFormat(ctx, outputType)
		ctx = output.WithQuery(ctx, queryExpr)
		ctx = output.WithLimit(ctx, resultLimit)
		ctx = output.WithSort(ctx, resultSort, resultDesc)
		ctx = WithErrorFormat(ctx, errorFmt)
		cmd.SetContext(ctx)

		if err := validateErrorFormat(errorFmt); err != nil {
			return err
		}

		log, err := newLoggerFunc(resolveLogLevel(cfg), logFormat, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		logger = log
		cmd.SetContext(withLogger(cmd.Context(), log))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		ctx := rootCmd.Context()
		if cmd != nil && cmd.Context() != nil {
			ctx = cmd.Context()
		}
		printCommandError(ctx, err)
		return err
	}
	return nil
}

// GetOutputFormat returns the configured output format
func GetOutputFormat() output.Format {
	if outputType != "" {
		return outputType
	}
	parsed, err := output.ParseFormat(outputFmt)
	if err != nil {
		return output.FormatText
	}
	return parsed
}

// resolveOutputFormat picks the output format: --output > DRAFTPM_OUTPUT >
// config > json when stdout is not a terminal > text.
func resolveOutputFormat(cmd *cobra.Command, cfg *config.Config) string {
	if flagChanged(cmd, "output") || flagChanged(cmd, "format") {
		return outputFmt
	}
	if v := strings.TrimSpace(envGet("DRAFTPM_OUTPUT")); v != "" {
		return v
	}
	if cfg != nil && strings.TrimSpace(cfg.OutputFormat) != "" {
		return strings.TrimSpace(cfg.OutputFormat)
	}
	if !isTerminal(cmd.OutOrStdout()) {
		return string(output.FormatJSON)
	}
	return outputFmt
}

func versionTemplate() string {
	return fmt.Sprintf("draftpm version %s (commit: %s, built: %s)\n", version, commit, date)
}

func init() {
	rootCmd.SetVersionTemplate(versionTemplate())

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format (text|json|ndjson|table|yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "format", "text", "Alias for --output")
	rootCmd.PersistentFlags().StringVar(&queryExpr, "query", "", "jq expression to filter JSON output")
	rootCmd.PersistentFlags().StringVar(&queryFile, "query-file", "", "Read jq expression from file (use - for stdin)")
	rootCmd.PersistentFlags().StringVar(&errorFmt, "error-format", "auto", "Error output format (auto|text|json|yaml)")
	rootCmd.PersistentFlags().IntVar(&resultLimit, "result-limit", 0, "Limit number of results in list output (0 = unlimited)")
	rootCmd.PersistentFlags().StringVar(&resultSort, "result-sort-by", "", "Sort list output by field")
	rootCmd.PersistentFlags().BoolVar(&resultDesc, "result-desc", false, "Sort list output in descending order")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging (overrides log_level)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format on stderr (console|json)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ~/.config/draftpm/config.yaml)")
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
