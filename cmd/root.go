package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/qgen/internal/api"
	"github.com/abhisek/qgen/internal/config"
	"github.com/abhisek/qgen/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "qgen [file.pdf]",
	Short:         "Generate interview questions from a PDF",
	Long:          "qgen uploads a PDF to the question generation API and lets you browse, answer, copy and export the generated interview questions.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, args)
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/qgen/config.yaml)")
	pf.String("api-url", "", "API base URL (overrides QGEN_API_URL)")
	pf.Duration("timeout", 0, "Per-request timeout (overrides QGEN_TIMEOUT)")
	pf.String("context", "", "Text file used as context when generating answers")
	pf.String("output-dir", "", "Directory for exported PDFs (overrides QGEN_OUTPUT_DIR)")
	pf.String("log-level", "", "Log level: trace, debug, info, warn, error")
	pf.String("log-file", "", "Write logs to this file")
	pf.String("log-format", "", "Log format: text or json (overrides QGEN_LOG_FORMAT)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves settings from the config file, .env, the environment
// and finally the persistent flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL, _ = flags.GetString("api-url")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		cfg.LogFile, _ = flags.GetString("log-file")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger builds the logger. Interactive sessions always log to a file
// since the terminal belongs to the UI.
func newLogger(cfg config.Config, interactive bool) (*logrus.Logger, func() error, error) {
	opts := logging.Options{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
		JSON:  cfg.LogFormat == config.LogFormatJSON,
	}
	if interactive {
		if opts.File == "" {
			opts.File = logging.DefaultFile()
		}
	} else {
		opts.Fallback = os.Stderr
	}
	return logging.New(opts)
}

func newClient(cfg config.Config, log logrus.FieldLogger) (api.Client, error) {
	return api.New(cfg.API(version), log)
}

// readContext returns the --context file contents, or "" when not set.
func readContext(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("context")
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read context: %w", err)
	}
	return string(data), nil
}
