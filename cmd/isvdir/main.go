package main

import (
	"fmt"
	"os"

	"github.com/kapu/isv-directory/internal/config"
	"github.com/kapu/isv-directory/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	sourceFlag   string
	logLevelFlag string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "isvdir",
	Short: "Searchable directory of ISV partner profiles",
	Long: `isvdir loads a profiles document and renders each ISV as a card whose
question/answer lines fit a fixed word budget.

Documents come from a JSON file, an http(s) URL, Redis or PostgreSQL
(PROFILES_SOURCE). Use "extract" to build a document from the DOCX report
and "publish" to push one into Redis or PostgreSQL.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if sourceFlag != "" {
			cfg.Source.Location = sourceFlag
		}
		if logLevelFlag != "" {
			cfg.Logging.Level = logLevelFlag
		}

		logger, err = util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", "", "Profiles document location (overrides PROFILES_SOURCE)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (overrides LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
