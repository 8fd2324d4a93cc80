package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"stdphrase/config"
	"stdphrase/internal/logging"
)

var (
	cfgFile    string
	cfg        *config.Config
	rootDir    string
	logLevel   string
	phrasesSrc string
	phraseCol  string
	logger     = log.Default()
)

var rootCmd = &cobra.Command{
	Use:   "stdphrase",
	Short: "Suggest standardised phrases for free-form text",
	Long: `stdphrase scans text with a sliding word window, matches every window
against a list of canonical phrases by embedding similarity, and proposes
replacements for close matches.

Example usage:
  stdphrase suggest --input minutes.txt           # List suggestions
  stdphrase review --input minutes.txt -o out.txt # Accept or reject interactively
  stdphrase phrases check                         # Lint the phrase list`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		applyFlagOverrides(cfg)
		logger = logging.Configure(cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./stdphrase.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVarP(&phrasesSrc, "phrases", "p", "", "phrase list: .csv or .txt file, or postgres:// DSN (overrides phrases.source)")
	rootCmd.PersistentFlags().StringVar(&phraseCol, "column", "", "CSV column holding the phrases (overrides phrases.column)")
}

// applyFlagOverrides copies persistent flags that were set onto c.
func applyFlagOverrides(c *config.Config) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if phrasesSrc != "" {
		c.Phrases.Source = phrasesSrc
	}
	if phraseCol != "" {
		c.Phrases.Column = phraseCol
	}
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
