package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configFile string
	dbURL      string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "formward",
	Short: "Formward business assessment form service",
	Long:  `Formward serves multi-step assessment forms: schema builder, conditional logic, submission pipeline, and scoring reports.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "database connection URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func Execute() error {
	return rootCmd.Execute()
}
